package utils

import (
	"encoding/json"
	"testing"

	"space-booking-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Reservation(t *testing.T) {
	v := NewValidator()

	var ok models.ReservationCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-01","space_id":0,"user_id":"a@x.com"}`), &ok))
	fields, err := v.Struct(ok)
	require.NoError(t, err)
	assert.Empty(t, fields, "space_id 0 is a valid value")

	var missing models.ReservationCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	fields, err = v.Struct(missing)
	require.NoError(t, err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "date", Rule: "required"},
		{Field: "space_id", Rule: "required"},
		{Field: "user_id", Rule: "required"},
	}, fields)
}

func TestValidator_Space(t *testing.T) {
	v := NewValidator()

	var req models.SpaceCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"space_id":1,"disabled":false}`), &req))
	fields, err := v.Struct(req)
	require.NoError(t, err)
	assert.Empty(t, fields, "disabled=false counts as present")

	req.Disabled = nil
	fields, err = v.Struct(req)
	require.NoError(t, err)
	assert.Equal(t, []FieldError{{Field: "disabled", Rule: "required"}}, fields)
}

func TestValidator_User(t *testing.T) {
	v := NewValidator()

	var req models.UserCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"a@x.com","name":"Ann"}`), &req))
	fields, err := v.Struct(req)
	require.NoError(t, err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "group_id", Rule: "required"},
		{Field: "day", Rule: "required"},
	}, fields)
}

func TestValidator_EmptyStringsArePresent(t *testing.T) {
	v := NewValidator()

	var user models.UserCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"","name":"","group_id":1,"day":""}`), &user))
	fields, err := v.Struct(user)
	require.NoError(t, err)
	assert.Empty(t, fields)

	var booking models.ReservationCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-01-01","space_id":1,"user_id":""}`), &booking))
	fields, err = v.Struct(booking)
	require.NoError(t, err)
	assert.Empty(t, fields)

	var missing models.UserCreateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"group_id":1,"day":""}`), &missing))
	fields, err = v.Struct(missing)
	require.NoError(t, err)
	assert.ElementsMatch(t, []FieldError{
		{Field: "email", Rule: "required"},
		{Field: "name", Rule: "required"},
	}, fields)
}
