package models

// User is a person who can book spaces. Email is the primary key.
type User struct {
	Email   string `json:"email" db:"email"`
	Name    string `json:"name" db:"name"`
	GroupID int64  `json:"group_id" db:"group_id"`
	Day     string `json:"day" db:"day"`
}

// UserCreateRequest represents the request payload for POST /users/
// Fields must be present; empty strings are accepted.
type UserCreateRequest struct {
	Email   *string `json:"email" validate:"required"`
	Name    *string `json:"name" validate:"required"`
	GroupID *int64  `json:"group_id" validate:"required"`
	Day     *string `json:"day" validate:"required"`
}

// ToUser converts a validated request into a storage record.
func (r UserCreateRequest) ToUser() User {
	var u User
	if r.Email != nil {
		u.Email = *r.Email
	}
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.GroupID != nil {
		u.GroupID = *r.GroupID
	}
	if r.Day != nil {
		u.Day = *r.Day
	}
	return u
}
