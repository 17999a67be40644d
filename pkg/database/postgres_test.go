package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPostgresDialect_Classify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pq.Error{Code: pqUniqueViolation}, true},
		{"serialization failure", &pq.Error{Code: pqSerializationFailure}, true},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pq.Error{Code: pqUniqueViolation}), true},
		{"not null violation", &pq.Error{Code: "23502"}, false},
		{"undefined table", &pq.Error{Code: "42P01"}, false},
		{"plain error", errors.New("connection reset"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postgresDialect.isDuplicate(tt.err))

			classified := postgresDialect.classify(tt.err)
			assert.Equal(t, tt.want, errors.Is(classified, ErrDuplicate))
			if !tt.want {
				assert.Same(t, tt.err, classified, "other errors pass through untouched")
			}
		})
	}

	assert.NoError(t, postgresDialect.classify(nil))
	assert.False(t, sqliteDialect.isDuplicate(&pq.Error{Code: pqUniqueViolation}))
}

func TestPostgresDialect_RebindStatements(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{
			`INSERT INTO space_availability (space_id, user_id, date) VALUES (?, ?, ?)`,
			`INSERT INTO space_availability (space_id, user_id, date) VALUES ($1, $2, $3)`,
		},
		{
			`DELETE FROM space_availability WHERE date = ? AND user_id = ? AND space_id = ?`,
			`DELETE FROM space_availability WHERE date = $1 AND user_id = $2 AND space_id = $3`,
		},
		{
			`SELECT email, name, group_id, day FROM users ORDER BY email LIMIT ? OFFSET ?`,
			`SELECT email, name, group_id, day FROM users ORDER BY email LIMIT $1 OFFSET $2`,
		},
		{
			`INSERT INTO "groups" (space_id) VALUES (?) RETURNING id`,
			`INSERT INTO "groups" (space_id) VALUES ($1) RETURNING id`,
		},
		{
			`SELECT id, space_id FROM "groups" ORDER BY id`,
			`SELECT id, space_id FROM "groups" ORDER BY id`,
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, postgresDialect.rebind(tt.in))
		assert.Equal(t, tt.in, sqliteDialect.rebind(tt.in))
	}
}
