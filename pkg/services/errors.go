package services

import (
	"errors"
	"fmt"

	"space-booking-backend/pkg/database"
)

// Conflict reasons returned to API clients.
const (
	ReasonEmailRegistered = "Email already registered"
	ReasonSpaceHasGroup   = "Space already occupied by group"
	ReasonSpaceExists     = "Space already exists"
	ReasonSpaceOccupied   = "Space already occupied on date"
	ReasonUserHasBooking  = "User already occupies a space on this date"
)

// ErrNotFound is returned by reads of a single entity that does not exist.
var ErrNotFound = database.ErrNotFound

// ConflictError reports a uniqueness or exclusivity violation.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

func conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// recheck resolves a storage duplicate after the transaction: the rule's
// conflict when the competing row is visible, otherwise err itself (a
// serialization failure with no row to blame).
func recheck(err error, reason string, lookup func() error) error {
	found, lerr := exists(lookup())
	if lerr != nil {
		return fmt.Errorf("%w (recheck failed: %v)", err, lerr)
	}
	if found {
		return conflict(reason)
	}
	return err
}
