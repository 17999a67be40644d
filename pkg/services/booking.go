// Package services holds the booking consistency rules: every mutating call
// reads the current state, decides, and writes inside a single transaction.
package services

import (
	"context"
	"errors"
	"fmt"

	"space-booking-backend/pkg/database"
	"space-booking-backend/pkg/models"
)

// BookingService enforces the uniqueness and exclusivity rules for users,
// groups, spaces and reservations.
type BookingService struct {
	db database.DatabaseInterface
}

func NewBookingService(db database.DatabaseInterface) *BookingService {
	return &BookingService{db: db}
}

// ================= Users =================

// CreateUser fails with a conflict when the email is already registered.
func (s *BookingService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	err := s.db.InTx(ctx, func(q database.Queries) error {
		_, err := q.GetUserByEmail(ctx, user.Email)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found {
			return conflict(ReasonEmailRegistered)
		}
		return q.CreateUser(ctx, &user)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, recheck(err, ReasonEmailRegistered, func() error {
			_, lerr := s.db.GetUserByEmail(ctx, user.Email)
			return lerr
		})
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *BookingService) GetUser(ctx context.Context, email string) (*models.User, error) {
	return s.db.GetUserByEmail(ctx, email)
}

func (s *BookingService) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.db.ListUsers(ctx, skip, limit)
}

// ListUsersByGroup returns an empty list for an unknown group.
func (s *BookingService) ListUsersByGroup(ctx context.Context, groupID int64) ([]models.User, error) {
	return s.db.ListUsersByGroup(ctx, groupID)
}

// DeleteUser returns the removed user, or nil when there was nothing to delete.
func (s *BookingService) DeleteUser(ctx context.Context, email string) (*models.User, error) {
	var deleted *models.User
	err := s.db.InTx(ctx, func(q database.Queries) error {
		user, err := q.GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		deleted = user
		return q.DeleteUser(ctx, email)
	})
	return orNil(deleted, err)
}

// ================= Groups =================

// CreateGroup fails with a conflict when another group already claims the space.
func (s *BookingService) CreateGroup(ctx context.Context, group models.Group) (*models.Group, error) {
	err := s.db.InTx(ctx, func(q database.Queries) error {
		_, err := q.GetGroupBySpace(ctx, group.SpaceID)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found {
			return conflict(ReasonSpaceHasGroup)
		}
		return q.CreateGroup(ctx, &group)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, recheck(err, ReasonSpaceHasGroup, func() error {
			_, lerr := s.db.GetGroupBySpace(ctx, group.SpaceID)
			return lerr
		})
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *BookingService) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	return s.db.GetGroup(ctx, id)
}

func (s *BookingService) ListGroups(ctx context.Context, skip, limit int) ([]models.Group, error) {
	return s.db.ListGroups(ctx, skip, limit)
}

// DeleteGroup leaves the group's users in place.
func (s *BookingService) DeleteGroup(ctx context.Context, id int64) (*models.Group, error) {
	var deleted *models.Group
	err := s.db.InTx(ctx, func(q database.Queries) error {
		group, err := q.GetGroup(ctx, id)
		if err != nil {
			return err
		}
		deleted = group
		return q.DeleteGroup(ctx, id)
	})
	return orNil(deleted, err)
}

// ================= Spaces =================

// CreateSpace fails with a conflict when the space id is taken.
func (s *BookingService) CreateSpace(ctx context.Context, space models.Space) (*models.Space, error) {
	err := s.db.InTx(ctx, func(q database.Queries) error {
		_, err := q.GetSpace(ctx, space.SpaceID)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found {
			return conflict(ReasonSpaceExists)
		}
		return q.CreateSpace(ctx, &space)
	})
	if errors.Is(err, database.ErrDuplicate) {
		return nil, recheck(err, ReasonSpaceExists, func() error {
			_, lerr := s.db.GetSpace(ctx, space.SpaceID)
			return lerr
		})
	}
	if err != nil {
		return nil, err
	}
	return &space, nil
}

func (s *BookingService) GetSpace(ctx context.Context, spaceID int64) (*models.Space, error) {
	return s.db.GetSpace(ctx, spaceID)
}

func (s *BookingService) ListSpaces(ctx context.Context, skip, limit int) ([]models.Space, error) {
	return s.db.ListSpaces(ctx, skip, limit)
}

// DeleteSpace leaves reservations and groups that reference the space in place.
func (s *BookingService) DeleteSpace(ctx context.Context, spaceID int64) (*models.Space, error) {
	var deleted *models.Space
	err := s.db.InTx(ctx, func(q database.Queries) error {
		space, err := q.GetSpace(ctx, spaceID)
		if err != nil {
			return err
		}
		deleted = space
		return q.DeleteSpace(ctx, spaceID)
	})
	return orNil(deleted, err)
}

// ================= Reservations =================

// CreateReservation books a space for a user on a date. The space check runs
// first, so a request that breaks both rules reports the occupied space.
func (s *BookingService) CreateReservation(ctx context.Context, r models.Reservation) (*models.Reservation, error) {
	err := s.db.InTx(ctx, func(q database.Queries) error {
		if err := checkReservation(ctx, q, r); err != nil {
			return err
		}
		return q.CreateReservation(ctx, &r)
	})
	if errors.Is(err, database.ErrDuplicate) {
		// a concurrent request won the race; re-read to report the right rule.
		// Nothing visible means a serialization failure, not a taken slot.
		if cerr := checkReservation(ctx, s.db, r); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func checkReservation(ctx context.Context, q database.Queries, r models.Reservation) error {
	_, err := q.FindReservationBySpaceDate(ctx, r.SpaceID, r.Date)
	taken, err := exists(err)
	if err != nil {
		return fmt.Errorf("check space availability: %w", err)
	}
	if taken {
		return conflict(ReasonSpaceOccupied)
	}

	_, err = q.FindReservationByUserDate(ctx, r.UserID, r.Date)
	booked, err := exists(err)
	if err != nil {
		return fmt.Errorf("check user availability: %w", err)
	}
	if booked {
		return conflict(ReasonUserHasBooking)
	}
	return nil
}

func (s *BookingService) ListReservations(ctx context.Context, skip, limit int) ([]models.Reservation, error) {
	return s.db.ListReservations(ctx, skip, limit)
}

func (s *BookingService) ListReservationsByDate(ctx context.Context, date models.Date) ([]models.Reservation, error) {
	return s.db.ListReservationsByDate(ctx, date)
}

func (s *BookingService) ListReservationsByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	return s.db.ListReservationsByUser(ctx, userID)
}

// DeleteReservation removes the booking matching all three fields. A missing
// booking is skipped silently and reported as a nil reservation.
func (s *BookingService) DeleteReservation(ctx context.Context, spaceID int64, userID string, date models.Date) (*models.Reservation, error) {
	var deleted *models.Reservation
	err := s.db.InTx(ctx, func(q database.Queries) error {
		r, err := q.FindReservation(ctx, spaceID, userID, date)
		if err != nil {
			return err
		}
		deleted = r
		return q.DeleteReservation(ctx, spaceID, userID, date)
	})
	return orNil(deleted, err)
}

// orNil turns a not-found lookup inside a delete into a silent no-op.
func orNil[T any](deleted *T, err error) (*T, error) {
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
