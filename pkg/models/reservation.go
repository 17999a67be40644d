package models

// Reservation books one space for one user on one date (table space_availability).
// (SpaceID, Date) identifies the row; UserID holds the user's email.
type Reservation struct {
	Date    Date   `json:"date" db:"date"`
	SpaceID int64  `json:"space_id" db:"space_id"`
	UserID  string `json:"user_id" db:"user_id"`
}

// ReservationCreateRequest represents the request payload for POST /spaces/availability
type ReservationCreateRequest struct {
	Date    Date    `json:"date" validate:"required"`
	SpaceID *int64  `json:"space_id" validate:"required"`
	UserID  *string `json:"user_id" validate:"required"`
}

func (r ReservationCreateRequest) ToReservation() Reservation {
	res := Reservation{Date: r.Date}
	if r.SpaceID != nil {
		res.SpaceID = *r.SpaceID
	}
	if r.UserID != nil {
		res.UserID = *r.UserID
	}
	return res
}
