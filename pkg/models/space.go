package models

// Space is a bookable desk or room. SpaceID is chosen by the caller.
type Space struct {
	SpaceID  int64 `json:"space_id" db:"space_id"`
	Disabled bool  `json:"disabled" db:"disabled"`
}

// SpaceCreateRequest represents the request payload for POST /spaces/
type SpaceCreateRequest struct {
	SpaceID  *int64 `json:"space_id" validate:"required"`
	Disabled *bool  `json:"disabled" validate:"required"`
}

func (r SpaceCreateRequest) ToSpace() Space {
	var s Space
	if r.SpaceID != nil {
		s.SpaceID = *r.SpaceID
	}
	if r.Disabled != nil {
		s.Disabled = *r.Disabled
	}
	return s
}
