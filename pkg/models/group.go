package models

// Group is a set of users sharing a home space. ID is assigned by the store.
type Group struct {
	ID      int64 `json:"id" db:"id"`
	SpaceID int64 `json:"space_id" db:"space_id"`
}

// GroupCreateRequest represents the request payload for POST /groups/
type GroupCreateRequest struct {
	SpaceID *int64 `json:"space_id" validate:"required"`
}

func (r GroupCreateRequest) ToGroup() Group {
	var g Group
	if r.SpaceID != nil {
		g.SpaceID = *r.SpaceID
	}
	return g
}
