package handlers

import (
	"fmt"
	"net/http"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"
)

type GroupsHandler struct {
	config    *config.Config
	service   *services.BookingService
	validator *utils.Validator
}

func NewGroupsHandler(cfg *config.Config, service *services.BookingService, v *utils.Validator) *GroupsHandler {
	return &GroupsHandler{config: cfg, service: service, validator: v}
}

// POST /groups/
func (h *GroupsHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.GroupCreateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	group, err := h.service.CreateGroup(r.Context(), req.ToGroup())
	if err != nil {
		writeServiceError(w, r, err, "Group not found")
		return
	}
	if h.config.Debug {
		fmt.Printf("👥 Group %d created on space %d\n", group.ID, group.SpaceID)
	}
	utils.WriteSuccessResponse(w, group)
}

// GET /groups/{id}
func (h *GroupsHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	group, err := h.service.GetGroup(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Group not found")
		return
	}
	utils.WriteSuccessResponse(w, group)
}

// GET /groups/?skip=&limit=
func (h *GroupsHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}
	groups, err := h.service.ListGroups(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, groups)
}

// DELETE /groups/{id}
func (h *GroupsHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	group, err := h.service.DeleteGroup(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Group not found")
		return
	}
	utils.WriteSuccessResponse(w, group)
}
