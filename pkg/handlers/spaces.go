package handlers

import (
	"fmt"
	"net/http"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"
)

type SpacesHandler struct {
	config    *config.Config
	service   *services.BookingService
	validator *utils.Validator
}

func NewSpacesHandler(cfg *config.Config, service *services.BookingService, v *utils.Validator) *SpacesHandler {
	return &SpacesHandler{config: cfg, service: service, validator: v}
}

// POST /spaces/
func (h *SpacesHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req models.SpaceCreateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	space, err := h.service.CreateSpace(r.Context(), req.ToSpace())
	if err != nil {
		writeServiceError(w, r, err, "Space not found")
		return
	}
	if h.config.Debug {
		fmt.Printf("🏢 Space %d created (disabled=%t)\n", space.SpaceID, space.Disabled)
	}
	utils.WriteSuccessResponse(w, space)
}

// GET /spaces/{id}
func (h *SpacesHandler) GetSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	space, err := h.service.GetSpace(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Space not found")
		return
	}
	utils.WriteSuccessResponse(w, space)
}

// GET /spaces/?skip=&limit=
func (h *SpacesHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}
	spaces, err := h.service.ListSpaces(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, spaces)
}

// DELETE /spaces/{id}
func (h *SpacesHandler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	space, err := h.service.DeleteSpace(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Space not found")
		return
	}
	utils.WriteSuccessResponse(w, space)
}
