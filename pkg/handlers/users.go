package handlers

import (
	"fmt"
	"net/http"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"
)

type UsersHandler struct {
	config    *config.Config
	service   *services.BookingService
	validator *utils.Validator
}

func NewUsersHandler(cfg *config.Config, service *services.BookingService, v *utils.Validator) *UsersHandler {
	return &UsersHandler{config: cfg, service: service, validator: v}
}

// POST /users/
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.UserCreateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.ToUser())
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	if h.config.Debug {
		fmt.Printf("👤 User created: %s (group %d)\n", user.Email, user.GroupID)
	}
	utils.WriteSuccessResponse(w, user)
}

// GET /users/?skip=&limit=
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}
	users, err := h.service.ListUsers(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, users)
}

// GET /users/group/{group_id}
func (h *UsersHandler) ListUsersByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, ok := int64Param(w, r, "group_id")
	if !ok {
		return
	}
	users, err := h.service.ListUsersByGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, users)
}

// GET /users/email/{email}
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email, ok := stringParam(w, r, "email")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	utils.WriteSuccessResponse(w, user)
}

// DELETE /users/{email}
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	email, ok := stringParam(w, r, "email")
	if !ok {
		return
	}
	user, err := h.service.DeleteUser(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	// 不存在时返回 null
	utils.WriteSuccessResponse(w, user)
}
