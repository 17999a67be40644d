package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"

	chiRoute "github.com/go-chi/chi/v5"
)

// ReservationsHandler serves /spaces/availability.
type ReservationsHandler struct {
	config    *config.Config
	service   *services.BookingService
	validator *utils.Validator
}

func NewReservationsHandler(cfg *config.Config, service *services.BookingService, v *utils.Validator) *ReservationsHandler {
	return &ReservationsHandler{config: cfg, service: service, validator: v}
}

// POST /spaces/availability
func (h *ReservationsHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationCreateRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reservation, err := h.service.CreateReservation(r.Context(), req.ToReservation())
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	if h.config.Debug {
		fmt.Printf("📅 Space %d booked by %s on %s\n", reservation.SpaceID, reservation.UserID, reservation.Date)
	}
	utils.WriteSuccessResponse(w, reservation)
}

// GET /spaces/availability?skip=&limit=
func (h *ReservationsHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := parsePagination(w, r)
	if !ok {
		return
	}
	reservations, err := h.service.ListReservations(r.Context(), skip, limit)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, reservations)
}

// GET /spaces/availability/date/{date}
func (h *ReservationsHandler) ListReservationsByDate(w http.ResponseWriter, r *http.Request) {
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}
	reservations, err := h.service.ListReservationsByDate(r.Context(), date)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, reservations)
}

// GET /spaces/availability/user/{user_id}
func (h *ReservationsHandler) ListReservationsByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := stringParam(w, r, "user_id")
	if !ok {
		return
	}
	reservations, err := h.service.ListReservationsByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, reservations)
}

// DELETE /spaces/availability/{user_id}/{date}/{space_id}
func (h *ReservationsHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	userID, ok := stringParam(w, r, "user_id")
	if !ok {
		return
	}
	date, ok := dateParam(w, r, "date")
	if !ok {
		return
	}
	spaceID, ok := int64Param(w, r, "space_id")
	if !ok {
		return
	}

	reservation, err := h.service.DeleteReservation(r.Context(), spaceID, userID, date)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	utils.WriteSuccessResponse(w, reservation)
}

// dateParam 读取 YYYY-MM-DD 格式的路径参数
func dateParam(w http.ResponseWriter, r *http.Request, name string) (models.Date, bool) {
	date, err := models.ParseDate(strings.TrimSpace(chiRoute.URLParam(r, name)))
	if err != nil {
		utils.WriteValidationErrorResponse(w, fmt.Sprintf("%s must be a date (YYYY-MM-DD)", name),
			[]utils.FieldError{{Field: name, Rule: "date"}})
		return models.Date{}, false
	}
	return date, true
}
