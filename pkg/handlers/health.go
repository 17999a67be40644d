package handlers

import (
	"context"
	"net/http"
	"time"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/database"
	"space-booking-backend/pkg/utils"
)

const serviceName = "space-booking-backend"

type HealthHandler struct {
	config *config.Config
	db     database.DatabaseInterface
}

func NewHealthHandler(cfg *config.Config, db database.DatabaseInterface) *HealthHandler {
	return &HealthHandler{config: cfg, db: db}
}

// HealthCheck GET / 和 GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 测试数据库连接
	status := "healthy"
	dbStatus := "healthy"
	if err := h.db.HealthCheck(ctx); err != nil {
		status = "unhealthy"
		dbStatus = "unhealthy: " + err.Error()
	}

	body := map[string]interface{}{
		"service":     serviceName,
		"version":     "1.0.0",
		"environment": h.config.Environment,
		"database":    h.db.Driver(),
		"db_status":   dbStatus,
		"timestamp":   time.Now().Unix(),
		"status":      status,
	}
	if status != "healthy" {
		utils.WriteServiceUnavailableResponse(w, body)
		return
	}
	utils.WriteSuccessResponse(w, body)
}

// DBPool GET /debug/db-pool（仅开发环境）
func (h *HealthHandler) DBPool(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, database.GetConnectionStats(h.db))
}
