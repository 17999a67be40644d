// Package router 将所有端点集中在一个Chi路由器中管理
package router

import (
	"fmt"
	"net/http"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/database"
	"space-booking-backend/pkg/handlers"
	customMiddleware "space-booking-backend/pkg/middleware"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// New 创建完整的HTTP处理器；数据库连接由调用方创建并负责关闭
func New(cfg *config.Config, db database.DatabaseInterface) http.Handler {
	router := chi.NewRouter()

	// 设置全局中间件
	setupMiddleware(router, cfg)

	// 设置路由
	setupRoutes(router, cfg, db)

	return router
}

// setupMiddleware 设置全局中间件
func setupMiddleware(router *chi.Mux, cfg *config.Config) {
	// 基础中间件
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	// Normalize path before logging and routing
	router.Use(customMiddleware.Normalize())
	router.Use(customMiddleware.Logger(cfg))
	router.Use(customMiddleware.Recovery(cfg))

	// CORS中间件
	router.Use(customMiddleware.CORS(cfg))

	// 超时中间件：取消上下文，进行中的查询随之中止
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	// 开发环境额外中间件
	if cfg.IsDevelopment() {
		router.Use(middleware.Heartbeat("/ping"))
	}
}

// setupRoutes 设置所有API路由
func setupRoutes(router *chi.Mux, cfg *config.Config, db database.DatabaseInterface) {
	// 创建服务与处理器
	service := services.NewBookingService(db)
	validator := utils.NewValidator()

	healthHandler := handlers.NewHealthHandler(cfg, db)
	usersHandler := handlers.NewUsersHandler(cfg, service, validator)
	groupsHandler := handlers.NewGroupsHandler(cfg, service, validator)
	spacesHandler := handlers.NewSpacesHandler(cfg, service, validator)
	reservationsHandler := handlers.NewReservationsHandler(cfg, service, validator)

	// 写操作：可选认证；POST 额外校验请求体
	auth := customMiddleware.AuthMiddleware(cfg)
	jsonBody := chi.Chain(auth, customMiddleware.ContentTypeJSON, customMiddleware.MaxBodySize(cfg.MaxBodyBytes))

	// 健康检查端点
	router.Get("/", healthHandler.HealthCheck)
	router.Get("/health", healthHandler.HealthCheck)

	// 数据库连接池状态端点（调试用）
	if cfg.IsDevelopment() {
		router.Get("/debug/db-pool", healthHandler.DBPool)
	}

	router.Route("/users", func(r chi.Router) {
		r.With(jsonBody...).Post("/", usersHandler.CreateUser)
		r.Get("/", usersHandler.ListUsers)
		r.Get("/group/{group_id}", usersHandler.ListUsersByGroup)
		r.Get("/email/{email}", usersHandler.GetUser)
		r.With(auth).Delete("/{email}", usersHandler.DeleteUser)
	})

	router.Route("/groups", func(r chi.Router) {
		r.With(jsonBody...).Post("/", groupsHandler.CreateGroup)
		r.Get("/", groupsHandler.ListGroups)
		r.Get("/{id}", groupsHandler.GetGroup)
		r.With(auth).Delete("/{id}", groupsHandler.DeleteGroup)
	})

	router.Route("/spaces", func(r chi.Router) {
		r.With(jsonBody...).Post("/", spacesHandler.CreateSpace)
		r.Get("/", spacesHandler.ListSpaces)

		// 预订（space_availability）
		r.Route("/availability", func(r chi.Router) {
			r.With(jsonBody...).Post("/", reservationsHandler.CreateReservation)
			r.Get("/", reservationsHandler.ListReservations)
			r.Get("/date/{date}", reservationsHandler.ListReservationsByDate)
			r.Get("/user/{user_id}", reservationsHandler.ListReservationsByUser)
			r.With(auth).Delete("/{user_id}/{date}/{space_id}", reservationsHandler.DeleteReservation)
		})

		r.Get("/{id}", spacesHandler.GetSpace)
		r.With(auth).Delete("/{id}", spacesHandler.DeleteSpace)
	})

	// 404处理
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteNotFoundResponse(w, fmt.Sprintf("Route not found: %s %s", r.Method, r.URL.Path))
	})

	// 405处理
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
	})
}
