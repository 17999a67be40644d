package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/utils"

	"github.com/go-chi/chi/v5/middleware"
)

// Recovery 恢复中间件，处理panic并返回JSON错误
func Recovery(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					// 客户端断开，交给 net/http 处理
					panic(rec)
				}

				fmt.Printf("❌ PANIC [%s] %s %s: %v\n", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, rec)
				fmt.Printf("📍 Stack trace:\n%s\n", debug.Stack())

				if cfg.IsDevelopment() {
					utils.WriteInternalServerErrorResponse(w, fmt.Sprintf("Internal server error: %v", rec))
					return
				}
				utils.WriteInternalServerErrorResponse(w, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
