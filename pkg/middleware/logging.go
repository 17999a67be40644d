package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"space-booking-backend/pkg/config"

	"github.com/go-chi/chi/v5/middleware"
)

// Logger 创建日志中间件：开发环境使用Chi的默认彩色日志，生产环境输出JSON行
func Logger(cfg *config.Config) func(http.Handler) http.Handler {
	if cfg.IsProduction() {
		return CustomLogger(cfg)
	}
	return middleware.Logger
}

// requestLog 生产环境日志格式
type requestLog struct {
	Time      string `json:"time"`
	RequestID string `json:"request_id,omitempty"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Bytes     int    `json:"bytes"`
	Duration  string `json:"duration"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// CustomLogger 结构化日志中间件
func CustomLogger(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// 创建响应写入器包装器来捕获状态码
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			entry := requestLog{
				Time:      start.UTC().Format(time.RFC3339),
				RequestID: middleware.GetReqID(r.Context()),
				Method:    r.Method,
				Path:      r.URL.Path,
				Status:    status,
				Bytes:     ww.BytesWritten(),
				Duration:  time.Since(start).String(),
				IP:        getClientIP(r),
				UserAgent: r.UserAgent(),
			}
			if claims, ok := GetClaimsFromContext(r.Context()); ok {
				entry.Subject = claims.Subject
			}

			line, err := json.Marshal(entry)
			if err != nil {
				return
			}
			fmt.Println(string(line))
		})
	}
}

// getClientIP 获取客户端IP地址（RealIP 中间件已改写 RemoteAddr）
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
