package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/utils"
)

// ContextKey 用于在context中存储认证信息的键
type ContextKey string

const (
	ClaimsContextKey ContextKey = "claims"
)

// AuthMiddleware JWT认证中间件；cfg.RequireAuth 关闭时直接放行
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	jwtService := utils.NewJWTService(cfg.JWTSecret)

	return func(next http.Handler) http.Handler {
		if !cfg.RequireAuth {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 从Authorization头获取token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteUnauthorizedResponse(w, "Missing authorization header")
				return
			}

			// 检查Bearer前缀
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.WriteUnauthorizedResponse(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateToken(strings.TrimSpace(tokenString))
			if err != nil {
				if cfg.Debug {
					fmt.Printf("❌ Auth middleware: %s %s rejected: %v\n", r.Method, r.URL.Path, err)
				}
				utils.WriteUnauthorizedResponse(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext 从context中获取令牌信息
func GetClaimsFromContext(ctx context.Context) (*models.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*models.TokenClaims)
	return claims, ok && claims != nil
}
