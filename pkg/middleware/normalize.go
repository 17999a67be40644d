package middleware

import (
	"net/http"
	"strings"
)

// Normalize standardizes request paths before routing:
// - trims whitespace around URL.Path ("/users/%20" -> "/users/")
// - collapses repeated slashes ("//spaces//1" -> "/spaces/1")
func Normalize() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := strings.TrimSpace(r.URL.Path)
			for strings.Contains(p, "//") {
				p = strings.ReplaceAll(p, "//", "/")
			}
			if p != r.URL.Path {
				r.URL.Path = p
				r.URL.RawPath = ""
			}
			next.ServeHTTP(w, r)
		})
	}
}
