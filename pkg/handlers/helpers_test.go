package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chiRoute "github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func requestWithParam(rawPath, name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.RawPath = rawPath
	rctx := chiRoute.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chiRoute.RouteCtxKey, rctx))
}

func TestStringParam(t *testing.T) {
	tests := []struct {
		name     string
		rawPath  string
		value    string
		want     string
		wantCode int
	}{
		{"plain", "", "a@x.com", "a@x.com", 0},
		{"encoded", "/users/email/a%40x.com", "a%40x.com", "a@x.com", 0},
		{"encoded plus", "/users/email/a%2Bb%40x.com", "a%2Bb%40x.com", "a+b@x.com", 0},
		{"decoded percent left alone", "", "100%@x.com", "100%@x.com", 0},
		{"bad escape", "/users/email/a%zz", "a%zz", "", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			got, ok := stringParam(rec, requestWithParam(tt.rawPath, "email", tt.value), "email")
			if tt.wantCode != 0 {
				assert.False(t, ok)
				assert.Equal(t, tt.wantCode, rec.Code)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
