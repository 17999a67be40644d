package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/database"
	"space-booking-backend/pkg/models"
	"space-booking-backend/pkg/services"
	"space-booking-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "development",
		Port:           "8000",
		AllowedOrigins: append([]string(nil), config.DefaultAllowedOrigins...),
		JWTSecret:      testSecret,
		RequestTimeout: 5 * time.Second,
		MaxBodyBytes:   1 << 20,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*httptest.Server, *database.LocalDatabase) {
	t.Helper()
	db, err := database.NewLocalDatabase(context.Background(), filepath.Join(t.TempDir(), "booking.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(New(cfg, db))
	t.Cleanup(srv.Close)
	return srv, db
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}, header http.Header) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

func TestBookingScenario(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	status, body := do(t, srv, http.MethodPost, "/spaces/", map[string]interface{}{"space_id": 1, "disabled": false}, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, models.Space{SpaceID: 1}, decode[models.Space](t, body))

	status, body = do(t, srv, http.MethodPost, "/groups/", map[string]interface{}{"space_id": 1}, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	group := decode[models.Group](t, body)
	assert.NotZero(t, group.ID)

	status, body = do(t, srv, http.MethodPost, "/users/", map[string]interface{}{
		"email": "u@x.com", "name": "U", "group_id": group.ID, "day": "monday",
	}, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	booking := map[string]interface{}{"date": "2024-01-01", "space_id": 1, "user_id": "u@x.com"}
	status, body = do(t, srv, http.MethodPost, "/spaces/availability", booking, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, `{"date":"2024-01-01","space_id":1,"user_id":"u@x.com"}`, string(bytes.TrimSpace(body)))

	status, body = do(t, srv, http.MethodPost, "/spaces/availability",
		map[string]interface{}{"date": "2024-01-01", "space_id": 1, "user_id": "v@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.ReasonSpaceOccupied, decode[utils.ErrorResponse](t, body).Detail)

	status, body = do(t, srv, http.MethodPost, "/spaces/availability",
		map[string]interface{}{"date": "2024-01-01", "space_id": 2, "user_id": "u@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.ReasonUserHasBooking, decode[utils.ErrorResponse](t, body).Detail)

	status, body = do(t, srv, http.MethodGet, "/spaces/availability/date/2024-01-01", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Reservation](t, body), 1)

	status, body = do(t, srv, http.MethodGet, "/spaces/availability/user/u@x.com", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Reservation](t, body), 1)

	status, body = do(t, srv, http.MethodDelete, "/spaces/availability/u@x.com/2024-01-01/1", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u@x.com", decode[models.Reservation](t, body).UserID)

	status, body = do(t, srv, http.MethodDelete, "/spaces/availability/u@x.com/2024-01-01/1", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "null", string(bytes.TrimSpace(body)))

	status, body = do(t, srv, http.MethodGet, "/spaces/availability", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(body)))
}

func TestConflictsAndLookups(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	user := map[string]interface{}{"email": "a@x.com", "name": "Ann", "group_id": 1, "day": "friday"}
	status, _ := do(t, srv, http.MethodPost, "/users/", user, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := do(t, srv, http.MethodPost, "/users/", user, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.ReasonEmailRegistered, decode[utils.ErrorResponse](t, body).Detail)

	status, body = do(t, srv, http.MethodGet, "/users/email/a@x.com", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, models.User{Email: "a@x.com", Name: "Ann", GroupID: 1, Day: "friday"}, decode[models.User](t, body))

	tests := []struct {
		path   string
		detail string
	}{
		{"/users/email/ghost@x.com", "User not found"},
		{"/groups/99", "Group not found"},
		{"/spaces/99", "Space not found"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := do(t, srv, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, tt.detail, decode[utils.ErrorResponse](t, body).Detail)
		})
	}

	status, _ = do(t, srv, http.MethodPost, "/spaces/", map[string]interface{}{"space_id": 4, "disabled": true}, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = do(t, srv, http.MethodPost, "/spaces/", map[string]interface{}{"space_id": 4, "disabled": false}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.ReasonSpaceExists, decode[utils.ErrorResponse](t, body).Detail)

	status, _ = do(t, srv, http.MethodPost, "/groups/", map[string]interface{}{"space_id": 4}, nil)
	require.Equal(t, http.StatusOK, status)
	status, body = do(t, srv, http.MethodPost, "/groups/", map[string]interface{}{"space_id": 4}, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.ReasonSpaceHasGroup, decode[utils.ErrorResponse](t, body).Detail)

	// unknown group: empty list, not 404
	status, body = do(t, srv, http.MethodGet, "/users/group/12345", nil, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(body)))

	for _, path := range []string{"/users/nobody@x.com", "/groups/77", "/spaces/77"} {
		status, body = do(t, srv, http.MethodDelete, path, nil, nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "null", string(bytes.TrimSpace(body)), path)
	}
}

func TestEncodedEmailPaths(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	status, body := do(t, srv, http.MethodPost, "/users/", map[string]interface{}{
		"email": "a+b@x.com", "name": "", "group_id": 1, "day": "",
	}, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = do(t, srv, http.MethodPost, "/spaces/availability",
		map[string]interface{}{"date": "2024-01-01", "space_id": 1, "user_id": "a+b@x.com"}, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	for _, path := range []string{"/users/email/a%2Bb%40x.com", "/users/email/a+b%40x.com", "/users/email/a+b@x.com"} {
		status, body = do(t, srv, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, "a+b@x.com", decode[models.User](t, body).Email, path)
	}

	status, body = do(t, srv, http.MethodGet, "/spaces/availability/user/a%2Bb%40x.com", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Reservation](t, body), 1)

	status, body = do(t, srv, http.MethodDelete, "/spaces/availability/a%2Bb%40x.com/2024-01-01/1", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a+b@x.com", decode[models.Reservation](t, body).UserID)

	status, body = do(t, srv, http.MethodDelete, "/users/a%2Bb%40x.com", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a+b@x.com", decode[models.User](t, body).Email)

	status, body = do(t, srv, http.MethodGet, "/users/", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "[]", string(bytes.TrimSpace(body)))
}

func TestValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		field  string
	}{
		{"missing user name", http.MethodPost, "/users/", map[string]interface{}{"email": "a@x.com", "group_id": 1, "day": "monday"}, "name"},
		{"missing group space", http.MethodPost, "/groups/", map[string]interface{}{}, "space_id"},
		{"missing disabled flag", http.MethodPost, "/spaces/", map[string]interface{}{"space_id": 1}, "disabled"},
		{"missing booking date", http.MethodPost, "/spaces/availability", map[string]interface{}{"space_id": 1, "user_id": "u@x.com"}, "date"},
		{"negative skip", http.MethodGet, "/users/?skip=-1", nil, "skip"},
		{"non-numeric limit", http.MethodGet, "/spaces/?limit=ten", nil, "limit"},
		{"non-integer group id", http.MethodGet, "/users/group/abc", nil, "group_id"},
		{"bad date", http.MethodGet, "/spaces/availability/date/2024-13-01", nil, "date"},
		{"bad space id on delete", http.MethodDelete, "/spaces/availability/u@x.com/2024-01-01/x", nil, "space_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, srv, tt.method, tt.path, tt.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, status, string(body))
			resp := decode[utils.ErrorResponse](t, body)
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
		})
	}

	t.Run("malformed date in body", func(t *testing.T) {
		status, _ := do(t, srv, http.MethodPost, "/spaces/availability",
			map[string]interface{}{"date": "01/01/2024", "space_id": 1, "user_id": "u@x.com"}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("wrong content type", func(t *testing.T) {
		status, _ := do(t, srv, http.MethodPost, "/groups/", nil, http.Header{"Content-Type": {"text/plain"}})
		assert.Equal(t, http.StatusUnsupportedMediaType, status)
	})
}

func TestPagination(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	for id := 1; id <= 3; id++ {
		status, _ := do(t, srv, http.MethodPost, "/spaces/", map[string]interface{}{"space_id": id, "disabled": false}, nil)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := do(t, srv, http.MethodGet, "/spaces/?skip=1&limit=1", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []models.Space{{SpaceID: 2}}, decode[[]models.Space](t, body))

	status, body = do(t, srv, http.MethodGet, "/spaces", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Space](t, body), 3)
}

func TestOperationalEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	status, body := do(t, srv, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, status)
	health := decode[map[string]interface{}](t, body)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "sqlite", health["database"])

	status, _ = do(t, srv, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = do(t, srv, http.MethodGet, "/debug/db-pool", nil, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "connected", decode[map[string]interface{}](t, body)["status"])

	status, _ = do(t, srv, http.MethodGet, "/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, srv, http.MethodPut, "/users/", map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestHealthCheck_ClosedDatabase(t *testing.T) {
	srv, db := newTestServer(t, testConfig())
	require.NoError(t, db.Close())

	status, body := do(t, srv, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", decode[map[string]interface{}](t, body)["status"])
}

func TestProductionHidesDebugRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"
	srv, _ := newTestServer(t, cfg)

	status, _ := do(t, srv, http.MethodGet, "/debug/db-pool", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	status, _ := do(t, srv, http.MethodOptions, "/users/", nil, http.Header{
		"Origin":                        {"http://localhost:19006"},
		"Access-Control-Request-Method": {http.MethodPost},
	})
	assert.Less(t, status, 300)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/users/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:19006")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:19006", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/users/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRequireAuth(t *testing.T) {
	cfg := testConfig()
	cfg.RequireAuth = true
	srv, _ := newTestServer(t, cfg)

	space := map[string]interface{}{"space_id": 1, "disabled": false}

	status, _ := do(t, srv, http.MethodPost, "/spaces/", space, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, srv, http.MethodDelete, "/spaces/1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	// reads stay public
	status, _ = do(t, srv, http.MethodGet, "/spaces/", nil, nil)
	assert.Equal(t, http.StatusOK, status)

	token, _, err := utils.NewJWTService(testSecret).GenerateAccessToken("admin@x.com", time.Minute)
	require.NoError(t, err)
	bearer := http.Header{"Authorization": {"Bearer " + token}}

	status, body := do(t, srv, http.MethodPost, "/spaces/", space, bearer)
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = do(t, srv, http.MethodDelete, "/spaces/1", nil, http.Header{"Authorization": {"Bearer nope"}})
	assert.Equal(t, http.StatusUnauthorized, status)
}
