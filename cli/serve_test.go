package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendify/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		MaxRequestsPerMin: 1000,
		StoreBackend:      config.BackendMemory,
		AttendancePolicy:  config.PolicyPresentAndAbsent,
		LockWait:          time.Second,
		AdminUsername:     "admin",
		AdminPassword:     "s3cret",
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
	}
}

func request(t *testing.T, h http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	app, err := NewApp(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer app.Close(ctx)

	router, monitor, err := NewRouter(app)
	require.NoError(t, err)
	monitor.Check(ctx)

	w := request(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, router, http.MethodGet, "/api/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = request(t, router, http.MethodPut, "/api/members", login.Token, map[string]any{
		"members": []map[string]string{
			{"membershipNumber": "M1", "fullName": "Ann", "group": "Youth"},
			{"membershipNumber": "M2", "fullName": "Ben", "group": "Youth"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request(t, router, http.MethodPost, "/api/attendance/session", login.Token, map[string]any{
		"date": "2024-06-02", "group": "Youth", "present": []string{"M2"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = request(t, router, http.MethodGet, "/api/attendance?member=M2", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestAdminPasswordHash(t *testing.T) {
	cfg := testConfig()
	hash, err := adminPasswordHash(cfg)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(hash, []byte("s3cret")))

	cfg.AdminPasswordHash = string(hash)
	cfg.AdminPassword = ""
	again, err := adminPasswordHash(cfg)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	cfg.AdminPasswordHash = "plain"
	_, err = adminPasswordHash(cfg)
	assert.Error(t, err)

	cfg.AdminPasswordHash = ""
	_, err = adminPasswordHash(cfg)
	assert.Error(t, err)
}

func TestNewRouter_ProductionNeedsSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	cfg.JWTSecret = ""

	app, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close(context.Background())

	_, _, err = NewRouter(app)
	assert.Error(t, err)
	gin.SetMode(gin.TestMode)
}
