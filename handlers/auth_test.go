package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"attendify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler("admin", hash, tokens)

	r := gin.New()
	r.POST("/login", h.LoginHandler)

	w := doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[loginResponse](t, w)
	sub, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	w = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "root", "password": "s3cret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	healthy := true
	monitor := utils.NewHealthMonitor(map[string]utils.HealthCheck{
		"csv": func(ctx context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("down")
		},
	}, time.Second)

	r := gin.New()
	r.GET("/health", HealthHandler(monitor))

	monitor.Check(context.Background())
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, "/health", nil).Code)

	healthy = false
	monitor.Check(context.Background())
	assert.Equal(t, http.StatusServiceUnavailable, doJSON(t, r, http.MethodGet, "/health", nil).Code)
}
