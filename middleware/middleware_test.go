package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"attendify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAdminMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/private", JWTAuthAdminMiddleware(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminContextKey))
	})

	token, _, err := tokens.GenerateToken("admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	other, _, err := utils.NewTokenManager("other-secret", time.Hour).GenerateToken("admin")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusNoContent, get("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, get("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, get("2.2.2.2"))
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Get(utils.LoggerContextKey)
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	assert.Equal(t, "abc", serve(r, req).Header().Get(requestIDHeader))
}

func TestGetClientIP(t *testing.T) {
	var got string
	r := gin.New()
	r.GET("/", func(c *gin.Context) { got = getClientIP(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	serve(r, req)
	assert.Equal(t, "192.0.2.7", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", " 198.51.100.2 ")
	serve(r, req)
	assert.Equal(t, "198.51.100.2", got)
}

func TestGetClientIP_IgnoresGarbageHeaders(t *testing.T) {
	var got string
	r := gin.New()
	r.GET("/", func(c *gin.Context) { got = getClientIP(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	req.Header.Set("X-Forwarded-For", "unknown, 203.0.113.9")
	serve(r, req)
	assert.Equal(t, "192.0.2.7", got)
}

func TestBearerToken(t *testing.T) {
	tok, ok := bearerToken("bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "abc"} {
		_, ok := bearerToken(h)
		assert.False(t, ok, h)
	}
}

func TestIPLimiter_EvictsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)
	l := newIPLimiter(1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("1.1.1.1"))
	assert.False(t, l.allow("1.1.1.1"))

	now = now.Add(limiterIdleTTL + time.Minute)
	assert.True(t, l.allow("2.2.2.2"))
	assert.NotContains(t, l.visitors, "1.1.1.1")
}
