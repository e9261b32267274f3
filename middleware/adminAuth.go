package middleware

import (
	"net/http"
	"strings"

	"attendify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminContextKey holds the authenticated admin's username on the gin context.
const AdminContextKey = "admin"

// JWTAuthAdminMiddleware admits only requests carrying a valid admin bearer token.
func JWTAuthAdminMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", `Bearer realm="attendify"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		admin, err := tokens.ValidateToken(token)
		if err != nil {
			requestLogger(c).Debug("Rejected admin token", zap.Error(err))
			c.Header("WWW-Authenticate", `Bearer realm="attendify", error="invalid_token"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set(AdminContextKey, admin)
		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header. The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
