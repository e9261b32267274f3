// File: attendify/handlers/auth.go
package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"attendify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler signs the single configured admin in.
type AuthHandler struct {
	Username     string
	PasswordHash []byte
	Tokens       *utils.TokenManager
}

// NewAuthHandler creates a new AuthHandler. passwordHash is a bcrypt hash.
func NewAuthHandler(username string, passwordHash []byte, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{Username: username, PasswordHash: passwordHash, Tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginHandler exchanges admin credentials for a bearer token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(h.PasswordHash, []byte(req.Password))
	if !userOK || passErr != nil {
		logger.Warn("Admin login rejected", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, expires, err := h.Tokens.GenerateToken(h.Username)
	if err != nil {
		logger.Error("Failed to sign admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: expires})
}
