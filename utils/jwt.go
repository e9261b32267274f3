package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenManager signs and validates admin session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager signing with secret; tokens expire after ttl.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken creates a signed JWT token with the given subject (the admin username).
func (m *TokenManager) GenerateToken(subject string) (string, time.Time, error) {
	issued := m.now()
	expires := issued.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": "admin",
		"iat":  issued.Unix(),
		"exp":  expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// ValidateToken parses and validates a token string and returns its subject.
func (m *TokenManager) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return "", errors.New("token is not an admin token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token does not contain a valid 'sub' claim")
	}
	return sub, nil
}
