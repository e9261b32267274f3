package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FieldError is used to indicate an error with a specific input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports bad input shape or content. Nothing was written.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: flds}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "validation failed"
	}
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return e.Err.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreUnavailableError means the backing store could not be read or written.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// ConflictError means a concurrent writer held the ledger for longer than we were willing to wait.
type ConflictError struct {
	Key string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("conflicting write in progress for %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("conflicting write in progress for %s", e.Key)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// IsValidation, IsStoreUnavailable and IsConflict classify wrapped errors.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsStoreUnavailable(err error) bool {
	var s *StoreUnavailableError
	return errors.As(err, &s)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusFor maps a domain error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case IsValidation(err):
		return http.StatusBadRequest
	case IsConflict(err):
		return http.StatusConflict
	case IsStoreUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a JSON error response with the matching status code.
func RespondError(c *gin.Context, logger *zap.Logger, message string, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Message: message, Details: err.Error()}

	var v *ValidationError
	if errors.As(err, &v) && v.Err != nil {
		resp.Details = v.Err.Error()
		resp.Fields = v.Fields
	}
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Error(err))
		if status == http.StatusInternalServerError {
			resp.Details = "An unexpected error occurred. Please try again later."
		}
	} else {
		logger.Warn(message, zap.Error(err))
	}
	c.AbortWithStatusJSON(status, resp)
}
