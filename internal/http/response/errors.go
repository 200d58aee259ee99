package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/casuse/website-backend/internal/domain"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes v with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteErrorWithDetails writes a structured JSON error response with additional details
func WriteErrorWithDetails(w http.ResponseWriter, statusCode int, message, code, details string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code, Details: details})
}

// Common error codes
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodePasswordMismatch   = "PASSWORD_MISMATCH"
	CodeOrphanToken        = "ORPHAN_TOKEN"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInactiveAccount    = "INACTIVE_ACCOUNT"
)

// Convenience functions for common errors
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteError(w, http.StatusUnauthorized, message, CodeUnauthorized)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message, CodeForbidden)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

var weakPasswordMessages = []struct {
	err error
	msg string
}{
	{domain.ErrPasswordTooShort, "Password must be at least 8 characters."},
	{domain.ErrPasswordMissingUppercase, "Password must contain at least one uppercase letter."},
	{domain.ErrPasswordMissingLowercase, "Password must contain at least one lowercase letter."},
	{domain.ErrPasswordMissingDigit, "Password must contain at least one digit."},
}

// FromError writes the client view of err. Unknown errors are logged and
// reported as a bare 500.
func FromError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteErrorWithDetails(w, http.StatusBadRequest, "Invalid input", CodeInvalidInput, verr.Err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteError(w, http.StatusBadRequest, "Email already registered", CodeEmailExists)
	case errors.Is(err, domain.ErrInvalidOrExpiredToken):
		WriteError(w, http.StatusBadRequest, "Invalid or expired token", CodeInvalidToken)
	case errors.Is(err, domain.ErrPasswordMismatch):
		WriteError(w, http.StatusBadRequest, "Passwords do not match.", CodePasswordMismatch)
	case errors.Is(err, domain.ErrOrphanToken):
		WriteError(w, http.StatusBadRequest, "Token is not linked to a customer.", CodeOrphanToken)
	case errors.Is(err, domain.ErrWeakPassword):
		msg := "Password is too weak."
		for _, m := range weakPasswordMessages {
			if errors.Is(err, m.err) {
				msg = m.msg
				break
			}
		}
		WriteError(w, http.StatusBadRequest, msg, CodeWeakPassword)
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Incorrect email or password", CodeInvalidCredentials)
	case errors.Is(err, domain.ErrInactiveAccount):
		WriteError(w, http.StatusBadRequest, "User is inactive", CodeInactiveAccount)
	case errors.Is(err, domain.ErrUnauthenticated):
		Unauthorized(w, "Could not validate credentials")
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(w, "Not enough permissions")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "Customer not found")
	default:
		log.Error("request failed", zap.Error(err))
		InternalError(w, "Internal server error")
	}
}
