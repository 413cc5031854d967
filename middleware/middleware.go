// Copyright (c) 2026 Openelect Labs.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/openelect/ballotcore/auth"
	"github.com/openelect/ballotcore/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// WriteError maps the domain error taxonomy onto HTTP status codes. Typed
// domain errors keep their message (and violations, where present);
// anything unrecognized is an internal error and is logged, not leaked.
func WriteError(w http.ResponseWriter, err error) {
	var (
		valErr   *models.ValidationError
		stateErr *models.ElectionStateError
		dupErr   *models.DuplicateVoteError
		authErr  *models.AuthError
		authzErr *models.AuthorizationError
		tieErr   *models.IndeterminateTieError
		nfErr    *models.NotFoundError
	)

	switch {
	case errors.As(err, &valErr):
		JSONResponse(w, http.StatusBadRequest, models.ErrorResponse{
			Error:      http.StatusText(http.StatusBadRequest),
			Message:    "validation failed",
			Violations: valErr.Violations,
		})
	case errors.As(err, &authErr):
		ErrorResponse(w, http.StatusUnauthorized, authErr.Error())
	case errors.As(err, &authzErr):
		ErrorResponse(w, http.StatusForbidden, authzErr.Error())
	case errors.As(err, &nfErr):
		ErrorResponse(w, http.StatusNotFound, nfErr.Error())
	case errors.As(err, &dupErr):
		ErrorResponse(w, http.StatusConflict, dupErr.Error())
	case errors.As(err, &stateErr):
		ErrorResponse(w, http.StatusConflict, stateErr.Error())
	case errors.As(err, &tieErr):
		ErrorResponse(w, http.StatusConflict, tieErr.Error())
	default:
		slog.Error("internal error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// RequireClaims extracts and verifies the gateway claim envelope. Handlers
// call this first; a failure is already the right AuthError to write.
func RequireClaims(r *http.Request, gatewaySecret string) (models.Claims, error) {
	return auth.VerifyClaims(
		r.Header.Get("X-Claims"),
		r.Header.Get("X-Claims-Signature"),
		gatewaySecret,
		time.Now(),
	)
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Claims, X-Claims-Signature")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClientIP extracts the client IP address
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr
func GetClientIP(r *http.Request) string {
	// Check X-Forwarded-For (load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in chain
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' || xff[i] == ' ' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	// Strip port if present
	addr := r.RemoteAddr
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
