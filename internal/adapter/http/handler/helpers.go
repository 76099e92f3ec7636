package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/walletledger/internal/adapter/http/dto"
	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapped from its sentinel.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status := mapDomainError(err)
	details := err.Error()
	if status == http.StatusInternalServerError {
		details = ""
	}
	writeError(w, status, message, details)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrWalletNotFound),
		errors.Is(err, usecase.ErrNoReport):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrInvalidDetails),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvalidStatType),
		errors.Is(err, domain.ErrInvalidOwner),
		errors.Is(err, domain.ErrDescriptionTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// currentUser returns the caller placed in the context by the auth middleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := domain.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return nil, false
	}
	return user, true
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
