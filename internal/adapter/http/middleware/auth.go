package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/infrastructure/auth"
	"github.com/iho/walletledger/internal/infrastructure/metrics"
)

// Development headers accepted when token authentication is disabled.
const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware creates an authentication middleware that places the
// token's user in the request context.
func AuthMiddleware(verifier TokenVerifier, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailure(w, m, "missing_header", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				authFailure(w, m, "bad_format", "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, domain.ErrExpiredToken) {
					reason = "expired_token"
				}
				authFailure(w, m, reason, "invalid or expired token")
				return
			}

			ctx := domain.ContextWithUser(r.Context(), claims.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderAuth trusts the caller identity headers. It is only mounted when
// token authentication is disabled.
func HeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if id == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing "+UserIDHeader+" header")
			return
		}

		role := domain.Role(strings.ToLower(r.Header.Get(UserRoleHeader)))
		if !role.IsValid() {
			role = domain.RoleUser
		}

		ctx := domain.ContextWithUser(r.Context(), &domain.User{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers that cannot resolve transactions.
func RequireAdmin(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				authFailure(w, m, "no_user", "unauthorized")
				return
			}

			if !user.Role.CanResolve() {
				if m != nil {
					m.AuthFailures.WithLabelValues("insufficient_role").Inc()
				}
				writeJSONError(w, http.StatusForbidden, domain.ErrInsufficientRole.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authFailure(w http.ResponseWriter, m *metrics.Metrics, reason, message string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
	writeJSONError(w, http.StatusUnauthorized, message)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
