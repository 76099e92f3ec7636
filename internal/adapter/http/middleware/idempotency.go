package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
	"github.com/iho/walletledger/internal/usecase"
)

// IdempotencyKeyHeader is the header name for idempotency keys.
const IdempotencyKeyHeader = "Idempotency-Key"

// cachedResponse is what gets replayed for a repeated key.
type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyMiddleware handles request idempotency using Redis.
type IdempotencyMiddleware struct {
	store  usecase.IdempotencyStore
	ttl    time.Duration
	logger zerolog.Logger
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, logger: logger}
}

// Wrap wraps an http.Handler with idempotency checking. Keys are scoped to
// the caller and the route so two users cannot collide.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		exists, stored, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			m.logger.Error().Err(err).Str("key", key).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}

		if exists {
			if stored == nil || string(stored) == usecase.IdempotencyProcessingMarker {
				writeJSONError(w, http.StatusConflict, "a request with this idempotency key is in progress")
				return
			}

			var cached cachedResponse
			if err := json.Unmarshal(stored, &cached); err != nil {
				m.logger.Error().Err(err).Str("key", key).Msg("corrupt idempotency record")
				writeJSONError(w, http.StatusInternalServerError, "idempotency check failed")
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(cached.Status)
			_, _ = w.Write(cached.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Failed requests give the key back so the client can retry.
		if recorder.statusCode < 200 || recorder.statusCode >= 300 {
			if err := m.store.Release(r.Context(), key); err != nil {
				m.logger.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
			}
			return
		}

		record, err := json.Marshal(cachedResponse{
			Status: recorder.statusCode,
			Body:   json.RawMessage(bytes.TrimSpace(recorder.body.Bytes())),
		})
		if err == nil {
			err = m.store.Update(r.Context(), key, record, m.ttl)
		}
		if err != nil {
			m.logger.Warn().Err(err).Str("key", key).Msg("failed to store idempotent response")
		}
	})
}

func scopedKey(r *http.Request, key string) string {
	owner := "anonymous"
	if u, ok := domain.UserFromContext(r.Context()); ok {
		owner = u.ID
	}
	return owner + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
