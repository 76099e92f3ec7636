package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/walletledger/internal/domain"
)

type fakeIdempotencyStore struct {
	checkAndSetFn func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	updateFn      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	released      []string
}

func (f *fakeIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if f.checkAndSetFn != nil {
		return f.checkAndSetFn(ctx, key, response, ttl)
	}
	return false, nil, nil
}

func (f *fakeIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, key, response, ttl)
	}
	return nil
}

func (f *fakeIdempotencyStore) Release(_ context.Context, key string) error {
	f.released = append(f.released, key)
	return nil
}

func newIdempotencyRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/deposits", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: "alice", Role: domain.RoleUser}))
}

func TestIdempotencyMiddleware_FailsClosedOnStoreErrors(t *testing.T) {
	var called bool
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return false, nil, context.DeadlineExceeded
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newIdempotencyRequest("key-err"))

	if called {
		t.Fatalf("handler should not be called when store errors")
	}
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_ReleasesKeyOnFailure(t *testing.T) {
	var updated bool
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			updated = true
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})).ServeHTTP(rr, newIdempotencyRequest("key-fail"))

	if updated {
		t.Fatalf("expected error responses not to be cached")
	}
	if len(store.released) != 1 || !strings.HasSuffix(store.released[0], ":key-fail") {
		t.Fatalf("expected key to be released, got %v", store.released)
	}
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			t.Fatal("store should not be consulted for GET")
			return false, nil, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil)
	req.Header.Set(IdempotencyKeyHeader, "key-get")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	if !called {
		t.Fatalf("expected next handler to be called")
	}
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	cached, _ := json.Marshal(cachedResponse{Status: http.StatusCreated, Body: json.RawMessage(`{"id":"tx-1"}`)})
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, cached, nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not be called when cached response exists")
	})).ServeHTTP(rr, newIdempotencyRequest("key-123"))

	if rr.Header().Get("X-Idempotency-Replay") != "true" {
		t.Fatalf("expected X-Idempotency-Replay header to be set")
	}
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected replayed status 201, got %d", rr.Code)
	}
	if got := rr.Body.String(); got != `{"id":"tx-1"}` {
		t.Fatalf("unexpected cached body: %s", got)
	}
}

func TestIdempotencyMiddleware_InFlightKeyConflicts(t *testing.T) {
	store := &fakeIdempotencyStore{
		checkAndSetFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
			return true, []byte("processing"), nil
		},
	}
	mw := NewIdempotencyMiddleware(store, time.Hour, zerolog.Nop())

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler should not run while the key is held")
	})).ServeHTTP(rr, newIdempotencyRequest("key-busy"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestIdempotencyMiddleware_StoresSuccessfulResponse(t *testing.T) {
	var storedKey string
	var stored []byte
	var storedTTL time.Duration
	store := &fakeIdempotencyStore{
		updateFn: func(ctx context.Context, key string, response []byte, ttl time.Duration) error {
			storedKey, storedTTL = key, ttl
			stored = append([]byte(nil), response...)
			return nil
		},
	}
	mw := NewIdempotencyMiddleware(store, 2*time.Hour, zerolog.Nop())

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("{\"ok\":true}\n"))
	})).ServeHTTP(rr, newIdempotencyRequest("key-456"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", rr.Code)
	}
	if storedKey != "alice:POST:/api/v1/transactions/deposits:key-456" || storedTTL != 2*time.Hour {
		t.Fatalf("unexpected key %q ttl %s", storedKey, storedTTL)
	}

	var record cachedResponse
	if err := json.Unmarshal(stored, &record); err != nil {
		t.Fatalf("stored record is not JSON: %v", err)
	}
	if record.Status != http.StatusCreated || string(record.Body) != `{"ok":true}` {
		t.Fatalf("unexpected stored record %+v", record)
	}
}
