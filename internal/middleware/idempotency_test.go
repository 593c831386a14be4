package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fuelnet/loyalty/internal/models"
	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/fuelnet/loyalty/internal/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body)) //nolint:errcheck // test helper
	})
}

func TestIdempotency_GETRequestsBypassed(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cards/42", nil)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.True(t, handlerCalled, "handler should be called for GET requests")
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_NonIdempotentPathBypassed(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/purchases", nil)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.True(t, handlerCalled, "handler should be called for non-idempotent paths")
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	// No Idempotency-Key header
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.True(t, handlerCalled, "handler should be called without idempotency key")
	repo.AssertNotCalled(t, "Get")
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_FirstRequestCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "unique-key-123", "/api/v1/cards/42/accrue").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "unique-key-123", "/api/v1/cards/42/accrue").Return(true, nil)
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(nil)

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusOK, `{"status":"success"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "unique-key-123")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"status":"success"}`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Idempotent-Replayed"), "first request should not have replay header")

	repo.AssertCalled(t, "Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey"))
	repo.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotency_SecondRequestReturnsCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)

	// First call returns nil (no cache), second returns cached value
	cached := &models.IdempotencyKey{
		Key:            "duplicate-key",
		RequestPath:    "/api/v1/cards/42/accrue",
		ResponseStatus: 200,
		ResponseBody:   `{"call":1}`,
	}
	repo.On("Get", mock.Anything, "duplicate-key", "/api/v1/cards/42/accrue").Return(cached, nil)

	middleware := Idempotency(repo, testLogger())

	callCount := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+callCount)) + `}`)) //nolint:errcheck // test helper
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "duplicate-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, 0, callCount, "handler should not be called when cached")
	assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, `{"call":1}`, rec.Body.String())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotency_SameKeyDifferentPathsAreSeparate(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "shared-key", mock.Anything).Return(nil, nil)
	repo.On("Reserve", mock.Anything, "shared-key", mock.Anything).Return(true, nil)
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(nil)

	middleware := Idempotency(repo, testLogger())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"path":"` + r.URL.Path + `"}`)) //nolint:errcheck // test helper
	})

	// Accrual on card 42
	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req1.Header.Set("Idempotency-Key", "shared-key")
	rec1 := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec1, req1)

	// Redemption on the same card with the same key
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/redeem", nil)
	req2.Header.Set("Idempotency-Key", "shared-key")
	rec2 := httptest.NewRecorder()
	middleware(handler).ServeHTTP(rec2, req2)

	assert.Contains(t, rec1.Body.String(), "accrue")
	assert.Contains(t, rec2.Body.String(), "redeem")

	// Verify Get was called with different paths
	repo.AssertCalled(t, "Get", mock.Anything, "shared-key", "/api/v1/cards/42/accrue")
	repo.AssertCalled(t, "Get", mock.Anything, "shared-key", "/api/v1/cards/42/redeem")
}

func TestIdempotency_5xxResponsesNotCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "error-key", "/api/v1/cards/42/accrue").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "error-key", "/api/v1/cards/42/accrue").Return(true, nil)
	repo.On("Release", mock.Anything, "error-key", "/api/v1/cards/42/accrue").Return(nil)
	// Store should NOT be called for 5xx responses

	middleware := Idempotency(repo, testLogger())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"server error"}`)) //nolint:errcheck // test helper
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "error-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	repo.AssertNotCalled(t, "Store")
	repo.AssertCalled(t, "Release", mock.Anything, "error-key", "/api/v1/cards/42/accrue")
}

func TestIdempotency_4xxResponsesNotCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "bad-request-key", "/api/v1/cards/42/accrue").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "bad-request-key", "/api/v1/cards/42/accrue").Return(true, nil)
	repo.On("Release", mock.Anything, "bad-request-key", "/api/v1/cards/42/accrue").Return(nil)

	middleware := Idempotency(repo, testLogger())

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad request"}`)) //nolint:errcheck // test helper
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "bad-request-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Store")
}

func TestIdempotency_RepoGetErrorFailsOpen(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "test-key", "/api/v1/cards/42/accrue").Return(nil, errors.New("database connection failed"))

	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.True(t, handlerCalled, "handler should be called on repo.Get error (fail open)")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotency_RepoStoreErrorDoesNotAffectResponse(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "test-key", "/api/v1/cards/42/accrue").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "test-key", "/api/v1/cards/42/accrue").Return(true, nil)
	repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(errors.New("failed to store"))
	repo.On("Release", mock.Anything, "test-key", "/api/v1/cards/42/accrue").Return(nil)

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusOK, `{"status":"success"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	// Response should still be successful even if caching failed
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"status":"success"}`, rec.Body.String())
}

func TestIdempotency_AllIdempotentPaths(t *testing.T) {
	paths := []string{
		"/api/v1/cards",
		"/api/v1/cards/42/accrue",
		"/api/v1/cards/42/redeem",
		"/api/v1/purchases",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			repo := mocks.NewMockIdempotencyRepository(t)
			repo.On("Get", mock.Anything, "test-key", path).Return(nil, nil)
			repo.On("Reserve", mock.Anything, "test-key", path).Return(true, nil)
			repo.On("Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey")).Return(nil)

			middleware := Idempotency(repo, testLogger())
			handler := testHandler(http.StatusOK, `{"path":"`+path+`"}`)

			req := httptest.NewRequest(http.MethodPost, path, nil)
			req.Header.Set("Idempotency-Key", "test-key")
			rec := httptest.NewRecorder()

			middleware(handler).ServeHTTP(rec, req)

			repo.AssertCalled(t, "Store", mock.Anything, mock.AnythingOfType("*models.IdempotencyKey"))
		})
	}
}

func TestIdempotency_CachedResponseHasCorrectContentType(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)

	cached := &models.IdempotencyKey{
		Key:            "content-type-key",
		RequestPath:    "/api/v1/cards/42/accrue",
		ResponseStatus: 200,
		ResponseBody:   `{"status":"success"}`,
	}
	repo.On("Get", mock.Anything, "content-type-key", "/api/v1/cards/42/accrue").Return(cached, nil)

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusOK, `{"status":"success"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "content-type-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestIdempotency_TrailingSlashSharesKey(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "slash-key", "/api/v1/purchases").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "slash-key", "/api/v1/purchases").Return(true, nil)
	repo.On("Store", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
		return k.RequestPath == "/api/v1/purchases" && k.ResponseStatus == http.StatusCreated
	})).Return(nil)

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusCreated, `{"id":"p1"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases/", nil)
	req.Header.Set("Idempotency-Key", "slash-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotency_ImplicitStatusIsCached(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "implicit-key", "/api/v1/cards").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "implicit-key", "/api/v1/cards").Return(true, nil)
	repo.On("Store", mock.Anything, mock.MatchedBy(func(k *models.IdempotencyKey) bool {
		return k.ResponseStatus == http.StatusOK && k.ResponseBody == `{"ok":true}`
	})).Return(nil)

	middleware := Idempotency(repo, testLogger())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`)) //nolint:errcheck // test helper
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", nil)
	req.Header.Set("Idempotency-Key", "implicit-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestIdempotency_PendingKeyRejected(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	pending := &models.IdempotencyKey{Key: "busy-key", RequestPath: "/api/v1/cards/42/redeem"}
	repo.On("Get", mock.Anything, "busy-key", "/api/v1/cards/42/redeem").Return(pending, nil)

	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/redeem", nil)
	req.Header.Set("Idempotency-Key", "busy-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"request_in_progress"`)
	repo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestIdempotency_LostReservationReplaysWinner(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	done := &models.IdempotencyKey{
		Key:            "race-key",
		RequestPath:    "/api/v1/cards/42/accrue",
		ResponseStatus: http.StatusOK,
		ResponseBody:   `{"points_added":10}`,
	}
	repo.On("Get", mock.Anything, "race-key", "/api/v1/cards/42/accrue").Return(nil, nil).Once()
	repo.On("Reserve", mock.Anything, "race-key", "/api/v1/cards/42/accrue").Return(false, nil)
	repo.On("Get", mock.Anything, "race-key", "/api/v1/cards/42/accrue").Return(done, nil).Once()

	middleware := Idempotency(repo, testLogger())

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/accrue", nil)
	req.Header.Set("Idempotency-Key", "race-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, `{"points_added":10}`, rec.Body.String())
}

func TestIdempotency_LostReservationStillRunning(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	pending := &models.IdempotencyKey{Key: "race-key", RequestPath: "/api/v1/purchases"}
	repo.On("Get", mock.Anything, "race-key", "/api/v1/purchases").Return(nil, nil).Once()
	repo.On("Reserve", mock.Anything, "race-key", "/api/v1/purchases").Return(false, nil)
	repo.On("Get", mock.Anything, "race-key", "/api/v1/purchases").Return(pending, nil).Once()

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusCreated, `{}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", nil)
	req.Header.Set("Idempotency-Key", "race-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIdempotency_RepoReserveErrorFailsOpen(t *testing.T) {
	repo := mocks.NewMockIdempotencyRepository(t)
	repo.On("Get", mock.Anything, "test-key", "/api/v1/cards").Return(nil, nil)
	repo.On("Reserve", mock.Anything, "test-key", "/api/v1/cards").Return(false, errors.New("database connection failed"))

	middleware := Idempotency(repo, testLogger())
	handler := testHandler(http.StatusCreated, `{"card_number":"LC10001"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cards", nil)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	repo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestIdempotency_ConcurrentSameKeyRunsOnce(t *testing.T) {
	repo := repository.NewMemoryStore().Repos().Idempotency
	middleware := Idempotency(repo, testLogger())

	var calls atomic.Int32
	entered := make(chan struct{})
	proceed := make(chan struct{})
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		close(entered)
		<-proceed
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"points_redeemed":50}`)) //nolint:errcheck // test helper
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/redeem", nil)
		req.Header.Set("Idempotency-Key", "same-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- send() }()
	<-entered

	concurrent := send()
	assert.Equal(t, http.StatusConflict, concurrent.Code)

	close(proceed)
	assert.Equal(t, http.StatusOK, (<-first).Code)

	retry := send()
	assert.Equal(t, http.StatusOK, retry.Code)
	assert.Equal(t, "true", retry.Header().Get("X-Idempotent-Replayed"))
	assert.Equal(t, `{"points_redeemed":50}`, retry.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	repo := repository.NewMemoryStore().Repos().Idempotency
	middleware := Idempotency(repo, testLogger())

	status := http.StatusPaymentRequired
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cards/42/redeem", nil)
		req.Header.Set("Idempotency-Key", "retry-key")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusPaymentRequired, send())

	status = http.StatusOK
	assert.Equal(t, http.StatusOK, send(), "a failed attempt must not block the retry")
}

func TestMatchRoute(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{pattern: "/api/v1/cards", path: "/api/v1/cards", want: true},
		{pattern: "/api/v1/cards/{userId}/accrue", path: "/api/v1/cards/7/accrue", want: true},
		{pattern: "/api/v1/cards/{userId}/accrue", path: "/api/v1/cards//accrue", want: false},
		{pattern: "/api/v1/cards/{userId}/accrue", path: "/api/v1/cards/7/redeem", want: false},
		{pattern: "/api/v1/cards/{userId}/accrue", path: "/api/v1/cards/7", want: false},
		{pattern: "/api/v1/cards", path: "/api/v1/cards/7", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRoute(tt.pattern, tt.path))
		})
	}
}
