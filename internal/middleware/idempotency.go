// Package middleware provides HTTP middleware components for the loyalty API.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fuelnet/loyalty/internal/models"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "X-Idempotent-Replayed"
)

// idempotentRoutes lists the mutating POST routes. A segment in braces
// matches any single path segment.
var idempotentRoutes = []string{
	"/api/v1/cards",
	"/api/v1/cards/{userId}/accrue",
	"/api/v1/cards/{userId}/redeem",
	"/api/v1/purchases",
}

// IdempotencyRepository defines the interface for idempotency storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Reserve(ctx context.Context, key, requestPath string) (bool, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
	Release(ctx context.Context, key, requestPath string) error
}

// Idempotency creates middleware that replays the first successful response
// for a repeated Idempotency-Key on the same path. The key is reserved
// before the handler runs, so a concurrent request with the same key gets
// 409 instead of running twice. A reservation without a successful
// response is released for the next retry. When the repository fails the
// request runs unguarded.
func Idempotency(repo IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresIdempotency(r) {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(idempotencyKeyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestPath := normalizeRequestPath(r.URL.Path)
			ctx := r.Context()

			cached, err := repo.Get(ctx, idempotencyKey, requestPath)
			if err != nil {
				logger.Error("failed to check idempotency cache", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if cached != nil {
				replay(w, cached, logger)
				return
			}

			reserved, err := repo.Reserve(ctx, idempotencyKey, requestPath)
			if err != nil {
				logger.Error("failed to reserve idempotency key", "error", err, "key", idempotencyKey)
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				cached, err = repo.Get(ctx, idempotencyKey, requestPath)
				if err != nil || cached == nil {
					writeInProgress(w)
					return
				}
				replay(w, cached, logger)
				return
			}

			stored := false
			defer func() {
				if stored {
					return
				}
				if err := repo.Release(context.WithoutCancel(ctx), idempotencyKey, requestPath); err != nil {
					logger.Error("failed to release idempotency key",
						"error", err,
						"key", idempotencyKey,
					)
				}
			}()

			var body bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if shouldCacheResponse(status) {
				idemKey := &models.IdempotencyKey{
					Key:            idempotencyKey,
					RequestPath:    requestPath,
					ResponseStatus: status,
					ResponseBody:   body.String(),
					CreatedAt:      time.Now(),
				}

				if err := repo.Store(context.WithoutCancel(ctx), idemKey); err != nil {
					logger.Error("failed to store idempotency key",
						"error", err,
						"key", idempotencyKey,
					)
					return
				}
				stored = true
			}
		})
	}
}

// replay writes a stored response, or 409 while the key is still reserved
func replay(w http.ResponseWriter, cached *models.IdempotencyKey, logger *slog.Logger) {
	if cached.Pending() {
		writeInProgress(w)
		return
	}

	logger.Debug("returning cached idempotent response",
		"key", cached.Key,
		"path", cached.RequestPath,
		"status", cached.ResponseStatus,
	)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(cached.ResponseStatus)
	//nolint:errcheck // Best effort response writing
	w.Write([]byte(cached.ResponseBody))
}

func writeInProgress(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(errorResponse{
		Error:   "request_in_progress",
		Message: "a request with this idempotency key is still being processed",
	})
}

func requiresIdempotency(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	path := normalizeRequestPath(r.URL.Path)
	for _, route := range idempotentRoutes {
		if matchRoute(route, path) {
			return true
		}
	}
	return false
}

func matchRoute(pattern, path string) bool {
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}

	for i := range want {
		if strings.HasPrefix(want[i], "{") && strings.HasSuffix(want[i], "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
