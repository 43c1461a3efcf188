// Package middleware provides HTTP middleware components for the ledger API.
package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/benx421/retail-ledger/internal/models"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "X-Idempotent-Replayed"

	maxKeyedBodyBytes = 1 << 20

	codeKeyReused   = "idempotency_key_reused"
	codeKeyInFlight = "idempotency_key_in_flight"
)

// keyedRoutes lists the money-moving POST routes. Entries are path.Match patterns.
var keyedRoutes = []string{
	"/api/v1/deposits",
	"/api/v1/withdrawals",
	"/api/v1/transfers",
	"/api/v1/recharges",
	"/api/v1/loans",
	"/api/v1/loans/settlements",
	"/api/v1/accounts/*/interest",
}

// IdempotencyRepository reserves a key before the request runs and records
// or drops the reservation afterwards. Reserve returns nil when the caller
// owns the key and the existing reservation otherwise.
type IdempotencyRepository interface {
	Reserve(ctx context.Context, key, requestPath, requestHash string) (*models.IdempotencyKey, error)
	Complete(ctx context.Context, key, requestPath string, status int, body string) error
	Release(ctx context.Context, key, requestPath string) error
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// recorder tees the response so it can be stored for replays
type recorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (rec *recorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *recorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

// Idempotency runs each keyed money-moving request at most once per
// (Idempotency-Key, path). The key is reserved before the handler runs, so a
// concurrent duplicate gets 409 and a reuse with a different body gets 422.
// Successful responses are stored and replayed; failed ones free the key.
func Idempotency(repo IdempotencyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyKeyHeader)
			if key == "" || !isKeyedRoute(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			scope := strings.TrimSuffix(r.URL.Path, "/")

			payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxKeyedBodyBytes))
			if err != nil {
				writeKeyError(w, http.StatusBadRequest, "invalid_request", "request body could not be read")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(payload))
			fingerprint := fingerprintOf(payload)

			existing, err := repo.Reserve(ctx, key, scope, fingerprint)
			if err != nil {
				logger.ErrorContext(ctx, "idempotency reservation failed, serving unguarded",
					"error", err,
					"key", key,
					"path", scope,
				)
				next.ServeHTTP(w, r)
				return
			}
			if existing != nil {
				answerDuplicate(w, existing, fingerprint)
				logger.DebugContext(ctx, "duplicate idempotency key",
					"key", key,
					"path", scope,
					"completed", existing.Completed(),
				)
				return
			}

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			settled := false
			persistCtx := context.WithoutCancel(ctx)
			defer func() {
				if settled {
					return
				}
				// handler panicked; free the key before the panic propagates
				if err := repo.Release(persistCtx, key, scope); err != nil {
					logger.ErrorContext(ctx, "failed to release idempotency key", "error", err, "key", key)
				}
			}()

			next.ServeHTTP(rec, r)
			settled = true

			if rec.status >= 200 && rec.status < 300 {
				if err := repo.Complete(persistCtx, key, scope, rec.status, rec.body.String()); err != nil {
					logger.ErrorContext(ctx, "failed to record idempotent response", "error", err, "key", key)
				}
				return
			}
			if err := repo.Release(persistCtx, key, scope); err != nil {
				logger.ErrorContext(ctx, "failed to release idempotency key", "error", err, "key", key)
			}
		})
	}
}

func answerDuplicate(w http.ResponseWriter, existing *models.IdempotencyKey, fingerprint string) {
	switch {
	case existing.RequestHash != fingerprint:
		writeKeyError(w, http.StatusUnprocessableEntity, codeKeyReused,
			"idempotency key was already used with a different request body")
	case !existing.Completed():
		writeKeyError(w, http.StatusConflict, codeKeyInFlight,
			"a request with this idempotency key is still being processed")
	default:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(replayedHeader, "true")
		w.WriteHeader(existing.ResponseStatus)
		_, _ = io.WriteString(w, existing.ResponseBody) //nolint:errcheck // client may be gone
	}
}

func writeKeyError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: code, Message: message}) //nolint:errcheck // client may be gone
}

func isKeyedRoute(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	p := strings.TrimSuffix(r.URL.Path, "/")
	for _, pattern := range keyedRoutes {
		if ok, _ := path.Match(pattern, p); ok {
			return true
		}
	}
	return false
}

func fingerprintOf(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
