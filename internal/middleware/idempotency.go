// Package middleware provides HTTP middleware components for the placement service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store.
	IdempotencyReplayedHeader = "Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute

	defaultIdempotencyCapacity = 10000
	defaultIdempotencyMaxBody  = 8 << 20
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Store *IdempotencyStore
	// MaxBodyBytes skips idempotency for larger bodies rather than buffering them.
	MaxBodyBytes int64
	Enabled      bool
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Store:        NewIdempotencyStore(defaultIdempotencyCapacity, IdempotencyKeyTTL),
		MaxBodyBytes: defaultIdempotencyMaxBody,
		Enabled:      true,
	}
}

// Idempotency replays the stored response of a write request that carries an
// Idempotency-Key seen before with the same body. Reusing a key with another
// body answers 409. Only 2xx responses are stored, so failed searches can be
// retried under the same key.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultIdempotencyMaxBody
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}

		fingerprint, ok := fingerprintBody(c.Request, maxBody)
		if !ok {
			c.Next()
			return
		}

		scope := c.Request.Method + " " + c.Request.URL.Path + " " + key
		if stored, found := cfg.Store.Get(scope); found {
			if stored.fingerprint != fingerprint {
				message := i18n.GetTranslator().Translate(i18n.ErrKeyIdempotencyKeyReused, i18n.GetLocale(c))
				c.AbortWithStatusJSON(http.StatusConflict,
					dto.NewError(dto.ErrCodeConflict, message).WithRequestID(GetRequestID(c)))
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.status, stored.contentType, stored.body)
			c.Abort()
			return
		}

		capture := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if status := capture.Status(); status >= 200 && status < 300 {
			cfg.Store.Put(scope, storedResponse{
				fingerprint: fingerprint,
				status:      status,
				contentType: capture.Header().Get("Content-Type"),
				body:        capture.body.Bytes(),
			})
		}
	}
}

func isWriteMethod(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

// fingerprintBody hashes the request body and puts it back for the handler.
// It reports false when the body is larger than maxBody.
func fingerprintBody(req *http.Request, maxBody int64) (string, bool) {
	if req.Body == nil {
		sum := sha256.Sum256(nil)
		return hex.EncodeToString(sum[:]), true
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxBody+1))
	if err != nil || int64(len(data)) > maxBody {
		req.Body = io.NopCloser(io.MultiReader(bytes.NewReader(data), req.Body))
		return "", false
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

// capturingWriter copies the response body while writing it through.
type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *capturingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
