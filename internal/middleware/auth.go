package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// Context keys set by the authentication middlewares.
const (
	// AuthSubjectKey holds the authenticated principal.
	AuthSubjectKey ContextKey = "auth_subject"
	// AuthMethodKey holds AuthMethodAPIKey or AuthMethodJWT.
	AuthMethodKey ContextKey = "auth_method"
	// AuthClaimsKey holds the *dto.Claims of a bearer token.
	AuthClaimsKey ContextKey = "auth_claims"
)

// Authentication methods.
const (
	AuthMethodAPIKey = "api_key"
	AuthMethodJWT    = "jwt"
)

// APIKeySet holds the accepted API keys, in plain form and as bcrypt hashes.
type APIKeySet struct {
	plain  map[string]bool
	hashes [][]byte
	// verified memoizes keys that matched a hash; bcrypt is slow on purpose.
	verified sync.Map
}

// NewAPIKeySet creates a key set. Either argument may be empty.
func NewAPIKeySet(plain map[string]bool, hashes []string) *APIKeySet {
	s := &APIKeySet{plain: plain}
	for _, h := range hashes {
		s.hashes = append(s.hashes, []byte(h))
	}
	return s
}

// Empty reports whether no key is configured.
func (s *APIKeySet) Empty() bool {
	return s == nil || (len(s.plain) == 0 && len(s.hashes) == 0)
}

// Valid reports whether key is accepted.
func (s *APIKeySet) Valid(key string) bool {
	if s == nil || key == "" {
		return false
	}
	if s.plain[key] {
		return true
	}
	if _, ok := s.verified.Load(key); ok {
		return true
	}
	for _, h := range s.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(key)) == nil {
			s.verified.Store(key, struct{}{})
			return true
		}
	}
	return false
}

// APIKeyAuth returns a middleware that validates API keys.
// It checks the X-API-Key header first, then falls back to api_key query parameter.
// If no key is configured, authentication is disabled.
func APIKeyAuth(keys *APIKeySet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keys.Empty() {
			c.Next()
			return
		}
		if authenticateAPIKey(c, keys) {
			c.Next()
		}
	}
}

// authenticateAPIKey aborts the request and returns false when the key is
// missing or wrong.
func authenticateAPIKey(c *gin.Context, keys *APIKeySet) bool {
	key := c.GetHeader(APIKeyHeader)
	if key == "" {
		key = c.Query(APIKeyQuery)
	}

	if key == "" {
		abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
		return false
	}
	if !keys.Valid(key) {
		abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
		return false
	}

	c.Set(string(AuthSubjectKey), "api-key:"+keyFingerprint(key))
	c.Set(string(AuthMethodKey), AuthMethodAPIKey)
	return true
}

// keyFingerprint identifies a key in logs without revealing it.
func keyFingerprint(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

func abortUnauthorized(c *gin.Context, messageKey string) {
	message := i18n.GetTranslator().Translate(messageKey, i18n.GetLocale(c))
	errorResp := dto.NewError(dto.ErrCodeUnauthorized, message).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResp)
}

// GetAuthSubject returns the authenticated principal, or "" for anonymous
// requests.
func GetAuthSubject(c *gin.Context) string {
	return c.GetString(string(AuthSubjectKey))
}

// GetAuthMethod returns how the request was authenticated, or "".
func GetAuthMethod(c *gin.Context) string {
	return c.GetString(string(AuthMethodKey))
}
