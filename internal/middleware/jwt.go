package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/guttosm/placement-service/internal/i18n"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// JWTAuth returns a middleware that validates JWT bearer tokens.
func JWTAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticateJWT(c, tokens) {
			c.Next()
		}
	}
}

// Authenticate accepts either a bearer token or an API key. Requests with an
// Authorization header are checked as JWT, all others as API key. A nil
// validator or an empty key set disables that method.
func Authenticate(keys *APIKeySet, tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		hasBearer := c.GetHeader("Authorization") != ""

		switch {
		case hasBearer && tokens != nil:
			if !authenticateJWT(c, tokens) {
				return
			}
		case !keys.Empty():
			if !authenticateAPIKey(c, keys) {
				return
			}
		case tokens != nil:
			abortUnauthorized(c, i18n.ErrKeyTokenRequired)
			return
		}

		c.Next()
	}
}

func authenticateJWT(c *gin.Context, tokens TokenValidator) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, i18n.ErrKeyTokenRequired)
		return false
	}

	// Extract token from "Bearer <token>"
	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		abortUnauthorized(c, i18n.ErrKeyInvalidToken)
		return false
	}
	if tokenString = strings.TrimSpace(tokenString); tokenString == "" {
		abortUnauthorized(c, i18n.ErrKeyTokenRequired)
		return false
	}

	claims, err := tokens.ValidateAccessToken(c.Request.Context(), tokenString)
	if err != nil {
		abortUnauthorized(c, i18n.ErrKeyInvalidToken)
		return false
	}

	c.Set(string(AuthSubjectKey), claims.Subject)
	c.Set(string(AuthMethodKey), AuthMethodJWT)
	c.Set(string(AuthClaimsKey), claims)
	return true
}

// RequireScope rejects bearer tokens that lack scope. API keys carry every
// scope; requests that were not authenticated pass through.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAuthMethod(c) != AuthMethodJWT {
			c.Next()
			return
		}

		v, _ := c.Get(string(AuthClaimsKey))
		claims, _ := v.(*dto.Claims)
		if !claims.HasScope(scope) {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyForbidden, i18n.GetLocale(c))
			errorResp := dto.NewError(dto.ErrCodeForbidden, message).
				WithRequestID(GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusForbidden, errorResp)
			return
		}
		c.Next()
	}
}
