//go:build !integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/domain/dto"
)

func newTestTokenService() *TokenServiceImpl {
	return NewTokenService(TokenConfig{SecretKey: "test-secret", Issuer: "placement-service", TTL: time.Hour})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.IssueToken("ci-bot", []string{dto.ScopeLayoutsWrite})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", claims.Subject)
	assert.True(t, claims.HasScope(dto.ScopeLayoutsWrite))
	assert.False(t, claims.HasScope(dto.ScopeLayoutsRead))
}

func TestTokenService_IssueToken_EmptySubject(t *testing.T) {
	_, err := newTestTokenService().IssueToken("", nil)
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestTokenService_ValidateAccessToken_Rejects(t *testing.T) {
	svc := newTestTokenService()

	expired := newTestTokenService()
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.IssueToken("old", nil)
	require.NoError(t, err)

	otherSecret := NewTokenService(TokenConfig{SecretKey: "other", Issuer: "placement-service"})
	foreignToken, err := otherSecret.IssueToken("intruder", nil)
	require.NoError(t, err)

	otherIssuer := NewTokenService(TokenConfig{SecretKey: "test-secret", Issuer: "someone-else"})
	wrongIssuerToken, err := otherIssuer.IssueToken("stranger", nil)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: "placement-service"},
	})
	hs512Token, err := hs512.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "expired", token: expiredToken},
		{name: "wrong secret", token: foreignToken},
		{name: "wrong issuer", token: wrongIssuerToken},
		{name: "unexpected algorithm", token: hs512Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestNewTokenConfigFromAuthConfig(t *testing.T) {
	cfg := NewTokenConfigFromAuthConfig(config.AuthConfig{
		JWTSecretKey: "s",
		JWTIssuer:    "iss",
		TokenTTL:     time.Minute,
	})

	assert.Equal(t, TokenConfig{SecretKey: "s", Issuer: "iss", TTL: time.Minute}, cfg)
}
