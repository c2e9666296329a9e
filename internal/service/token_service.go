package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guttosm/placement-service/config"
	"github.com/guttosm/placement-service/internal/domain/dto"
)

var (
	// ErrInvalidToken is returned for malformed, expired or foreign tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrEmptySubject is returned when issuing a token without a subject.
	ErrEmptySubject = errors.New("token subject is required")
)

// TokenClaims is the signed form of dto.Claims.
type TokenClaims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and validates bearer tokens. Tokens are self-contained;
// nothing is stored server side.
type TokenService interface {
	// IssueToken signs a token for subject with the given scopes.
	IssueToken(subject string, scopes []string) (string, error)
	// ValidateAccessToken checks signature, expiry and issuer.
	ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

// TokenConfig holds configuration for the token service.
type TokenConfig struct {
	SecretKey string
	Issuer    string
	TTL       time.Duration
}

// NewTokenConfigFromAuthConfig creates TokenConfig from config.AuthConfig.
func NewTokenConfigFromAuthConfig(authConfig config.AuthConfig) TokenConfig {
	return TokenConfig{
		SecretKey: authConfig.JWTSecretKey,
		Issuer:    authConfig.JWTIssuer,
		TTL:       authConfig.TokenTTL,
	}
}

// TokenServiceImpl signs HS256 tokens with a shared secret.
type TokenServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService creates a new token service.
func NewTokenService(cfg TokenConfig) *TokenServiceImpl {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenServiceImpl{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken signs a new token.
func (s *TokenServiceImpl) IssueToken(subject string, scopes []string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	issuedAt := s.now()
	claims := &TokenClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken validates a token and returns its claims.
func (s *TokenServiceImpl) ValidateAccessToken(_ context.Context, tokenString string) (*dto.Claims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &dto.Claims{Subject: claims.Subject, Scopes: claims.Scopes}, nil
}
