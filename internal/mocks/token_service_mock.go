// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/placement-service/internal/domain/dto"
	"github.com/stretchr/testify/mock"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueToken(subject string, scopes []string) (string, error) {
	args := m.Called(subject, scopes)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAccessToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}
