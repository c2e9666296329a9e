// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockLayoutRepositoryInterface struct {
	mock.Mock
}

func (m *MockLayoutRepositoryInterface) Create(ctx context.Context, layout *model.Layout) error {
	args := m.Called(ctx, layout)
	return args.Error(0)
}

func (m *MockLayoutRepositoryInterface) GetByRunID(ctx context.Context, runID string) (*model.Layout, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Layout), args.Error(1)
}

func (m *MockLayoutRepositoryInterface) List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Layout), args.Error(1)
}

func (m *MockLayoutRepositoryInterface) Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
