package http

import (
	"context"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type mockPlacementService struct {
	mock.Mock
}

func newMockPlacementService(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockPlacementService {
	m := &mockPlacementService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockPlacementService) Search(ctx context.Context, in service.SearchInput) (model.LayoutResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.LayoutResult), args.Error(1)
}

func (m *mockPlacementService) InvalidateCache() {
	m.Called()
}

type mockLayoutService struct {
	mock.Mock
}

func newMockLayoutService(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockLayoutService {
	m := &mockLayoutService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockLayoutService) Save(ctx context.Context, layout *model.Layout) error {
	return m.Called(ctx, layout).Error(0)
}

func (m *mockLayoutService) Get(ctx context.Context, runID string) (*model.Layout, error) {
	args := m.Called(ctx, runID)
	layout, _ := args.Get(0).(*model.Layout)
	return layout, args.Error(1)
}

func (m *mockLayoutService) List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error) {
	args := m.Called(ctx, opts)
	layouts, _ := args.Get(0).([]model.Layout)
	return layouts, args.Error(1)
}

func (m *mockLayoutService) Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(int64), args.Error(1)
}
