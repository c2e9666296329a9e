package service

import (
	"context"
	"errors"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/repository"
)

var (
	// ErrRepositoryNotConfigured is returned when the repository is not configured.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
	// ErrLayoutNotFound is returned when no layout has the requested run id.
	ErrLayoutNotFound = errors.New("layout not found")
)

// LayoutService stores and retrieves search runs.
type LayoutService interface {
	Save(ctx context.Context, layout *model.Layout) error
	Get(ctx context.Context, runID string) (*model.Layout, error)
	List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error)
	Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error)
}

// LayoutServiceImpl implements LayoutService.
type LayoutServiceImpl struct {
	layoutRepo repository.LayoutRepositoryInterface
}

// NewLayoutService creates a layout service. A nil repository yields a
// service whose every call fails with ErrRepositoryNotConfigured.
func NewLayoutService(layoutRepo repository.LayoutRepositoryInterface) LayoutService {
	return &LayoutServiceImpl{
		layoutRepo: layoutRepo,
	}
}

func (s *LayoutServiceImpl) Save(ctx context.Context, layout *model.Layout) error {
	if s.layoutRepo == nil {
		return ErrRepositoryNotConfigured
	}
	return s.layoutRepo.Create(ctx, layout)
}

func (s *LayoutServiceImpl) Get(ctx context.Context, runID string) (*model.Layout, error) {
	if s.layoutRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	layout, err := s.layoutRepo.GetByRunID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		return nil, ErrLayoutNotFound
	}
	return layout, nil
}

func (s *LayoutServiceImpl) List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error) {
	if s.layoutRepo == nil {
		return nil, ErrRepositoryNotConfigured
	}
	return s.layoutRepo.List(ctx, opts)
}

func (s *LayoutServiceImpl) Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error) {
	if s.layoutRepo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	return s.layoutRepo.Count(ctx, opts)
}
