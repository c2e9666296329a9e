// Package repository provides interfaces for repository operations.
package repository

import (
	"context"

	"github.com/guttosm/placement-service/internal/domain/model"
)

// LayoutRepositoryInterface defines the interface for layout repository operations.
// GetByRunID returns (nil, nil) when no layout has the given run id.
type LayoutRepositoryInterface interface {
	Create(ctx context.Context, layout *model.Layout) error
	GetByRunID(ctx context.Context, runID string) (*model.Layout, error)
	List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error)
	Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
