package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/placement-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Listing limits applied when the caller passes none or too many.
const (
	DefaultLayoutListLimit = 20
	MaxLayoutListLimit     = 100
)

// LayoutRepository stores search runs in the layouts collection.
type LayoutRepository struct {
	collection *mongo.Collection
}

// NewLayoutRepository creates a new layout repository.
func NewLayoutRepository(db *MongoDB) *LayoutRepository {
	return &LayoutRepository{
		collection: db.Layouts,
	}
}

// Create inserts a layout, assigning the object id and creation time when unset.
func (r *LayoutRepository) Create(ctx context.Context, layout *model.Layout) error {
	if layout.ObjectID.IsZero() {
		layout.ObjectID = primitive.NewObjectID()
	}
	if layout.CreatedAt.IsZero() {
		layout.CreatedAt = time.Now().UTC()
	}

	_, err := r.collection.InsertOne(ctx, layout)
	return err
}

// GetByRunID finds a layout by its run id.
func (r *LayoutRepository) GetByRunID(ctx context.Context, runID string) (*model.Layout, error) {
	var layout model.Layout
	err := r.collection.FindOne(ctx, bson.M{"run_id": runID}).Decode(&layout)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &layout, nil
}

// List returns layouts matching opts, newest first.
func (r *LayoutRepository) List(ctx context.Context, opts model.LayoutQueryOptions) ([]model.Layout, error) {
	return findAll[model.Layout](ctx, r.collection, layoutFilter(opts), page("created_at", clampLimit(opts.Limit), opts.Skip))
}

// Count returns the number of layouts matching opts. Limit and Skip are ignored.
func (r *LayoutRepository) Count(ctx context.Context, opts model.LayoutQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, layoutFilter(opts))
}

func layoutFilter(opts model.LayoutQueryOptions) bson.M {
	return bson.M(filter{}.
		eq("status", opts.Status).
		eq("request_id", opts.RequestID).
		eq("source", opts.Source).
		within("created_at", opts.StartTime, opts.EndTime))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLayoutListLimit
	case limit > MaxLayoutListLimit:
		return MaxLayoutListLimit
	default:
		return limit
	}
}
