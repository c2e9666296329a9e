package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// filter accumulates equality and range clauses, skipping empty values.
type filter bson.M

func (f filter) eq(field, value string) filter {
	if value != "" {
		f[field] = value
	}
	return f
}

// contains matches value anywhere in field, ignoring case. Regex
// metacharacters in value are matched literally.
func (f filter) contains(field, value string) filter {
	if value != "" {
		f[field] = bson.M{"$regex": regexp.QuoteMeta(value), "$options": "i"}
	}
	return f
}

// within bounds field by start and end, inclusive. Nil bounds are open.
func (f filter) within(field string, start, end *time.Time) filter {
	if start == nil && end == nil {
		return f
	}
	r := bson.M{}
	if start != nil {
		r["$gte"] = *start
	}
	if end != nil {
		r["$lte"] = *end
	}
	f[field] = r
	return f
}

// page sorts newest first by field and applies limit and skip when positive.
func page(field string, limit, skip int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	return opts
}

// findAll decodes every document matched by f. The result is never nil.
func findAll[T any](ctx context.Context, coll *mongo.Collection, f bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
