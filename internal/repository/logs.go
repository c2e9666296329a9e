package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LogEntryDocument is one request or audit record in the logs collection.
// Its fields mirror model.LogEntry one to one.
type LogEntryDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Level      string             `bson:"level" json:"level"`
	Message    string             `bson:"message" json:"message"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string             `bson:"method,omitempty" json:"method,omitempty"`
	Path       string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	Subject    string             `bson:"subject,omitempty" json:"subject,omitempty"`
	AuthMethod string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"`
	ActionType string             `bson:"action_type,omitempty" json:"action_type,omitempty"`
	RunID      string             `bson:"run_id,omitempty" json:"run_id,omitempty"`
	Fields     map[string]any     `bson:"fields,omitempty" json:"fields,omitempty"`
}

// stamp fills in the id and timestamp when the caller left them unset.
func (d *LogEntryDocument) stamp() {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
}

// LogQueryOptions filters log queries. Empty fields match everything and
// Path matches as a case-insensitive substring.
type LogQueryOptions struct {
	RequestID  string
	Level      string
	Method     string
	Path       string
	ActionType string
	Subject    string
	RunID      string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// LogsRepository reads and writes the logs collection.
type LogsRepository struct {
	collection *mongo.Collection
}

// NewLogsRepository creates a logs repository on db.
func NewLogsRepository(db *MongoDB) *LogsRepository {
	return &LogsRepository{collection: db.Logs}
}

// Create inserts a single entry.
func (r *LogsRepository) Create(ctx context.Context, entry *LogEntryDocument) error {
	entry.stamp()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// CreateMany inserts entries in one round trip. An empty batch is a no-op.
func (r *LogsRepository) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]any, len(entries))
	for i, entry := range entries {
		entry.stamp()
		docs[i] = entry
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// Query returns matching entries, newest first.
func (r *LogsRepository) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return findAll[*LogEntryDocument](ctx, r.collection, logFilter(opts), page("timestamp", opts.Limit, opts.Skip))
}

// Count returns the number of matching entries.
func (r *LogsRepository) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return r.collection.CountDocuments(ctx, logFilter(opts))
}

func logFilter(opts LogQueryOptions) bson.M {
	return bson.M(filter{}.
		eq("request_id", opts.RequestID).
		eq("level", opts.Level).
		eq("method", opts.Method).
		contains("path", opts.Path).
		eq("action_type", opts.ActionType).
		eq("subject", opts.Subject).
		eq("run_id", opts.RunID).
		within("timestamp", opts.StartTime, opts.EndTime))
}
