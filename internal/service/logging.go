package service

import (
	"context"
	"time"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Log query page sizes.
const (
	DefaultLogQueryLimit = 100
	MaxLogQueryLimit     = 1000
)

// LoggingService persists request and audit log entries.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	// CreateLogs stores entries with one bulk insert. Nil entries are skipped.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	// QueryLogs returns matching entries, newest first. The page size
	// defaults to DefaultLogQueryLimit and is capped at MaxLogQueryLimit.
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

type loggingService struct {
	repo repository.LogsRepositoryInterface
	now  func() time.Time
}

// NewLoggingService returns a LoggingService backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &loggingService{repo: repo, now: time.Now}
}

func (s *loggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	return s.repo.Create(ctx, s.toDocument(entry))
}

func (s *loggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	docs := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			docs = append(docs, s.toDocument(entry))
		}
	}
	if len(docs) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, docs)
}

func (s *loggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	ropts := logQuery(opts)
	switch {
	case ropts.Limit <= 0:
		ropts.Limit = DefaultLogQueryLimit
	case ropts.Limit > MaxLogQueryLimit:
		ropts.Limit = MaxLogQueryLimit
	}
	ropts.Skip = max(ropts.Skip, 0)

	docs, err := s.repo.Query(ctx, ropts)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, model.LogEntry(*doc))
	}
	return entries, nil
}

func (s *loggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return s.repo.Count(ctx, logQuery(opts))
}

func logQuery(opts model.LogQueryOptions) repository.LogQueryOptions {
	return repository.LogQueryOptions(opts)
}

// toDocument assigns the id and timestamp in place so callers can refer to
// the stored entry.
func (s *loggingService) toDocument(entry *model.LogEntry) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	doc := repository.LogEntryDocument(*entry)
	return &doc
}
