package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/placement-service/internal/domain/model"
	"github.com/guttosm/placement-service/internal/logger"
	"github.com/guttosm/placement-service/internal/metrics"
	"github.com/guttosm/placement-service/internal/service"
	"github.com/rs/zerolog"
)

// LogBatcherConfig tunes a LogBatcher.
type LogBatcherConfig struct {
	// BufferSize is the number of entries that may wait for a flush.
	BufferSize int
	// BatchSize flushes as soon as this many entries are pending.
	BatchSize int
	// FlushInterval flushes a partial batch.
	FlushInterval time.Duration
	// WriteTimeout bounds a single bulk insert.
	WriteTimeout time.Duration
}

// DefaultLogBatcherConfig returns the production settings.
func DefaultLogBatcherConfig() LogBatcherConfig {
	return LogBatcherConfig{
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

// LogBatcherStats counts entries by outcome.
type LogBatcherStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// LogBatcher collects request and audit entries off the request path and
// stores them with bulk inserts. A full buffer drops entries rather than
// blocking requests.
type LogBatcher struct {
	sink         service.LoggingService
	entries      chan *model.LogEntry
	stop         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	batchSize    int
	interval     time.Duration
	writeTimeout time.Duration
	log          zerolog.Logger

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewLogBatcher starts a batcher writing to sink. It returns nil for a nil
// sink.
func NewLogBatcher(sink service.LoggingService, cfg LogBatcherConfig) *LogBatcher {
	if sink == nil {
		return nil
	}
	def := DefaultLogBatcherConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = def.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	b := &LogBatcher{
		sink:         sink,
		entries:      make(chan *model.LogEntry, cfg.BufferSize),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		batchSize:    cfg.BatchSize,
		interval:     cfg.FlushInterval,
		writeTimeout: cfg.WriteTimeout,
		log:          logger.Component("log-batcher"),
	}
	go b.run()
	return b
}

// Enqueue queues entry for storage and reports whether it was accepted.
func (b *LogBatcher) Enqueue(entry *model.LogEntry) bool {
	select {
	case <-b.stop:
		b.drop(1)
		return false
	default:
	}
	select {
	case b.entries <- entry:
		b.enqueued.Add(1)
		return true
	default:
		b.drop(1)
		return false
	}
}

// Stop flushes pending entries and ends the writer. It is safe to call more
// than once.
func (b *LogBatcher) Stop() {
	b.stopOnce.Do(func() { close(b.stop) })
	<-b.done
}

// Stats returns a snapshot of the counters.
func (b *LogBatcher) Stats() LogBatcherStats {
	return LogBatcherStats{
		Enqueued: b.enqueued.Load(),
		Dropped:  b.dropped.Load(),
		Written:  b.written.Load(),
		Failed:   b.failed.Load(),
	}
}

func (b *LogBatcher) run() {
	defer close(b.done)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, b.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		b.write(batch)
		batch = make([]*model.LogEntry, 0, b.batchSize)
	}

	for {
		select {
		case entry := <-b.entries:
			batch = append(batch, entry)
			if len(batch) >= b.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-b.stop:
			for {
				select {
				case entry := <-b.entries:
					batch = append(batch, entry)
					if len(batch) >= b.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (b *LogBatcher) write(batch []*model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), b.writeTimeout)
	defer cancel()

	if err := b.sink.CreateLogs(ctx, batch); err != nil {
		b.failed.Add(int64(len(batch)))
		metrics.RecordLogEntries("failed", len(batch))
		b.log.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to store log entries")
		return
	}
	b.written.Add(int64(len(batch)))
	metrics.RecordLogEntries("written", len(batch))
}

func (b *LogBatcher) drop(n int) {
	b.dropped.Add(int64(n))
	metrics.RecordLogEntries("dropped", n)
}

var (
	activeBatcher   *LogBatcher
	activeBatcherMu sync.RWMutex
)

// StartLogBatcher installs the process wide batcher used by RequestLogger and
// AuditLog. A running batcher is stopped first.
func StartLogBatcher(sink service.LoggingService, cfg LogBatcherConfig) *LogBatcher {
	activeBatcherMu.Lock()
	defer activeBatcherMu.Unlock()

	if activeBatcher != nil {
		activeBatcher.Stop()
	}
	activeBatcher = NewLogBatcher(sink, cfg)
	return activeBatcher
}

// StopLogBatcher flushes and removes the process wide batcher.
func StopLogBatcher() {
	activeBatcherMu.Lock()
	defer activeBatcherMu.Unlock()

	if activeBatcher != nil {
		activeBatcher.Stop()
		activeBatcher = nil
	}
}

func currentLogBatcher() *LogBatcher {
	activeBatcherMu.RLock()
	defer activeBatcherMu.RUnlock()
	return activeBatcher
}
