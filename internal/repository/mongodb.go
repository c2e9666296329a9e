// Package repository stores layouts and audit logs in MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	layoutsCollection = "layouts"
	logsCollection    = "logs"

	healthCheckTimeout = 2 * time.Second
)

// Server codes for an index that already exists under other options.
const (
	codeIndexOptionsConflict  = 85
	codeIndexKeySpecsConflict = 86
)

// MongoConfig tunes the driver's connection pool and timeouts.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// Compression negotiates zstd, snappy or zlib with the server.
	Compression bool
}

// DefaultMongoConfig returns the pool settings used in production.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            10,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		Compression:            true,
	}
}

func (cfg MongoConfig) clientOptions(uri string) *options.ClientOptions {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.Compression {
		opts.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}
	return opts
}

// MongoDB is a connected client with the service's two collections.
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Layouts  *mongo.Collection
	Logs     *mongo.Collection
}

// NewMongoDB connects with DefaultMongoConfig.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig connects, pings the server and ensures the query
// indexes exist. The client is disconnected again when any step fails.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(databaseName)
	m := &MongoDB{
		Client:   client,
		Database: db,
		Layouts:  db.Collection(layoutsCollection),
		Logs:     db.Collection(logsCollection),
	}
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// ensureIndexes creates the unique run id index, which must succeed, and
// the lookup indexes, which may already exist under other options. TTL
// indexes are managed by SetLogsTTL and SetLayoutsTTL.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.Layouts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "run_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create run_id index: %w", err)
	}

	lookups := map[*mongo.Collection][]bson.D{
		m.Layouts: {
			{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			{{Key: "request_id", Value: 1}},
			{{Key: "source", Value: 1}},
		},
		m.Logs: {
			{{Key: "request_id", Value: 1}},
			{{Key: "run_id", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}
	for coll, keys := range lookups {
		models := make([]mongo.IndexModel, len(keys))
		for i, k := range keys {
			models[i] = mongo.IndexModel{Keys: k}
		}
		_, _ = coll.Indexes().CreateMany(ctx, models)
	}
	return nil
}

// SetLogsTTL expires log entries ttlDays after their timestamp.
func (m *MongoDB) SetLogsTTL(ctx context.Context, ttlDays int) error {
	return replaceTTLIndex(ctx, m.Logs, "timestamp", ttlDays)
}

// SetLayoutsTTL expires stored layouts ttlDays after creation. Zero or less
// removes the expiry and keeps layouts forever.
func (m *MongoDB) SetLayoutsTTL(ctx context.Context, ttlDays int) error {
	if ttlDays <= 0 {
		_, _ = m.Layouts.Indexes().DropOne(ctx, "created_at_1")
		return nil
	}
	return replaceTTLIndex(ctx, m.Layouts, "created_at", ttlDays)
}

func replaceTTLIndex(ctx context.Context, coll *mongo.Collection, field string, ttlDays int) error {
	_, _ = coll.Indexes().DropOne(ctx, field+"_1")

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttlDays * 24 * 60 * 60)),
	})
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Code == codeIndexOptionsConflict || cmdErr.Code == codeIndexKeySpecsConflict) {
		return nil
	}
	return err
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the server with a short deadline.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
