//go:build integration

// Package testutil starts the MongoDB container shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// DefaultMongoImage is used unless TEST_MONGO_IMAGE is set.
const DefaultMongoImage = "mongo:7.0"

// MongoDBContainer wraps a MongoDB testcontainer.
type MongoDBContainer struct {
	Container testcontainers.Container
	URI       string
}

// MongoImage returns the image integration tests run against.
func MongoImage() string {
	if img := os.Getenv("TEST_MONGO_IMAGE"); img != "" {
		return img
	}
	return DefaultMongoImage
}

// SetupMongoDB starts a dedicated MongoDB container. Packages with many
// integration tests should share one through SetupTestMainWithMongoDB.
func SetupMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	container, err := mongodb.Run(ctx, MongoImage())
	if err != nil {
		return nil, fmt.Errorf("start MongoDB container: %w", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("MongoDB connection string: %w", err)
	}

	return &MongoDBContainer{
		Container: container,
		URI:       uri,
	}, nil
}

// Cleanup terminates the MongoDB container.
func (m *MongoDBContainer) Cleanup(ctx context.Context) error {
	if m == nil || m.Container == nil {
		return nil
	}
	if err := m.Container.Terminate(ctx); err != nil {
		return fmt.Errorf("terminate MongoDB container: %w", err)
	}
	return nil
}
