//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// maxDBNameBytes keeps generated names under MongoDB's 64 byte limit with room
// for the uniqueness suffix.
const maxDBNameBytes = 48

var (
	sharedMu        sync.Mutex
	sharedContainer *MongoDBContainer
	dbNameSeq       atomic.Uint64
)

// GetSharedMongoDB starts the package-wide container on first use and returns
// it afterwards. A failed start is retried on the next call.
func GetSharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer != nil {
		return sharedContainer, nil
	}
	c, err := SetupMongoDB(ctx)
	if err != nil {
		return nil, err
	}
	sharedContainer = c
	return c, nil
}

// CleanupSharedMongoDB terminates the shared container, if any.
func CleanupSharedMongoDB(ctx context.Context) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	err := sharedContainer.Cleanup(ctx)
	sharedContainer = nil
	return err
}

// SetupTestMainWithMongoDB runs the package tests against a shared container:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMainWithMongoDB(context.Background(), m))
//	}
func SetupTestMainWithMongoDB(ctx context.Context, m *testing.M) int {
	if _, err := GetSharedMongoDB(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "testutil: %v\n", err)
		return 1
	}

	code := m.Run()

	if err := CleanupSharedMongoDB(ctx); err != nil {
		// Docker reaps the container anyway.
		fmt.Fprintf(os.Stderr, "testutil: %v\n", err)
	}
	return code
}

// GetSharedContainerURI returns the URI of the shared container. It panics
// when called outside SetupTestMainWithMongoDB.
func GetSharedContainerURI() string {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedContainer == nil {
		panic("testutil: shared MongoDB container not started")
	}
	return sharedContainer.URI
}

// SanitizeDBName turns a test name into a unique MongoDB database name.
// Characters MongoDB rejects in database names become underscores.
func SanitizeDBName(testName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$', '*', '<', '>', ':', '|', '?':
			return '_'
		}
		return r
	}, testName)

	if len(name) > maxDBNameBytes {
		name = name[:maxDBNameBytes]
	}
	return fmt.Sprintf("%s_%d_%d", name, os.Getpid()%10000, dbNameSeq.Add(1))
}
