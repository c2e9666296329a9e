package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStore(t *testing.T) {
	store := NewIdempotencyStore(2, time.Minute)

	store.Put("a", storedResponse{fingerprint: "fa", status: 200, body: []byte("A")})
	store.Put("b", storedResponse{fingerprint: "fb", status: 201, body: []byte("B")})

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "fa", got.fingerprint)
	assert.Equal(t, []byte("A"), got.body)

	// "a" was read last, so "b" is the eviction victim.
	store.Put("c", storedResponse{fingerprint: "fc", status: 200})
	_, ok = store.Get("b")
	assert.False(t, ok)
	_, ok = store.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, store.Len())
}

func TestIdempotencyStore_Expiry(t *testing.T) {
	store := NewIdempotencyStore(10, time.Second)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	store.Put("a", storedResponse{status: 200})
	clock = clock.Add(500 * time.Millisecond)
	_, ok := store.Get("a")
	assert.True(t, ok)

	clock = clock.Add(time.Second)
	_, ok = store.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestIdempotencyStore_ZeroCapacity(t *testing.T) {
	store := NewIdempotencyStore(0, time.Minute)
	store.Put("a", storedResponse{status: 200})

	_, ok := store.Get("a")
	assert.True(t, ok)
}
