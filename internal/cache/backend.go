package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/feral-file/ff-card-indexer/internal/adapter"
)

// Backend is the byte-level key/value store behind the read cache
//
//go:generate mockgen -source=backend.go -destination=../mocks/cache_backend.go -package=mocks -mock_names=Backend=MockCacheBackend
type Backend interface {
	// Get returns the value of key; false when absent or expired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes keys
	Delete(ctx context.Context, keys []string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// memoryBackend keeps entries in process memory; expired entries are dropped on read
type memoryBackend struct {
	clock adapter.Clock

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryBackend creates an in-process backend
func NewMemoryBackend(clock adapter.Clock) Backend {
	return &memoryBackend{
		clock:   clock,
		entries: make(map[string]memoryEntry),
	}
}

func (b *memoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !b.clock.Now().Before(entry.expiresAt) {
		b.mu.Lock()
		// re-check, a writer may have refreshed the entry meanwhile
		if current, ok := b.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(b.entries, key)
		}
		b.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

func (b *memoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key] = memoryEntry{value: value, expiresAt: b.clock.Now().Add(ttl)}
	return nil
}

func (b *memoryBackend) Delete(_ context.Context, keys []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range keys {
		delete(b.entries, k)
	}
	return nil
}

func (b *memoryBackend) DeletePrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k := range b.entries {
		if strings.HasPrefix(k, prefix) {
			delete(b.entries, k)
		}
	}
	return nil
}

// redisBackend shares entries across instances
type redisBackend struct {
	client adapter.RedisClient
}

// NewRedisBackend creates a backend on top of a redis client
func NewRedisBackend(client adapter.RedisClient) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return b.client.Get(ctx, key)
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl)
}

func (b *redisBackend) Delete(ctx context.Context, keys []string) error {
	return b.client.Del(ctx, keys)
}

func (b *redisBackend) DeletePrefix(ctx context.Context, prefix string) error {
	keys, err := b.client.Keys(ctx, escapeGlob(prefix)+"*")
	if err != nil {
		return err
	}
	return b.client.Del(ctx, keys)
}

func escapeGlob(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`).Replace(s)
}
