package kv

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is an in-process Store. It also satisfies the API's idempotency store
// contract, so the server can run without Redis.
type Memory struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	if !ok {
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryEntry{value: value}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// SetNX stores value only when key is absent or expired.
func (m *Memory) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	entry := memoryEntry{value: fmt.Sprint(value)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return true, nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		_ = m.Delete(ctx, key)
	}
	return nil
}

// IncrWithTTL increments the counter at key, starting a ttl window on the
// first increment. An expired window restarts at 1.
func (m *Memory) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	var count int64
	if ok {
		n, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("kv: %s does not hold a counter", key)
		}
		count = n
	} else if ttl > 0 {
		entry = memoryEntry{expiresAt: m.now().Add(ttl)}
	}
	count++
	entry.value = strconv.FormatInt(count, 10)
	m.data[key] = entry
	return count, nil
}

func (m *Memory) RateLimitKey(scope string) string {
	return strings.Join([]string{"rate_limit", scope}, ":")
}

func (m *Memory) IdempotencyKey(scope, id string) string {
	return strings.Join([]string{"idempotency", scope, id}, ":")
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) lookup(key string) (memoryEntry, bool) {
	entry, ok := m.data[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.data, key)
		return memoryEntry{}, false
	}
	return entry, true
}
