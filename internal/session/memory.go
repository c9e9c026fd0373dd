package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is a process-local store bounded by entry count and idle TTL.
type MemoryStore struct {
	values *expirable.LRU[string, []byte]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		values: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (m *MemoryStore) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	value, ok := m.values.Get(memoryKey(sessionID, key))
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, sessionID, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values.Add(memoryKey(sessionID, key), stored)
	return nil
}

func (m *MemoryStore) Len() int {
	return m.values.Len()
}

func memoryKey(sessionID, key string) string {
	return sessionID + "/" + key
}
