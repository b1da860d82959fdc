// Package tempstore keeps form payloads that are waiting for payment.
package tempstore

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	domainrepos "citizen-portal.backend/internal/domain/repositories"
)

// DefaultTTL bounds how long an unpaid form is kept.
const DefaultTTL = 1 * time.Hour

// Memory is a process-local TempDataStore. Expired entries are swept on every Put rather than
// by a janitor goroutine, and an entry is removed on its first read.
type Memory struct {
	mu sync.Mutex
	c  *cache.Cache
}

// NewMemory returns an in-memory store whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{c: cache.New(ttl, 0)}
}

func (m *Memory) Put(_ context.Context, id string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c.DeleteExpired()
	m.c.SetDefault(id, append([]byte(nil), payload...))
	return nil
}

func (m *Memory) Take(_ context.Context, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.c.Get(id)
	if !ok {
		return nil, domainrepos.ErrTempDataNotFound
	}
	m.c.Delete(id)
	return v.([]byte), nil
}

// Len reports the number of stored entries, including expired ones not yet swept.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}
