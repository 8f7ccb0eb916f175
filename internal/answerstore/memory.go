// Package answerstore holds the backends that persist quiz answer sets.
package answerstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// Memory keeps answer sets in process. Entries expire after ttl when ttl is positive.
type Memory struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{data: map[string]memoryEntry{}, ttl: ttl, now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.raw...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, raw []byte) error {
	e := memoryEntry{raw: append([]byte(nil), raw...)}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.data[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
