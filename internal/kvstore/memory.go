package kvstore

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory keeps values in process. A positive quota bounds the total size of
// all stored values in bytes.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]string
	quota int
}

func NewMemory(quotaBytes int) *Memory {
	return &Memory{data: make(map[string]string), quota: quotaBytes}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	defer observe("memory", "get", time.Now())

	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	defer observe("memory", "set", time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := len(value)
		for k, v := range m.data {
			if k != key {
				size += len(v)
			}
		}
		if size > m.quota {
			return fmt.Errorf("set %q (%d bytes): %w", key, len(value), ErrQuotaExceeded)
		}
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
