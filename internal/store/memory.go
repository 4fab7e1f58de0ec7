package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Memory is the in-process Store backend. It is the default for a
// single storefront session and the workhorse for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("store: corrupt value at %q treated as absent: %v", key, err)
		return false, nil
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}

	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}
