// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the encoded collection in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	found bool
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored bytes.
func (s *MemoryStore) Load(_ context.Context) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.data), s.found, nil
}

// Save replaces the stored bytes with a copy of data.
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = slices.Clone(data)
	s.found = true
	return nil
}
