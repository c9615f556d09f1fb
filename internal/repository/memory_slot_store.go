package repository

import (
	"context"
	"sync"
)

// MemorySlotStore keeps slots in process memory.
type MemorySlotStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemorySlotStore returns an empty store.
func NewMemorySlotStore() *MemorySlotStore {
	return &MemorySlotStore{slots: make(map[string]string)}
}

func (s *MemorySlotStore) Load(_ context.Context, slot string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[slot]
	return v, ok, nil
}

func (s *MemorySlotStore) Save(_ context.Context, slot, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = value
	return nil
}

func (s *MemorySlotStore) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}

// Len reports the number of occupied slots.
func (s *MemorySlotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}
