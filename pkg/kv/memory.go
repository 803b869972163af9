package kv

import (
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in tests and as a fallback for
// local development when no Redis URL is configured. Expiries are
// recorded but never enforced.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte
	expiry  map[string]time.Duration
	lists   map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: map[string][]byte{},
		expiry:  map[string]time.Duration{},
		lists:   map[string][]string{},
	}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.records[key] = stored
	s.expiry[key] = duration
	return nil
}

func (s *MemoryStore) Del(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	delete(s.expiry, key)
	return nil
}

func (s *MemoryStore) ListPush(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append([]string{value}, s.lists[key]...)
	return nil
}

func (s *MemoryStore) ListRange(key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	length := int64(len(list))
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop >= length {
		stop = length - 1
	}
	if length == 0 || start > stop || start >= length {
		return nil, nil
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

func (s *MemoryStore) ListRem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []string
	for _, v := range s.lists[key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	s.lists[key] = kept
	return nil
}

// Expiry reports the duration recorded by the last Set for key. Tests
// use it to verify expiry refresh behavior.
func (s *MemoryStore) Expiry(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry[key]
}
