package session

import (
	"sync"

	"github.com/Sgiath/auth/pkg/idx"
)

// MemoryStore is a map-backed Store. It is what the tests use and is
// good enough for single-process hosts that keep sessions server-side.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
	csrf string
}

// NewMemoryStore returns an empty MemoryStore with a fresh anti-forgery
// token.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]string),
		csrf: idx.New().String(),
	}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Put(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *MemoryStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
}

func (s *MemoryStore) RenewAntiForgeryToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.csrf = idx.New().String()
}

// AntiForgeryToken returns the current CSRF token value.
func (s *MemoryStore) AntiForgeryToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.csrf
}
