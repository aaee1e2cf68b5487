package lockout

import (
	"context"
	"sync"
	"time"
)

// MemoryStore хранит записи о попытках в процессной карте.
// Подходит для одного экземпляра сервиса; при нескольких экземплярах
// нужен RedisStore, иначе счётчики разъезжаются.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time // Подменяется в тестах
}

type memoryEntry struct {
	attempt  Attempt
	deadline time.Time
}

// NewMemoryStore создает пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get возвращает запись по ключу либо nil, если записи нет или её TTL истёк.
func (s *MemoryStore) Get(_ context.Context, key string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.deadline) {
		delete(s.entries, key)
		return nil, nil
	}
	attempt := entry.attempt
	return &attempt, nil
}

// Set сохраняет запись с заданным TTL.
func (s *MemoryStore) Set(_ context.Context, key string, attempt *Attempt, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		attempt:  *attempt,
		deadline: s.now().Add(ttl),
	}
	return nil
}

// Delete удаляет запись по ключу. Отсутствие записи не считается ошибкой.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
