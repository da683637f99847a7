package conversation

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     *State
	expiresAt time.Time // Нулевое значение = без срока
}

// MemoryStore хранит состояния в памяти процесса
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*memoryEntry // identity -> состояние
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore создаёт хранилище. ttl <= 0 отключает истечение
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*memoryEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock подменяет источник текущего времени
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Load(_ context.Context, identity string) (*State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.states[identity]
	if !exists || s.expired(entry) {
		return nil, false, nil
	}
	// Возвращаем копию, чтобы изменения вне хранилища не протекали без Save
	return entry.state.Clone(), true, nil
}

func (s *MemoryStore) Save(_ context.Context, identity string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{state: state.Clone()}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.states[identity] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.states, identity)
	return nil
}

// Sweep удаляет истёкшие состояния и возвращает их количество
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for identity, entry := range s.states {
		if s.expired(entry) {
			delete(s.states, identity)
			removed++
		}
	}
	return removed
}

// Len количество хранимых состояний
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *MemoryStore) expired(entry *memoryEntry) bool {
	return !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt)
}
