package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/reservas-express/internal/model"
)

// MemoryStore is an in-process Store, used when Redis is not configured.
// Entries expire after TTL like the Redis keys do; expired entries are
// swept on write.
type MemoryStore struct {
	TTL time.Duration
	Now func() time.Time

	mu        sync.Mutex
	states    map[Key]memoryEntry
	nextSweep time.Time
}

type memoryEntry struct {
	state   State
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &MemoryStore{TTL: ttl, Now: time.Now, states: make(map[Key]memoryEntry)}
}

func (m *MemoryStore) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *MemoryStore) Get(_ context.Context, key Key) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.states[key]
	if !ok {
		return State{}, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.states, key)
		return State{}, false, nil
	}
	return e.state, true, nil
}

func (m *MemoryStore) Put(_ context.Context, key Key, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if !now.Before(m.nextSweep) {
		for k, e := range m.states {
			if !now.Before(e.expires) {
				delete(m.states, k)
			}
		}
		m.nextSweep = now.Add(m.TTL / 4)
	}
	m.states[key] = memoryEntry{state: s, expires: now.Add(m.TTL)}
	return nil
}

// MemoryLocker is an in-process Locker.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[model.ReservationID]bool
}

func NewMemoryLocker() *MemoryLocker { return &MemoryLocker{held: make(map[model.ReservationID]bool)} }

func (m *MemoryLocker) Acquire(_ context.Context, id model.ReservationID) (func(), bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[id] {
		return func() {}, false, nil
	}
	m.held[id] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.held, id)
			m.mu.Unlock()
		})
	}, true, nil
}
