package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Store is the keyed session state backend. Implementations must treat an
// expired session as absent on Get (deleting it as a side effect) and must
// hand out exclusive per-id locks via Acquire so concurrent requests for the
// same id serialize their load-mutate-persist cycle.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	GetOrCreate(ctx context.Context, id, personaKey string) (*Session, bool, error)
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Acquire(ctx context.Context, id string) (release func(), err error)
}

// MemoryStore is the in-process Store. Per-id serialization is a keyed
// mutex; lazy expiry happens on Get. Reads hand out clones so a lock-free
// reader never observes a session mid-mutation.
type MemoryStore struct {
	timeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	locks    map[string]*sync.Mutex

	now func() time.Time // swapped in tests
}

func NewMemoryStore(timeout time.Duration) *MemoryStore {
	return &MemoryStore{
		timeout:  timeout,
		sessions: make(map[string]*Session),
		locks:    make(map[string]*sync.Mutex),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Expired(m.timeout, m.now()) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, id, personaKey string) (*Session, bool, error) {
	if s, err := m.Get(ctx, id); err == nil {
		return s, false, nil
	}

	s := New(id, personaKey, m.now())
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s.Clone(), true, nil
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	s.LastActiveAt = m.now()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions), nil
}

// Acquire blocks until the per-id lock is held. Lock entries are retained
// for the life of the process; session cardinality is bounded by the
// upstream platform.
func (m *MemoryStore) Acquire(ctx context.Context, id string) (func(), error) {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock, nil
}
