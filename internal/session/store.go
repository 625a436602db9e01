package session

import (
	"context"
	"sync"
)

// Store holds at most one active session per subscriber. Get returns
// ErrNoActiveSession when the subscriber has none; backend faults come back
// as *StoreError. Implementations must make each call atomic per key; the
// Engine serializes whole read-modify-write sequences on top of that.
type Store interface {
	Get(ctx context.Context, subscriber string) (Session, error)
	Put(ctx context.Context, subscriber string, s Session) error
	Delete(ctx context.Context, subscriber string) error
}

// ResultLog records completed quizzes.
type ResultLog interface {
	RecordResult(ctx context.Context, r Result) error
}

// MemoryStore is the in-process Store backend: a mutex-guarded map keyed by
// subscriber id. It also keeps completed results for inspection in tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	results  []Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
	}
}

func (m *MemoryStore) Get(_ context.Context, subscriber string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[subscriber]
	if !ok {
		return Session{}, ErrNoActiveSession
	}
	return s, nil
}

func (m *MemoryStore) Put(_ context.Context, subscriber string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[subscriber] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, subscriber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, subscriber)
	return nil
}

func (m *MemoryStore) RecordResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, r)
	return nil
}

// Results returns a copy of the recorded completions.
func (m *MemoryStore) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}
