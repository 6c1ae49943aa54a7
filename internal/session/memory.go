package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemoryRepository keeps sessions in process memory. Sessions are lost on
// restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	opts     Options
	now      func() time.Time
}

func NewMemoryRepository(opts Options) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]memoryEntry),
		opts:     opts,
		now:      time.Now,
	}
}

func (m *MemoryRepository) Get(r *http.Request) (Session, error) {
	id, ok := readID(r)
	if !ok {
		return Session{}, ErrNoSession
	}

	m.mu.RLock()
	entry, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrNoSession
	}

	if m.now().After(entry.expires) {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return Session{}, ErrNoSession
	}
	return entry.session, nil
}

// Set always issues a new id so a pre-login id is never reused.
func (m *MemoryRepository) Set(w http.ResponseWriter, r *http.Request, s Session) error {
	id := uuid.NewString()

	m.mu.Lock()
	if old, ok := readID(r); ok {
		delete(m.sessions, old)
	}
	m.sessions[id] = memoryEntry{session: s, expires: m.now().Add(m.opts.ttl())}
	m.mu.Unlock()

	writeID(w, id, m.opts)
	return nil
}

func (m *MemoryRepository) Clear(w http.ResponseWriter, r *http.Request) error {
	if id, ok := readID(r); ok {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
	}
	expireID(w, m.opts)
	return nil
}

func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
