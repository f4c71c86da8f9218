// Package session stores appointment chat sessions.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/wolfman30/appointment-assistant/internal/appointment"
	"github.com/wolfman30/appointment-assistant/internal/llm"
)

// MemoryStore keeps sessions in process. Entries idle for longer than the
// TTL are dropped on access.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*appointment.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an empty store. A zero ttl keeps sessions forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*appointment.Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*appointment.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appointment.ErrSessionNotFound
	}
	if s.expired(sess) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, appointment.ErrSessionNotFound
	}
	return clone(sess), nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *appointment.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = clone(sess)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) expired(sess *appointment.Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.UpdatedAt) > s.ttl
}

func clone(sess *appointment.Session) *appointment.Session {
	out := *sess
	out.Messages = append([]llm.Message(nil), sess.Messages...)
	out.Fields = sess.Fields.Clone()
	return &out
}

var _ appointment.SessionStore = (*MemoryStore)(nil)
