package appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/appointment-assistant/internal/llm"
)

// ErrSessionNotFound is returned by a SessionStore for unknown ids.
var ErrSessionNotFound = errors.New("appointment: session not found")

// Session is one caller's transcript and accumulated fields.
type Session struct {
	ID        string        `json:"id"`
	Messages  []llm.Message `json:"messages"`
	Fields    Fields        `json:"fields"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession returns a session seeded with the system prompt.
func NewSession(id, systemPrompt string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Messages:  []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
		Fields:    Fields{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message to the transcript.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, llm.Message{Role: role, Content: content})
}

// Recent returns up to n trailing messages.
func (s *Session) Recent(n int) []llm.Message {
	if n <= 0 || len(s.Messages) == 0 {
		return nil
	}
	start := len(s.Messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]llm.Message, len(s.Messages)-start)
	copy(out, s.Messages[start:])
	return out
}

// SessionStore persists sessions by id.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

// sessionLocks serialises turns that share a session id.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
