package appointment

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/internal/notify"
	"github.com/wolfman30/appointment-assistant/internal/records"
)

// scriptedClient answers extraction prompts from a table keyed by the quoted
// user input and answers chat prompts with chatReply.
type scriptedClient struct {
	mu          sync.Mutex
	extractions map[string]string
	summary     string
	extractErr  error
	chatReply   string
	chatErr     error
	chatCalls   int
	requests    []llm.Request
}

func (c *scriptedClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)

	if len(req.Messages) == 0 {
		return llm.Response{}, llm.ErrNoMessages
	}
	switch req.Messages[0].Content {
	case turnExtractionSystem:
		if c.extractErr != nil {
			return llm.Response{}, c.extractErr
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		for input, text := range c.extractions {
			if strings.Contains(prompt, strconv.Quote(input)) {
				return llm.Response{Text: text}, nil
			}
		}
		return llm.Response{Text: "Name: (empty)"}, nil
	case summaryExtractionSystem:
		if c.extractErr != nil {
			return llm.Response{}, c.extractErr
		}
		return llm.Response{Text: c.summary}, nil
	}

	c.chatCalls++
	if c.chatErr != nil {
		return llm.Response{}, c.chatErr
	}
	return llm.Response{Text: c.chatReply}, nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
	err  error
}

func (m *stubMailer) Send(ctx context.Context, msg notify.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type stubRecords struct {
	mu      sync.Mutex
	records []records.Record
	err     error
}

func (s *stubRecords) Append(ctx context.Context, r records.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return s.err
}

type memStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	loadErr  error
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*Session)}
}

func (s *memStore) Load(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *memStore) Save(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sessions[sess.ID] = copySession(sess)
	return nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func copySession(sess *Session) *Session {
	out := *sess
	out.Messages = append([]llm.Message(nil), sess.Messages...)
	out.Fields = sess.Fields.Clone()
	return &out
}

var errBoom = errors.New("boom")
