package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/internal/observability/metrics"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

var (
	// ErrEmptyInput is returned when a turn carries no text and no reset.
	ErrEmptyInput = errors.New("appointment: input is empty")
	// ErrMissingSessionID is returned when a turn has no session id.
	ErrMissingSessionID = errors.New("appointment: session id is required")
)

const (
	// NewChatReply answers a reset that carries no input.
	NewChatReply = "New chat started. I'm AppointmentBot. What is your full name?"
	// ChatFailureReply stands in for the assistant when the completion fails.
	ChatFailureReply = "Sorry, I'm having trouble responding right now. Please try again in a moment."
)

// contextWindow is how many trailing transcript messages accompany a turn
// extraction.
const contextWindow = 3

// TurnRequest is one inbound chat message.
type TurnRequest struct {
	SessionID string
	Input     string
	Reset     bool
}

// TurnResult is what a turn returns to the caller.
type TurnResult struct {
	SessionID string
	Reply     string
	Messages  []llm.Message
	Fields    Fields
}

// Service drives the appointment conversation.
type Service struct {
	store        SessionStore
	client       llm.Client
	extractor    *Extractor
	confirmer    *Confirmer
	locks        *sessionLocks
	metrics      *metrics.AssistantMetrics
	tracer       trace.Tracer
	logger       *logging.Logger
	now          func() time.Time
	model        string
	temperature  float32
	systemPrompt string
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithModel sets the chat model and temperature passed to the client.
func WithModel(model string, temperature float32) ServiceOption {
	return func(s *Service) {
		s.model = model
		s.temperature = temperature
	}
}

func WithMetrics(m *metrics.AssistantMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) ServiceOption {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSystemPrompt replaces the seed message of new sessions.
func WithSystemPrompt(prompt string) ServiceOption {
	return func(s *Service) {
		if strings.TrimSpace(prompt) != "" {
			s.systemPrompt = prompt
		}
	}
}

func NewService(store SessionStore, client llm.Client, extractor *Extractor, confirmer *Confirmer, logger *logging.Logger, opts ...ServiceOption) *Service {
	if store == nil {
		panic("appointment: session store cannot be nil")
	}
	if client == nil {
		panic("appointment: completion client cannot be nil")
	}
	if extractor == nil {
		panic("appointment: extractor cannot be nil")
	}
	if confirmer == nil {
		panic("appointment: confirmer cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		store:        store,
		client:       client,
		extractor:    extractor,
		confirmer:    confirmer,
		locks:        newSessionLocks(),
		tracer:       otel.Tracer("appointment.internal.appointment"),
		logger:       logger,
		now:          time.Now,
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessTurn runs one chat turn: record the input, extract fields, ask the
// model for a reply and, when the patient confirms, notify and persist.
// Downstream failures degrade the reply instead of failing the turn.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	start := s.now()
	input := strings.TrimSpace(req.Input)
	if req.SessionID == "" {
		s.metrics.ObserveTurn("rejected", 0)
		return nil, ErrMissingSessionID
	}
	if input == "" && !req.Reset {
		s.metrics.ObserveTurn("rejected", 0)
		return nil, ErrEmptyInput
	}

	ctx = logging.WithSessionID(ctx, req.SessionID)
	ctx, span := s.tracer.Start(ctx, "appointment.process_turn",
		trace.WithAttributes(
			attribute.String("appointment.session_id", req.SessionID),
			attribute.Bool("appointment.reset", req.Reset),
		))
	defer span.End()

	unlock := s.locks.lock(req.SessionID)
	defer unlock()

	log := s.logger.ForContext(ctx)

	var sess *Session
	if req.Reset {
		sess = s.reset(ctx, req.SessionID)
		if input == "" {
			s.save(ctx, sess)
			s.metrics.ObserveTurn("reset", s.now().Sub(start).Seconds())
			return s.result(sess, NewChatReply), nil
		}
	} else {
		sess = s.load(ctx, req.SessionID)
	}

	sess.Append(llm.RoleUser, req.Input)

	ext := s.extractor.Extract(ctx, FromTurn(req.Input, sess.Recent(contextWindow)), sess.Fields)
	s.metrics.ObserveExtraction(string(SourceTurn), ext.Fallback)
	log.Debug("extracted appointment data", "changed", ext.Changed, "fields", sess.Fields)

	outcome := "ok"
	reply, err := s.chat(ctx, sess)
	if err != nil {
		span.RecordError(err)
		log.Error("chat completion failed", "error", err)
		reply = ChatFailureReply
		outcome = "chat_error"
	}
	sess.Append(llm.RoleAssistant, reply)

	if strings.Contains(strings.ToLower(req.Input), "confirm") {
		statuses := s.confirmer.Confirm(ctx, reply, sess.Fields)
		log.Info("appointment confirmation handled", "statuses", len(statuses), "fields", sess.Fields.Count())
		reply = reply + "\n\n" + strings.Join(statuses, "\n\n")
		if outcome == "ok" {
			outcome = "confirmed"
		}
	}

	s.save(ctx, sess)
	s.metrics.ObserveTurn(outcome, s.now().Sub(start).Seconds())
	return s.result(sess, reply), nil
}

// Snapshot returns the session as it stands without running a turn. Unknown
// ids yield a freshly seeded session that is not stored.
func (s *Service) Snapshot(ctx context.Context, sessionID string) (*TurnResult, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}
	ctx = logging.WithSessionID(ctx, sessionID)
	ctx, span := s.tracer.Start(ctx, "appointment.snapshot")
	defer span.End()

	sess, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		sess = NewSession(sessionID, s.systemPrompt, s.now())
	} else if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointment: snapshot: %w", err)
	}

	reply := ""
	if n := len(sess.Messages); n > 0 && sess.Messages[n-1].Role == llm.RoleAssistant {
		reply = sess.Messages[n-1].Content
	}
	return s.result(sess, reply), nil
}

func (s *Service) chat(ctx context.Context, sess *Session) (string, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.chat_completion")
	defer span.End()

	messages := make([]llm.Message, len(sess.Messages))
	copy(messages, sess.Messages)

	resp, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("appointment: chat completion: %w", err)
	}
	return resp.Text, nil
}

// load returns the stored session or a fresh one. A store outage is logged
// and the turn continues on a fresh session.
func (s *Service) load(ctx context.Context, id string) *Session {
	sess, err := s.store.Load(ctx, id)
	if err == nil {
		if sess.Fields == nil {
			sess.Fields = Fields{}
		}
		return sess
	}
	if !errors.Is(err, ErrSessionNotFound) {
		s.logger.ForContext(ctx).Warn("session load failed, starting fresh", "error", err)
	}
	return NewSession(id, s.systemPrompt, s.now())
}

func (s *Service) reset(ctx context.Context, id string) *Session {
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.ForContext(ctx).Warn("session reset failed to delete previous state", "error", err)
	}
	return NewSession(id, s.systemPrompt, s.now())
}

func (s *Service) save(ctx context.Context, sess *Session) {
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.ForContext(ctx).Error("session save failed", "error", err)
	}
}

func (s *Service) result(sess *Session, reply string) *TurnResult {
	messages := make([]llm.Message, len(sess.Messages))
	copy(messages, sess.Messages)
	return &TurnResult{
		SessionID: sess.ID,
		Reply:     reply,
		Messages:  messages,
		Fields:    sess.Fields.Clone(),
	}
}
