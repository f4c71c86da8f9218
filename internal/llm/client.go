// Package llm wraps the text-generation providers used for chat replies and
// field extraction behind a single stateless Client.
package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	// ErrNoMessages is returned when a request carries nothing to complete.
	ErrNoMessages = errors.New("llm: at least one message is required")
	// ErrEmptyCompletion is returned when a provider answers without text.
	ErrEmptyCompletion = errors.New("llm: provider returned no text")
)

// Message is one role-tagged entry of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TokenUsage struct {
	InputTokens  int32
	OutputTokens int32
	TotalTokens  int32
}

// Request is an ordered message list plus sampling options. An empty Model
// means the client's configured default.
type Request struct {
	Model       string
	Messages    []Message
	MaxTokens   int32
	Temperature float32
}

type Response struct {
	Text       string
	Usage      TokenUsage
	StopReason string
}

// Client produces one completion for an ordered message list.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// splitSystem separates system messages from the dialogue turns.
func splitSystem(messages []Message) (system []string, dialogue []Message) {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		dialogue = append(dialogue, msg)
	}
	return system, dialogue
}
