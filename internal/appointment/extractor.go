package appointment

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/appointment-assistant/internal/llm"
	"github.com/wolfman30/appointment-assistant/pkg/logging"
)

// SourceKind tells the extractor what kind of text it is reading.
type SourceKind string

const (
	SourceTurn    SourceKind = "turn"
	SourceSummary SourceKind = "summary"
)

// Source is text to extract appointment fields from.
type Source struct {
	Kind    SourceKind
	Text    string
	Context []llm.Message
}

// FromTurn extracts from a user input with recent transcript context.
func FromTurn(input string, context []llm.Message) Source {
	return Source{Kind: SourceTurn, Text: input, Context: context}
}

// FromSummary extracts from an assistant summary.
func FromSummary(text string) Source {
	return Source{Kind: SourceSummary, Text: text}
}

// Extraction is the outcome of one Extract call.
type Extraction struct {
	Changed  []string
	Fallback bool
	Err      error
}

// Extractor pulls appointment fields out of free text with the completion
// client, falling back to local parsing when the call fails.
type Extractor struct {
	client     llm.Client
	classifier *Classifier
	model      string
	logger     *logging.Logger
}

// NewExtractor wires an extractor. model may be empty for the client default.
func NewExtractor(client llm.Client, classifier *Classifier, model string, logger *logging.Logger) *Extractor {
	if client == nil {
		panic("appointment: completion client cannot be nil")
	}
	if classifier == nil {
		classifier = NewClassifier()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{client: client, classifier: classifier, model: model, logger: logger}
}

// Extract merges the fields found in src into fields.
func (e *Extractor) Extract(ctx context.Context, src Source, fields Fields) Extraction {
	found, err := e.complete(ctx, src)
	if err == nil {
		return Extraction{Changed: fields.Merge(found)}
	}

	e.logger.ForContext(ctx).Warn("field extraction failed, using local fallback",
		"source", string(src.Kind),
		"error", err,
	)
	return Extraction{Changed: e.fallback(src, fields), Fallback: true, Err: err}
}

func (e *Extractor) complete(ctx context.Context, src Source) (Fields, error) {
	var system, prompt string
	switch src.Kind {
	case SourceSummary:
		system, prompt = summaryExtractionSystem, summaryExtractionPrompt(src.Text)
	default:
		system, prompt = turnExtractionSystem, turnExtractionPrompt(src.Text, src.Context)
	}

	resp, err := e.client.Complete(ctx, llm.Request{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("appointment: extract %s: %w", src.Kind, err)
	}
	return ParseFields(resp.Text), nil
}

// fallback classifies a user turn as a whole. A summary is read for
// structured lines first and only single-line summaries reach the classifier.
func (e *Extractor) fallback(src Source, fields Fields) []string {
	text := src.Text
	if src.Kind == SourceSummary {
		if changed := fields.Merge(ParseFields(text)); len(changed) > 0 {
			return changed
		}
		if strings.Contains(strings.TrimSpace(text), "\n") {
			return nil
		}
	}
	if key, ok := e.classifier.Apply(fields, text); ok {
		return []string{key}
	}
	return nil
}
