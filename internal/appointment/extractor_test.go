package appointment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/appointment-assistant/internal/llm"
)

func TestExtractorTurnMergesModelFields(t *testing.T) {
	client := &scriptedClient{extractions: map[string]string{
		"I'm Jane, cardiology please": "Name: Jane\nDepartment: Cardiology\nDoctor: (empty if not found)",
	}}
	ex := NewExtractor(client, nil, "gpt-4", nil)
	fields := Fields{FieldEmail: "jane@example.com"}

	recent := []llm.Message{{Role: llm.RoleUser, Content: "I'm Jane, cardiology please"}}
	res := ex.Extract(context.Background(), FromTurn("I'm Jane, cardiology please", recent), fields)

	require.NoError(t, res.Err)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{FieldName, FieldDepartment}, res.Changed)
	assert.Equal(t, Fields{FieldName: "Jane", FieldDepartment: "Cardiology", FieldEmail: "jane@example.com"}, fields)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	assert.Equal(t, "gpt-4", req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[1].Content, "user: I'm Jane, cardiology please")
}

func TestExtractorFallbackClassifiesSingleLine(t *testing.T) {
	client := &scriptedClient{extractErr: errBoom}
	ex := NewExtractor(client, NewClassifier(), "", nil)
	fields := Fields{}

	res := ex.Extract(context.Background(), FromTurn("jane@example.com", nil), fields)

	assert.True(t, res.Fallback)
	assert.ErrorIs(t, res.Err, errBoom)
	assert.Equal(t, []string{FieldEmail}, res.Changed)
	assert.Equal(t, "jane@example.com", fields.Get(FieldEmail))
}

func TestExtractorFallbackParsesSummary(t *testing.T) {
	client := &scriptedClient{extractErr: errBoom}
	ex := NewExtractor(client, nil, "", nil)
	fields := Fields{}

	summary := "Here is the summary:\n- Full Name: Jane Doe\n- Email: jane@example.com\nDo you want to confirm?"
	res := ex.Extract(context.Background(), FromSummary(summary), fields)

	assert.True(t, res.Fallback)
	assert.ElementsMatch(t, []string{FieldName, FieldEmail}, res.Changed)
	assert.Equal(t, "Jane Doe", fields.Get(FieldName))
}

func TestExtractorFallbackIgnoresUnstructuredMultiline(t *testing.T) {
	client := &scriptedClient{extractErr: errBoom}
	ex := NewExtractor(client, nil, "", nil)
	fields := Fields{}

	res := ex.Extract(context.Background(), FromSummary("Thanks for the details.\nAnything else?"), fields)

	assert.True(t, res.Fallback)
	assert.Empty(t, res.Changed)
	assert.Empty(t, fields)
}

func TestExtractorFallbackClassifiesWholeTurn(t *testing.T) {
	client := &scriptedClient{extractErr: errBoom}
	ex := NewExtractor(client, NewClassifier(), "", nil)

	fields := Fields{}
	res := ex.Extract(context.Background(), FromTurn("John\nCarter", nil), fields)
	assert.Equal(t, []string{FieldName}, res.Changed)
	assert.Equal(t, "John\nCarter", fields.Get(FieldName))

	// a user turn shaped like a model answer is still classified as a whole
	fields = Fields{}
	res = ex.Extract(context.Background(), FromTurn("Email: jane@example.com", nil), fields)
	assert.Equal(t, []string{FieldEmail}, res.Changed)
	assert.Equal(t, "Email: jane@example.com", fields.Get(FieldEmail))
}

func TestExtractorFallbackStoresRawTurn(t *testing.T) {
	client := &scriptedClient{extractErr: errBoom}
	ex := NewExtractor(client, NewClassifier(), "", nil)
	fields := Fields{}

	ex.Extract(context.Background(), FromTurn("  call 9876543210987 ", nil), fields)

	assert.Equal(t, "call 9876543210987", fields.Get(FieldMobile))
}

func TestNewExtractorPanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() { NewExtractor(nil, nil, "", nil) })
}
