package llm

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConverseAPI struct {
	out     *bedrockruntime.ConverseOutput
	err     error
	lastReq *bedrockruntime.ConverseInput
}

func (s *stubConverseAPI) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.lastReq = params
	return s.out, s.err
}

func converseText(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage:      &brtypes.TokenUsage{InputTokens: aws.Int32(3), OutputTokens: aws.Int32(4), TotalTokens: aws.Int32(7)},
	}
}

func TestBedrockClient_SplitsSystemMessages(t *testing.T) {
	api := &stubConverseAPI{out: converseText("Name: John Carter")}
	client := NewBedrockClient(api, "anthropic.claude-3-haiku")

	resp, err := client.Complete(context.Background(), Request{Messages: []Message{
		{Role: RoleSystem, Content: "extract"},
		{Role: RoleUser, Content: "I'm John Carter"},
		{Role: RoleAssistant, Content: "Thanks"},
		{Role: RoleUser, Content: "   "},
	}})
	require.NoError(t, err)

	assert.Equal(t, "Name: John Carter", resp.Text)
	assert.Equal(t, int32(7), resp.Usage.TotalTokens)
	assert.Equal(t, "anthropic.claude-3-haiku", aws.ToString(api.lastReq.ModelId))
	assert.Len(t, api.lastReq.System, 1)
	assert.Len(t, api.lastReq.Messages, 2)
	assert.Equal(t, float32(0), aws.ToFloat32(api.lastReq.InferenceConfig.Temperature))
}

func TestBedrockClient_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewBedrockClient(&stubConverseAPI{}, "").Complete(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.Error(t, err)

	_, err = NewBedrockClient(&stubConverseAPI{}, "m").Complete(ctx, Request{Messages: []Message{{Role: RoleSystem, Content: "only system"}}})
	assert.ErrorIs(t, err, ErrNoMessages)

	_, err = NewBedrockClient(&stubConverseAPI{out: converseText(" ")}, "m").Complete(ctx, Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
