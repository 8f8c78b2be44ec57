package agents

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverseAPI struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverseAPI) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{Value: brtypes.Message{
			Role:    brtypes.ConversationRoleAssistant,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: text}},
		}},
		StopReason: brtypes.StopReasonEndTurn,
		Usage:      &brtypes.TokenUsage{InputTokens: aws.Int32(12), OutputTokens: aws.Int32(4), TotalTokens: aws.Int32(16)},
	}
}

func TestBedrockLLMClientComplete(t *testing.T) {
	api := &fakeConverseAPI{out: textOutput(" What is a goroutine? ")}
	client := NewBedrockLLMClient(api)

	resp, err := client.Complete(context.Background(), LLMRequest{
		Model:  "anthropic.claude",
		System: []string{"be brief", " "},
		Messages: []ChatMessage{
			{Role: ChatRoleSystem, Content: "extra rules"},
			{Role: ChatRoleUser, Content: "hello"},
			{Role: ChatRoleAssistant, Content: ""},
		},
		MaxTokens:   256,
		Temperature: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, "What is a goroutine?", resp.Text)
	assert.Equal(t, int32(16), resp.Usage.TotalTokens)
	assert.Equal(t, "end_turn", resp.StopReason)

	assert.Equal(t, "anthropic.claude", aws.ToString(api.input.ModelId))
	assert.Len(t, api.input.System, 2)
	assert.Len(t, api.input.Messages, 1)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(256), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
	assert.Nil(t, api.input.InferenceConfig.Temperature)
}

func TestBedrockLLMClientErrors(t *testing.T) {
	client := NewBedrockLLMClient(&fakeConverseAPI{out: textOutput("x")})
	_, err := client.Complete(context.Background(), LLMRequest{Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	assert.Error(t, err, "model id is required")

	_, err = client.Complete(context.Background(), LLMRequest{Model: "m", Messages: []ChatMessage{{Role: "tool", Content: "hi"}}})
	assert.ErrorContains(t, err, "unsupported role")

	empty := NewBedrockLLMClient(&fakeConverseAPI{out: textOutput("  ")})
	_, err = empty.Complete(context.Background(), LLMRequest{Model: "m", Messages: []ChatMessage{{Role: ChatRoleUser, Content: "hi"}}})
	assert.Error(t, err)

	assert.Panics(t, func() { NewBedrockLLMClient(nil) })
}
