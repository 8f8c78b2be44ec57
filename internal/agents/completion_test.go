package agents

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{`{"a":1}`, `{"a":1}`, true},
		{"Sure!\n```json\n{\"a\":{\"b\":2}}\n```\nDone.", `{"a":{"b":2}}`, true},
		{"no braces", "", false},
		{"} backwards {", "", false},
	}
	for _, tc := range cases {
		got, ok := extractJSON(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestLooksLikeJSON(t *testing.T) {
	assert.True(t, looksLikeJSON(`  {"x":1}`))
	assert.True(t, looksLikeJSON("```json"))
	assert.False(t, looksLikeJSON("Tell me about {braces}"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 80))
	assert.Equal(t, "абв...", truncate("абвгд", 3))
}

func TestCompleterRequestShape(t *testing.T) {
	llm := &stubLLMClient{response: LLMResponse{Text: "  hello  ", Usage: TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}}
	c := &completer{client: llm, model: "m", temperature: 0.3, maxTokens: 100, logger: testLogger()}

	before := testutil.ToFloat64(llmTokensTotal.WithLabelValues("unit", "total"))
	text, err := c.text(context.Background(), "unit", "system prompt", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, []string{"system prompt"}, llm.lastReq.System)
	require.Len(t, llm.lastReq.Messages, 1)
	assert.Equal(t, ChatRoleUser, llm.lastReq.Messages[0].Role)
	assert.Equal(t, int32(100), llm.lastReq.MaxTokens)
	assert.Equal(t, before+15, testutil.ToFloat64(llmTokensTotal.WithLabelValues("unit", "total")))
}

func TestCompleterErrors(t *testing.T) {
	c := &completer{client: &stubLLMClient{err: errors.New("boom")}, logger: testLogger()}
	_, err := c.text(context.Background(), "unit", "p", "")
	assert.ErrorContains(t, err, "boom")

	c = &completer{client: &stubLLMClient{response: LLMResponse{Text: "   "}}, logger: testLogger()}
	_, err = c.text(context.Background(), "unit", "p", "")
	assert.Error(t, err)

	before := testutil.ToFloat64(llmParseFailures.WithLabelValues("unit_parse"))
	c = &completer{client: &stubLLMClient{response: LLMResponse{Text: "plain"}}, logger: testLogger()}
	var out map[string]any
	err = c.structured(context.Background(), "unit_parse", "p", "", &out)
	assert.ErrorIs(t, err, ErrNoJSON)
	assert.Equal(t, before+1, testutil.ToFloat64(llmParseFailures.WithLabelValues("unit_parse")))
}
