package agent

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage_TextOnly(t *testing.T) {
	t.Parallel()
	msg := openai.ChatCompletionMessage{Content: "hello there"}
	resp := decodeMessage("cmpl_1", msg)
	assert.Equal(t, "cmpl_1", resp.ID)
	require.Len(t, resp.Output, 1)
	item := resp.Output[0]
	assert.Equal(t, ItemMessage, item.Type)
	require.Len(t, item.Content, 1)
	assert.Equal(t, BlockOutputText, item.Content[0].Type)
	assert.Equal(t, "hello there", item.Content[0].Text)
	assert.Empty(t, resp.ToolCalls())
}

func TestDecodeMessage_ToolCalls(t *testing.T) {
	t.Parallel()
	msg := openai.ChatCompletionMessage{
		ToolCalls: []openai.ChatCompletionMessageToolCall{
			{
				ID: "call_1",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      "fetch_url",
					Arguments: `{"url": "https://example.com"}`,
				},
			},
			{
				ID: "call_2",
				Function: openai.ChatCompletionMessageToolCallFunction{
					Name:      "analyze_csv",
					Arguments: `{"csv": "a,b\n1,2"}`,
				},
			},
		},
	}
	resp := decodeMessage("cmpl_2", msg)
	calls := resp.ToolCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "call_1", calls[0].CallID)
	assert.Equal(t, "fetch_url", calls[0].Name)
	assert.JSONEq(t, `{"url": "https://example.com"}`, string(calls[0].Arguments))
	assert.Equal(t, "call_2", calls[1].CallID)
	assert.Equal(t, "analyze_csv", calls[1].Name)
}

func TestDecodeMessage_TextAndToolCalls(t *testing.T) {
	t.Parallel()
	msg := openai.ChatCompletionMessage{
		Content: "let me check",
		ToolCalls: []openai.ChatCompletionMessageToolCall{
			{ID: "call_1", Function: openai.ChatCompletionMessageToolCallFunction{Name: "fetch_url", Arguments: `{}`}},
		},
	}
	resp := decodeMessage("cmpl_3", msg)
	require.Len(t, resp.Output, 2)
	assert.Equal(t, ItemMessage, resp.Output[0].Type)
	assert.Equal(t, ItemToolCall, resp.Output[1].Type)
	assert.Equal(t, "let me check", ExtractText(resp))
}

func TestDecodeMessage_Empty(t *testing.T) {
	t.Parallel()
	resp := decodeMessage("cmpl_4", openai.ChatCompletionMessage{})
	assert.Empty(t, resp.Output)
	assert.Equal(t, "", ExtractText(resp))
}
