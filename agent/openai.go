package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIOptions configure an OpenAI-backed endpoint.
type OpenAIOptions struct {
	APIKey    string
	Model     string
	WebSearch bool // expose the provider-native web-search capability
}

// OpenAIEndpoint is an Endpoint backed by the OpenAI chat completions API.
// It owns the conversation: every round-trip appends to the message history in
// place, so a new round sees the effects of the previous tool executions. One
// OpenAIEndpoint serves one task invocation; it is not safe for concurrent use.
type OpenAIEndpoint struct {
	client    openai.Client
	model     string
	webSearch bool
	messages  []openai.ChatCompletionMessageParamUnion
	tools     []openai.ChatCompletionToolParam
}

// NewOpenAI creates an OpenAI endpoint for a single conversation.
func NewOpenAI(opts OpenAIOptions) *OpenAIEndpoint {
	return &OpenAIEndpoint{
		client:    openai.NewClient(option.WithAPIKey(opts.APIKey)),
		model:     opts.Model,
		webSearch: opts.WebSearch,
	}
}

// Create starts the conversation with the user prompt and the tool set, and
// performs the first round-trip.
func (e *OpenAIEndpoint) Create(ctx context.Context, prompt string, tools []ToolDefinition) (*Response, error) {
	e.messages = []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}
	e.tools = make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, def := range tools {
		e.tools = append(e.tools, openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(def.Parameters),
			},
		})
	}
	return e.roundTrip(ctx)
}

// Submit feeds one output per pending tool call back into the conversation
// (correlated by tool call id) and performs the next round-trip.
func (e *OpenAIEndpoint) Submit(ctx context.Context, outputs []ToolOutput) (*Response, error) {
	for _, out := range outputs {
		e.messages = append(e.messages, openai.ToolMessage(string(out.Output), out.CallID))
	}
	return e.roundTrip(ctx)
}

func (e *OpenAIEndpoint) roundTrip(ctx context.Context) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(e.model),
		Messages: e.messages,
	}
	if len(e.tools) > 0 {
		params.Tools = e.tools
	}
	if e.webSearch {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{}
	}

	completion, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("openai: no response choices returned")
	}
	choice := completion.Choices[0]
	e.messages = append(e.messages, choice.Message.ToParam())
	return decodeMessage(completion.ID, choice.Message), nil
}

// decodeMessage converts an assistant message into the tagged output-item
// model: text content becomes a message item with one output_text block, and
// each tool call becomes a tool_call item.
func decodeMessage(id string, msg openai.ChatCompletionMessage) *Response {
	resp := &Response{ID: id}
	if msg.Content != "" {
		resp.Output = append(resp.Output, OutputItem{
			Type:    ItemMessage,
			Content: []ContentBlock{{Type: BlockOutputText, Text: msg.Content}},
		})
	}
	for _, tc := range msg.ToolCalls {
		resp.Output = append(resp.Output, OutputItem{
			Type:      ItemToolCall,
			CallID:    tc.ID,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}
	return resp
}

var _ Endpoint = (*OpenAIEndpoint)(nil)
