// Package agent drives one task to completion against a model endpoint: it
// sends the prompt with the registry's tool definitions, executes requested
// tool calls locally, and feeds the outputs back until the endpoint returns a
// response with no pending calls.
package agent

import (
	"context"
	"encoding/json"
)

// ItemType tags an output item in an endpoint response.
type ItemType string

// Output item types. The endpoint implementation decodes provider responses
// into these explicitly instead of probing attributes at traversal time.
const (
	ItemMessage       ItemType = "message"
	ItemToolCall      ItemType = "tool_call"
	ItemOutputText    ItemType = "output_text"
	ItemText          ItemType = "text"
	ItemWebSearchCall ItemType = "web_search_call"
)

// Content block types inside a message item.
const (
	BlockOutputText = "output_text"
	BlockText       = "text"
)

// ContentBlock is one content entry of a message item. Depending on the
// endpoint schema version the text lives in Text or in Value; readers prefer
// Text and fall back to Value.
type ContentBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
}

// OutputItem is one entry of a response's ordered output sequence. Which
// fields are populated depends on Type: Content for message items; CallID,
// Name and Arguments for tool_call items; Text/Value for bare text items.
type OutputItem struct {
	Type    ItemType       `json:"type"`
	Content []ContentBlock `json:"content,omitempty"`

	CallID    string          `json:"call_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`

	Text  string `json:"text,omitempty"`
	Value string `json:"value,omitempty"`
}

// Response is one endpoint round-trip result: an ordered sequence of output
// items tied to the conversation the endpoint maintains.
type Response struct {
	ID     string       `json:"id"`
	Output []OutputItem `json:"output"`
}

// ToolCalls returns the tool_call items of the response in document order.
func (r *Response) ToolCalls() []OutputItem {
	var calls []OutputItem
	for _, item := range r.Output {
		if item.Type == ItemToolCall {
			calls = append(calls, item)
		}
	}
	return calls
}

// ToolDefinition is the schema of one local tool as exposed to the endpoint.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolOutput is one executed tool call's output, correlated to the request by
// CallID. Output is either the tool's success payload or an {"error": msg}
// descriptor.
type ToolOutput struct {
	CallID string
	Output json.RawMessage
}

// Endpoint is one conversation with the model service. Implementations own
// the conversation state: Create starts it with the user prompt and the tool
// definitions, Submit feeds back one output per pending tool call and yields
// the next response. Construct a fresh Endpoint per task invocation.
type Endpoint interface {
	Create(ctx context.Context, prompt string, tools []ToolDefinition) (*Response, error)
	Submit(ctx context.Context, outputs []ToolOutput) (*Response, error)
}
