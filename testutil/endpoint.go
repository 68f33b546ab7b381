package testutil

import (
	"context"
	"errors"

	"github.com/dpujaa/flow-agent/agent"
)

// ScriptedEndpoint is an agent.Endpoint that replays a fixed sequence of
// responses and records everything the loop sends it. Set Err to simulate a
// transport failure on the next round-trip.
type ScriptedEndpoint struct {
	Responses []*agent.Response
	Err       error

	Prompt    string
	Defs      []agent.ToolDefinition
	Submitted [][]agent.ToolOutput

	next int
}

// Create records the prompt and tool definitions and replays the first response.
func (s *ScriptedEndpoint) Create(_ context.Context, prompt string, defs []agent.ToolDefinition) (*agent.Response, error) {
	s.Prompt = prompt
	s.Defs = defs
	return s.advance()
}

// Submit records the outputs and replays the next response.
func (s *ScriptedEndpoint) Submit(_ context.Context, outputs []agent.ToolOutput) (*agent.Response, error) {
	s.Submitted = append(s.Submitted, outputs)
	return s.advance()
}

func (s *ScriptedEndpoint) advance() (*agent.Response, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.next >= len(s.Responses) {
		return nil, errors.New("scripted endpoint exhausted")
	}
	resp := s.Responses[s.next]
	s.next++
	return resp, nil
}

// TextResponse builds a terminal response carrying a single message item.
func TextResponse(id, text string) *agent.Response {
	return &agent.Response{
		ID: id,
		Output: []agent.OutputItem{{
			Type:    agent.ItemMessage,
			Content: []agent.ContentBlock{{Type: agent.BlockOutputText, Text: text}},
		}},
	}
}

// ToolCallResponse builds a response requesting the given tool calls.
func ToolCallResponse(id string, calls ...agent.OutputItem) *agent.Response {
	return &agent.Response{ID: id, Output: calls}
}

// Call builds one tool_call output item.
func Call(callID, name, argsJSON string) agent.OutputItem {
	return agent.OutputItem{
		Type:      agent.ItemToolCall,
		CallID:    callID,
		Name:      name,
		Arguments: []byte(argsJSON),
	}
}

var _ agent.Endpoint = (*ScriptedEndpoint)(nil)
