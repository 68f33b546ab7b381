package agent

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	flowagent "github.com/dpujaa/flow-agent"
)

// errorPayload is the structured output submitted for a failed tool call.
type errorPayload struct {
	Error string `json:"error"`
}

// Definitions exports the registry's tools as endpoint tool definitions.
func Definitions(reg *flowagent.Registry) []ToolDefinition {
	tools := reg.GetAllTools()
	defs := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

// Run executes one task: it opens a conversation with the prompt and the
// registry's tool definitions, then loops — executing every requested tool
// call sequentially and submitting exactly one output per call in a single
// round-trip — until a response arrives with no tool calls, which is returned
// as-is. Tool execution failures (including unknown tool names) become
// {"error": msg} outputs and the loop continues; endpoint failures abort the
// run and propagate to the caller.
func Run(ctx context.Context, ep Endpoint, reg *flowagent.Registry, prompt string, logger zerolog.Logger) (*Response, error) {
	resp, err := ep.Create(ctx, prompt, Definitions(reg))
	if err != nil {
		return nil, err
	}
	for round := 1; ; round++ {
		calls := resp.ToolCalls()
		if len(calls) == 0 {
			logger.Debug().Int("rounds", round).Msg("task complete")
			return resp, nil
		}
		logger.Debug().Int("round", round).Int("tool_calls", len(calls)).Msg("executing tool calls")

		toolCalls := make([]flowagent.ToolCall, 0, len(calls))
		for _, call := range calls {
			toolCalls = append(toolCalls, flowagent.ToolCall{
				ID:       call.CallID,
				ToolName: call.Name,
				Args:     call.Arguments,
			})
		}

		results := reg.ExecuteBatch(ctx, toolCalls)
		outputs := make([]ToolOutput, 0, len(results))
		for _, res := range results {
			payload := res.Result
			if res.Error != nil {
				logger.Warn().Str("tool", res.ToolName).Str("call_id", res.CallID).Err(res.Error).Msg("tool call failed")
				b, err := json.Marshal(errorPayload{Error: res.Error.Error()})
				if err != nil {
					return nil, err
				}
				payload = b
			}
			outputs = append(outputs, ToolOutput{CallID: res.CallID, Output: payload})
		}

		resp, err = ep.Submit(ctx, outputs)
		if err != nil {
			return nil, err
		}
	}
}
