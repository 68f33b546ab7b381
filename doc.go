// Package flowagent provides the tool engine behind the flow-agent harness:
// registering, describing, and safely executing the local tools an LLM may
// request while working on a task.
//
// # Overview
//
// The model produces tool calls as JSON. This package turns that JSON into
// concrete Go function calls: unmarshal → validate (against the same JSON
// Schema shown to the model) → execute → marshal result or return a clear
// error the model can act on.
//
// Pipeline: Go function + argument struct → NewTool (reflection + schema) →
// Tool → Registry → Execute (unmarshal, validate, call, marshal) → ToolResult.
//
// # Key concepts
//
//   - Single Source of Truth: one set of struct tags drives both the schema
//     sent to the model and the validation of incoming JSON.
//   - One result per request: Registry.Execute always produces a ToolResult,
//     including for unknown tool names, so the caller can answer every call.
//   - Self-Correction: ClientError carries human-readable messages back to
//     the model.
//
// See Tool, ToolCall, ToolResult for the core types, and NewTool /
// NewRegistry for setup.
//
// # Example
//
//	type Args struct { City string `json:"city"` }
//	type Out  struct { Temp float64 `json:"temp"` }
//	tool, err := flowagent.NewTool("weather", "Get weather", func(_ context.Context, a Args) (Out, error) {
//	    return Out{Temp: 22.5}, nil
//	})
//	if err != nil { ... }
//	reg := flowagent.NewRegistry()
//	reg.Register(tool)
//	res := reg.Execute(ctx, flowagent.ToolCall{ID: "1", ToolName: "weather", Args: []byte(`{"city":"Moscow"}`)})
package flowagent
