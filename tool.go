package flowagent

import (
	"context"
	"encoding/json"
	"time"
)

// Tool is the contract for an LLM-callable instrument.
// It is provider-agnostic (no knowledge of OpenAI, Anthropic, etc.).
type Tool interface {
	Name() string
	Description() string
	// Parameters returns a valid JSON Schema as map (compatible with LLM tool definitions).
	Parameters() map[string]any
	// Execute runs the tool with the given JSON arguments and returns the
	// marshaled result. Errors are ClientError or SystemError.
	Execute(ctx context.Context, argsJSON []byte) ([]byte, error)
}

// ToolMetadata is implemented by tools created with NewTool and provides optional per-tool settings.
// Registry uses Timeout() to override the default execution timeout when set. Tags expose
// discovery metadata for orchestration.
type ToolMetadata interface {
	Timeout() time.Duration
	Tags() []string
}

// ToolCall is a single execution request (as produced by the LLM).
type ToolCall struct {
	ID       string
	ToolName string
	Args     json.RawMessage // JSON payload of arguments
}

// ToolResult is the outcome of executing one ToolCall. Exactly one ToolResult
// is produced per call, carrying either the marshaled Result or an Error
// (never both). The CallID equals the originating call's ID.
type ToolResult struct {
	CallID   string
	ToolName string
	Result   json.RawMessage
	Error    error
}
