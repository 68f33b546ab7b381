package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flowagent "github.com/dpujaa/flow-agent"
	"github.com/dpujaa/flow-agent/agent"
	"github.com/dpujaa/flow-agent/testutil"
	"github.com/dpujaa/flow-agent/tools"
)

func addTool(t *testing.T) flowagent.Tool {
	t.Helper()
	type args struct {
		A int `json:"a"`
		B int `json:"b"`
	}
	type out struct {
		Sum int `json:"sum"`
	}
	tool, err := flowagent.NewTool("add", "Add two integers", func(_ context.Context, a args) (out, error) {
		return out{Sum: a.A + a.B}, nil
	})
	require.NoError(t, err)
	return tool
}

func TestRun_TerminalOnFirstResponse(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{testutil.TextResponse("resp_1", "done")},
	}
	resp, err := agent.Run(context.Background(), ep, reg, "hello", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "done", agent.ExtractText(resp))
	assert.Equal(t, "hello", ep.Prompt)
	require.Len(t, ep.Defs, 1)
	assert.Equal(t, "add", ep.Defs[0].Name)
	assert.Empty(t, ep.Submitted)
}

func TestRun_ToolRound(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{
			testutil.ToolCallResponse("resp_1", testutil.Call("call_1", "add", `{"a": 1, "b": 2}`)),
			testutil.TextResponse("resp_2", "the sum is 3"),
		},
	}
	resp, err := agent.Run(context.Background(), ep, reg, "add 1 and 2", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "the sum is 3", agent.ExtractText(resp))
	require.Len(t, ep.Submitted, 1)
	require.Len(t, ep.Submitted[0], 1)
	out := ep.Submitted[0][0]
	assert.Equal(t, "call_1", out.CallID)
	assert.JSONEq(t, `{"sum":3}`, string(out.Output))
}

func TestRun_UnknownToolBecomesErrorOutput(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{
			testutil.ToolCallResponse("resp_1",
				testutil.Call("call_1", "subtract", `{}`),
				testutil.Call("call_2", "add", `{"a": 2, "b": 2}`),
			),
			testutil.TextResponse("resp_2", "recovered"),
		},
	}
	resp, err := agent.Run(context.Background(), ep, reg, "subtract", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "recovered", agent.ExtractText(resp))
	require.Len(t, ep.Submitted, 1)
	require.Len(t, ep.Submitted[0], 2)

	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(ep.Submitted[0][0].Output, &payload))
	assert.Contains(t, payload.Error, "unknown tool: subtract")
	assert.JSONEq(t, `{"sum":4}`, string(ep.Submitted[0][1].Output))
}

func TestRun_MultipleRounds(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{
			testutil.ToolCallResponse("resp_1", testutil.Call("call_1", "add", `{"a": 1, "b": 1}`)),
			testutil.ToolCallResponse("resp_2", testutil.Call("call_2", "add", `{"a": 2, "b": 2}`)),
			testutil.TextResponse("resp_3", "done"),
		},
	}
	resp, err := agent.Run(context.Background(), ep, reg, "chain", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "done", agent.ExtractText(resp))
	require.Len(t, ep.Submitted, 2)
	assert.Equal(t, "call_1", ep.Submitted[0][0].CallID)
	assert.Equal(t, "call_2", ep.Submitted[1][0].CallID)
}

func TestRun_CreateErrorPropagates(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry()
	wantErr := errors.New("connection reset")
	ep := &testutil.ScriptedEndpoint{Err: wantErr}
	_, err := agent.Run(context.Background(), ep, reg, "p", zerolog.Nop())
	assert.ErrorIs(t, err, wantErr)
}

func TestRun_SubmitErrorPropagates(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	// The script runs out after the first response, so Submit fails.
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{
			testutil.ToolCallResponse("resp_1", testutil.Call("call_1", "add", `{"a": 1, "b": 1}`)),
		},
	}
	_, err := agent.Run(context.Background(), ep, reg, "p", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted")
}

func TestRun_AnalyzeCSVRound(t *testing.T) {
	t.Parallel()
	reg, err := tools.DefaultRegistry(zerolog.Nop())
	require.NoError(t, err)
	ep := &testutil.ScriptedEndpoint{
		Responses: []*agent.Response{
			testutil.ToolCallResponse("resp_1",
				testutil.Call("call_1", "analyze_csv", `{"csv": "a,b\n1,2\n3,4"}`)),
			testutil.TextResponse("resp_2", "two rows, two columns"),
		},
	}
	resp, err := agent.Run(context.Background(), ep, reg, "profile this csv", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "two rows, two columns", agent.ExtractText(resp))

	require.Len(t, ep.Defs, 2)
	require.Len(t, ep.Submitted, 1)
	var profile struct {
		Shape   [2]int   `json:"shape"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(ep.Submitted[0][0].Output, &profile))
	assert.Equal(t, [2]int{2, 2}, profile.Shape)
	assert.Equal(t, []string{"a", "b"}, profile.Columns)
}

func TestDefinitions(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(addTool(t))
	defs := agent.Definitions(reg)
	require.Len(t, defs, 1)
	assert.Equal(t, "add", defs[0].Name)
	assert.Equal(t, "Add two integers", defs[0].Description)
	require.NotNil(t, defs[0].Parameters)
	assert.Equal(t, "object", defs[0].Parameters["type"])
}
