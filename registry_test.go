package flowagent

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(s string) json.RawMessage { return []byte(s) }

func TestRegistry_Register_Execute(t *testing.T) {
	type A struct {
		X int `json:"x"`
	}
	type R struct {
		Y int `json:"y"`
	}
	tool, err := NewTool("double", "Double x", func(_ context.Context, a A) (R, error) {
		return R{Y: a.X * 2}, nil
	})
	require.NoError(t, err)
	reg := NewRegistry(WithDefaultTimeout(time.Second), WithRecoverPanics(true))
	reg.Register(tool)
	all := reg.GetAllTools()
	require.Len(t, all, 1)
	res := reg.Execute(context.Background(), ToolCall{
		ID: "1", ToolName: "double", Args: raw(`{"x": 7}`),
	})
	require.NoError(t, res.Error)
	require.NotNil(t, res.Result)
	var out R
	require.NoError(t, json.Unmarshal(res.Result, &out))
	assert.Equal(t, 14, out.Y)
	assert.Equal(t, "1", res.CallID)
	assert.Equal(t, "double", res.ToolName)
}

func TestRegistry_GetTool(t *testing.T) {
	type A struct {
		X int `json:"x"`
	}
	type R struct {
		Y int `json:"y"`
	}
	tool, err := NewTool("double", "Double x", func(_ context.Context, a A) (R, error) {
		return R{Y: a.X * 2}, nil
	})
	require.NoError(t, err)
	reg := NewRegistry()
	reg.Register(tool)
	got, ok := reg.GetTool("double")
	require.True(t, ok)
	require.Same(t, tool, got)
	_, ok = reg.GetTool("missing")
	require.False(t, ok)
}

func TestRegistry_Execute_ToolNotFound(t *testing.T) {
	reg := NewRegistry()
	res := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "missing", Args: raw("{}")})
	require.Error(t, res.Error)
	assert.ErrorIs(t, res.Error, ErrToolNotFound)
	assert.True(t, IsClientError(res.Error))
	assert.Contains(t, res.Error.Error(), "unknown tool: missing")
	assert.Equal(t, "1", res.CallID)
}

func TestRegistry_Execute_PanicRecovery(t *testing.T) {
	type A struct {
		X int `json:"x"`
	}
	type R struct{}
	tool, err := NewTool("panics", "Panics", func(_ context.Context, _ A) (R, error) {
		panic("oops")
	})
	require.NoError(t, err)
	reg := NewRegistry(WithRecoverPanics(true))
	reg.Register(tool)
	res := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "panics", Args: raw(`{"x": 1}`)})
	require.Error(t, res.Error)
	assert.True(t, IsSystemError(res.Error))
	assert.Nil(t, res.Result)
}

func TestRegistry_Execute_PerToolTimeout(t *testing.T) {
	type A struct{}
	type R struct{}
	tool, err := NewTool("slow", "Blocks until cancelled", func(ctx context.Context, _ A) (R, error) {
		<-ctx.Done()
		return R{}, ctx.Err()
	}, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)
	reg := NewRegistry(WithDefaultTimeout(time.Minute))
	reg.Register(tool)
	start := time.Now()
	res := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "slow", Args: raw(`{}`)})
	require.Error(t, res.Error)
	assert.ErrorIs(t, res.Error, ErrTimeout)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRegistry_Execute_Hooks(t *testing.T) {
	type A struct{}
	type R struct{}
	tool, err := NewTool("hooked", "d", func(_ context.Context, _ A) (R, error) {
		return R{}, nil
	})
	require.NoError(t, err)
	var before, after atomic.Int32
	var afterResult ToolResult
	reg := NewRegistry(
		WithOnBeforeExecute(func(_ context.Context, call ToolCall) {
			assert.Equal(t, "hooked", call.ToolName)
			before.Add(1)
		}),
		WithOnAfterExecute(func(_ context.Context, _ ToolCall, res ToolResult, dur time.Duration) {
			afterResult = res
			assert.GreaterOrEqual(t, dur, time.Duration(0))
			after.Add(1)
		}),
	)
	reg.Register(tool)
	res := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "hooked", Args: raw(`{}`)})
	require.NoError(t, res.Error)
	assert.Equal(t, int32(1), before.Load())
	assert.Equal(t, int32(1), after.Load())
	assert.Equal(t, "1", afterResult.CallID)
}

func TestRegistry_ExecuteBatch_SequentialOneResultPerCall(t *testing.T) {
	type A struct {
		N int `json:"n"`
	}
	type R struct {
		N int `json:"n"`
	}
	var order []int
	tool, err := NewTool("echo", "Echo n", func(_ context.Context, a A) (R, error) {
		order = append(order, a.N)
		return R(a), nil
	})
	require.NoError(t, err)
	reg := NewRegistry()
	reg.Register(tool)

	calls := []ToolCall{
		{ID: "1", ToolName: "echo", Args: raw(`{"n": 1}`)},
		{ID: "2", ToolName: "nope", Args: raw(`{}`)},
		{ID: "3", ToolName: "echo", Args: raw(`{"n": 3}`)},
	}
	results := reg.ExecuteBatch(context.Background(), calls)
	require.Len(t, results, 3)
	// Sequential, in request order; the unknown tool does not stop the batch.
	assert.Equal(t, []int{1, 3}, order)
	assert.NoError(t, results[0].Error)
	assert.ErrorIs(t, results[1].Error, ErrToolNotFound)
	assert.NoError(t, results[2].Error)
	for i, res := range results {
		assert.Equal(t, calls[i].ID, res.CallID)
	}
}

func TestRegistry_ExecuteBatch_Empty(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.ExecuteBatch(context.Background(), nil))
}

func TestRegistry_Register_Replaces(t *testing.T) {
	reg := NewRegistry()
	type A struct{}
	type R struct {
		V string `json:"v"`
	}
	first, err := NewTool("dup", "first", func(_ context.Context, _ A) (R, error) {
		return R{V: "first"}, nil
	})
	require.NoError(t, err)
	second, err := NewTool("dup", "second", func(_ context.Context, _ A) (R, error) {
		return R{V: "second"}, nil
	})
	require.NoError(t, err)
	reg.Register(first)
	reg.Register(second)
	require.Len(t, reg.GetAllTools(), 1)
	res := reg.Execute(context.Background(), ToolCall{ID: "1", ToolName: "dup", Args: raw(`{}`)})
	require.NoError(t, res.Error)
	assert.JSONEq(t, `{"v":"second"}`, string(res.Result))
}
