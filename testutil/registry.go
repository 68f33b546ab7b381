package testutil

import (
	"time"

	flowagent "github.com/dpujaa/flow-agent"
)

// NewTestRegistry returns a Registry with long timeout and panic recovery enabled,
// suitable for tests.
func NewTestRegistry(tools ...flowagent.Tool) *flowagent.Registry {
	reg := flowagent.NewRegistry(
		flowagent.WithDefaultTimeout(30*time.Second),
		flowagent.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}
