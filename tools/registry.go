package tools

import (
	"time"

	"github.com/rs/zerolog"

	flowagent "github.com/dpujaa/flow-agent"
)

// DefaultRegistry assembles the registry both front ends share: fetch_url and
// analyze_csv behind logging middleware, with panic recovery and a default
// execution timeout.
func DefaultRegistry(logger zerolog.Logger) (*flowagent.Registry, error) {
	fetch, err := NewFetchURL(nil)
	if err != nil {
		return nil, err
	}
	analyze, err := NewAnalyzeCSV()
	if err != nil {
		return nil, err
	}
	reg := flowagent.NewRegistry(
		flowagent.WithDefaultTimeout(60*time.Second),
		flowagent.WithRecoverPanics(true),
	)
	reg.Use(flowagent.WithLogging(logger))
	reg.Register(fetch)
	reg.Register(analyze)
	return reg, nil
}
