// Command flow-agent runs one natural-language task from the command line:
// it forwards the prompt to the model endpoint, executes requested tool calls,
// and prints the final answer.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dpujaa/flow-agent/agent"
	"github.com/dpujaa/flow-agent/config"
	"github.com/dpujaa/flow-agent/logger"
	"github.com/dpujaa/flow-agent/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s \"your natural-language task here\"\n", os.Args[0])
		os.Exit(1)
	}
	prompt := strings.Join(os.Args[1:], " ")

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	reg, err := tools.DefaultRegistry(log)
	if err != nil {
		log.Fatal().Err(err).Msg("building tool registry")
	}
	endpoint := agent.NewOpenAI(agent.OpenAIOptions{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		WebSearch: cfg.WebSearch,
	})

	resp, err := agent.Run(context.Background(), endpoint, reg, prompt, log)
	if err != nil {
		log.Fatal().Err(err).Msg("task failed")
	}
	text := strings.TrimSpace(agent.ExtractText(resp))
	if text == "" {
		text = "[No final text output]"
	}
	fmt.Println(text)
}
