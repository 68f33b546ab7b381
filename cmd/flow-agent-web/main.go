// Command flow-agent-web serves the web front end: a task form on / and a
// /run endpoint that drives the tool-invocation loop.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dpujaa/flow-agent/agent"
	"github.com/dpujaa/flow-agent/config"
	"github.com/dpujaa/flow-agent/logger"
	"github.com/dpujaa/flow-agent/tools"
	"github.com/dpujaa/flow-agent/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogPretty)
	reg, err := tools.DefaultRegistry(log)
	if err != nil {
		log.Fatal().Err(err).Msg("building tool registry")
	}

	newEndpoint := func() agent.Endpoint {
		return agent.NewOpenAI(agent.OpenAIOptions{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			WebSearch: cfg.WebSearch,
		})
	}
	srv := web.NewServer(web.Options{Addr: cfg.Addr}, reg, newEndpoint, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("web server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		if err := srv.Stop(); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}
