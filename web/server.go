// Package web is the HTTP front end: a static task form and a /run endpoint
// that drives the tool-invocation loop.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	flowagent "github.com/dpujaa/flow-agent"
	"github.com/dpujaa/flow-agent/agent"
)

//go:embed index.html
var indexHTML []byte

// EndpointFactory constructs a fresh model endpoint for one request; two
// concurrent requests never share conversation state.
type EndpointFactory func() agent.Endpoint

// Options configure the server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Server serves the web front end.
type Server struct {
	opts        Options
	registry    *flowagent.Registry
	newEndpoint EndpointFactory
	logger      zerolog.Logger
	server      *http.Server
}

// NewServer creates the web server.
func NewServer(opts Options, registry *flowagent.Registry, newEndpoint EndpointFactory, logger zerolog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8000"
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		opts:        opts,
		registry:    registry,
		newEndpoint: newEndpoint,
		logger:      logger,
	}
	s.server = &http.Server{
		Addr:    opts.Addr,
		Handler: s.Handler(),
	}
	return s
}

// Handler returns the route table; exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.withRequestLog(s.handleIndex))
	mux.HandleFunc("POST /run", s.withRequestLog(s.handleRun))
	return mux
}

// Start blocks serving requests until Stop is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.opts.Addr).Msg("starting web server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.logger.Info().Msg("shutting down web server")
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// withRequestLog tags each request with an id, exposes a per-request logger
// through the context, and logs completion.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With().
			Str("request_id", uuid.NewString()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		next(w, r.WithContext(logger.WithContext(r.Context())))
		logger.Info().Dur("duration", time.Since(start)).Msg("request handled")
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}

type runRequest struct {
	Prompt string `json:"prompt"`
}

type runSuccess struct {
	OK   bool   `json:"ok"`
	Text string `json:"text"`
}

type runFailure struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, runFailure{Error: "invalid request body"})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, runFailure{Error: "Missing prompt"})
		return
	}

	resp, err := agent.Run(r.Context(), s.newEndpoint(), s.registry, prompt, *logger)
	if err != nil {
		logger.Error().Err(err).Msg("task failed")
		writeJSON(w, http.StatusInternalServerError, runFailure{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, runSuccess{OK: true, Text: agent.ExtractText(resp)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
