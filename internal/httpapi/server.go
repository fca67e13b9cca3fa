// Package httpapi serves the chat endpoint over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sachinhub/saas-sales-agent/pkg/models"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// InvalidRequestAnswer is returned for a body that is not a chat request.
const InvalidRequestAnswer = "Invalid request: expected a JSON body with a question."

// Asker answers one question. *orchestrator.Orchestrator satisfies it.
type Asker interface {
	Query(ctx context.Context, question string) models.Answer
	Ready() bool
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string `mapstructure:"addr"`
}

type chatRequest struct {
	Question string `json:"question"`
}

// Server is the chat HTTP server.
type Server struct {
	asker      Asker
	httpServer *http.Server
}

// New creates a chat server listening on config.Addr.
func New(config Config, asker Asker) *Server {
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	s := &Server{asker: asker}
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	slog.Info("chat server listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		slog.Debug("rejecting chat request", "error", err)
		writeJSON(w, http.StatusBadRequest, models.Answer{
			Answer:         InvalidRequestAnswer,
			Sources:        []string{},
			Classification: models.ClassificationError,
		})
		return
	}

	answer := s.asker.Query(r.Context(), req.Question)
	if answer.Sources == nil {
		answer.Sources = []string{}
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	if !s.asker.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "index not built"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
