// Copyright 2025 The Aurora Q&A Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpapi exposes the question-answering pipeline over HTTP. It is a
// thin boundary: request decoding, pipeline invocation, and error-to-status
// mapping, nothing more.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/saideep872/aurora-qa/core"
	"github.com/saideep872/aurora-qa/index"
	"github.com/saideep872/aurora-qa/qa"
)

// InsufficientDataAnswer is returned when filtering and ranking produced no
// candidates; the reasoning backend is never consulted in that case.
const InsufficientDataAnswer = "I couldn't find any messages relevant to that question."

// Asker answers questions. Implemented by qa.Orchestrator and by the system
// facade.
type Asker interface {
	Ask(ctx context.Context, query core.Query) (*core.Answer, error)
}

// Server is the HTTP boundary over an Asker.
type Server struct {
	asker  Asker
	addr   string
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// ErrAskerRequired is returned when an asker is not provided.
var ErrAskerRequired = errors.New("asker required")

// NewServer creates an HTTP server answering on addr.
func NewServer(asker Asker, addr string, opts ...Option) (*Server, error) {
	if asker == nil {
		return nil, ErrAskerRequired
	}

	s := &Server{
		asker:  asker,
		addr:   addr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the full route tree with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/healthz", s.handleHealth)
	return s.loggingMiddleware(mux)
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server starting", "addr", s.addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type askRequest struct {
	Question string `json:"question"`
	Person   string `json:"person,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
	Count  *int   `json:"count,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	answer, err := s.asker.Ask(r.Context(), core.Query{
		Text:         req.Question,
		TargetPerson: req.Person,
	})
	if err != nil {
		s.writeAskError(w, req.Question, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer.Text, Count: answer.Count})
}

// writeAskError maps pipeline conditions to HTTP statuses. An empty candidate
// set is not a failure: the client receives an explicit insufficient-data
// answer instead of a reasoning call on empty context.
func (s *Server) writeAskError(w http.ResponseWriter, question string, err error) {
	switch {
	case errors.Is(err, qa.ErrEmptyQuestion):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question is required"})
	case errors.Is(err, qa.ErrNoCandidates):
		writeJSON(w, http.StatusOK, askResponse{Answer: InsufficientDataAnswer})
	case errors.Is(err, index.ErrEmbeddingUnavailable),
		errors.Is(err, qa.ErrReasoningUnavailable):
		s.logger.Error("backend unavailable", "question", question, "err", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "upstream model backend unavailable"})
	default:
		s.logger.Error("query failed", "question", question, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
