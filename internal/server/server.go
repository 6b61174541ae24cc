// Package server exposes the agent over HTTP: a chat endpoint, the report
// editor API, the tool-call log, and the embedded browser UI.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/strategy-agent/internal/agent"
	"github.com/sells-group/strategy-agent/internal/model"
	"github.com/sells-group/strategy-agent/internal/session"
)

//go:embed web/index.html
var webFS embed.FS

const chatTimeout = 5 * time.Minute

// Orchestrator is the slice of the agent the server needs.
type Orchestrator interface {
	Ask(ctx context.Context, userText string, status agent.StatusFunc) string
	UpdateSection(ctx context.Context, company, section string, value any) (string, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	agent  Orchestrator
	sess   *session.Session

	// askMu serializes conversational turns; the session is built for one
	// logical request at a time.
	askMu sync.Mutex
}

// New creates a configured server with all routes and middleware.
func New(orch Orchestrator, sess *session.Session) *Server {
	s := &Server{
		agent: orch,
		sess:  sess,
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server. It blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute, // chat turns can run multiple LLM calls
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zap.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/companies", s.handleCompanies)
		r.Get("/companies/{name}", s.handleCompany)
		r.Put("/companies/{name}/sections/{section}", s.handleUpdateSection)
		r.Get("/companies/{name}/report", s.handleReport)
		r.Get("/toolcalls", s.handleToolCalls)
	})

	r.Get("/", s.handleIndex)

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant reply plus the statuses emitted while
// producing it.
type ChatResponse struct {
	Response string   `json:"response"`
	Statuses []string `json:"statuses,omitempty"`
}

// UpdateSectionRequest is the body for PUT /api/companies/{name}/sections/{section}.
type UpdateSectionRequest struct {
	Value json.RawMessage `json:"value"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":  "ok",
			"session": s.sess.ID(),
		},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	s.askMu.Lock()
	defer s.askMu.Unlock()

	var statuses []string
	reply := s.agent.Ask(ctx, req.Message, func(msg string) {
		statuses = append(statuses, msg)
	})
	s.sess.AppendMessage("assistant", reply)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    ChatResponse{Response: reply, Statuses: statuses},
	})
}

func (s *Server) handleCompanies(w http.ResponseWriter, _ *http.Request) {
	companies := s.sess.Companies()
	if companies == nil {
		companies = []string{}
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: companies})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	plan, ok := s.sess.Plan(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("company not found: %s", name))
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: plan})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	section := chi.URLParam(r, "section")

	var req UpdateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var value any
	if err := json.Unmarshal(req.Value, &value); err != nil {
		writeError(w, http.StatusBadRequest, "value must be valid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	s.askMu.Lock()
	defer s.askMu.Unlock()

	msg, err := s.agent.UpdateSection(ctx, name, section, value)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]string{"message": msg},
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	plan, ok := s.sess.Plan(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("company not found: %s", name))
		return
	}

	text := plan.Text
	version := r.URL.Query().Get("version")
	switch version {
	case "", "current":
	case "original":
		text = plan.OriginalText
	default:
		writeError(w, http.StatusBadRequest, "version must be 'original' or 'current'")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"-report.md"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleToolCalls(w http.ResponseWriter, _ *http.Request) {
	calls := s.sess.ToolCalls()

	// Newest first for the log viewer.
	out := make([]model.ToolCallRecord, 0, len(calls))
	for i := len(calls) - 1; i >= 0; i-- {
		out = append(out, calls[i])
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	data, err := webFS.ReadFile("web/index.html")
	if err != nil {
		http.Error(w, "web UI not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to write json response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
