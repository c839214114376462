// Package server exposes the assistant over HTTP: a chat endpoint that
// tracks sessions, a health probe, and a rendered copy of the reference
// document.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/google/uuid"
	"github.com/kataras/golog"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sajalsharma/saj-assistant/assistant"
	"github.com/sajalsharma/saj-assistant/store"
)

// apologyReply is returned when the routing core fails. Internal errors are
// logged, never surfaced to the caller.
const apologyReply = "Sorry, something went wrong on my end. Please try again."

// Runner answers a single user message given the prior conversation.
type Runner interface {
	Run(ctx context.Context, message string, history []assistant.Turn) (string, error)
}

// Server wires the routing core and session storage behind an HTTP API.
type Server struct {
	router   *chi.Mux
	runner   Runner
	sessions store.SessionStore
	log      *golog.Logger

	// sourceHTML is the reference document rendered and sanitized once at
	// startup.
	sourceHTML []byte
}

// New builds the server. sourceMarkdown is the raw reference document; it is
// rendered to sanitized HTML for GET /v1/source.
func New(runner Runner, sessions store.SessionStore, sourceMarkdown string, logger *golog.Logger) *Server {
	if logger == nil {
		logger = golog.New()
		logger.SetLevel("disable")
	}

	html := markdown.ToHTML([]byte(sourceMarkdown), nil, nil)
	safe := bluemonday.UGCPolicy().SanitizeBytes(html)

	s := &Server{
		router:     chi.NewRouter(),
		runner:     runner,
		sessions:   sessions,
		log:        logger,
		sourceHTML: safe,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.health)
	s.router.Get("/v1/source", s.source)
	s.router.Post("/v1/chat", s.chat)

	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Infof("http server listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message must not be empty"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := r.Context()
	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		s.log.Errorf("session %s: load history: %v", sessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apologyReply})
		return
	}

	reply, err := s.runner.Run(ctx, req.Message, history)
	if err != nil {
		s.log.Errorf("session %s: %v", sessionID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: apologyReply})
		return
	}

	// The exchange is only recorded once a reply exists, so a failed request
	// leaves the history untouched.
	err = s.sessions.Append(ctx, sessionID,
		assistant.Turn{Role: assistant.RoleUser, Content: req.Message},
		assistant.Turn{Role: assistant.RoleAssistant, Content: reply},
	)
	if err != nil {
		s.log.Errorf("session %s: append turns: %v", sessionID, err)
	}

	writeJSON(w, http.StatusOK, chatResponse{SessionID: sessionID, Reply: reply})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) source(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(s.sourceHTML)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
