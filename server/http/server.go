// Package http serves the chat and checklist API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	advait "github.com/advait-ai/advait"
	"github.com/advait-ai/advait/checklist"
)

type Option func(*Options)

type Options struct {
	Address       string
	ChecklistPath string
	Middleware    []mux.MiddlewareFunc
}

func WithAddress(address string) Option {
	return func(o *Options) {
		o.Address = address
	}
}

// WithChecklistPath writes every checklist mutation back to the given
// file, matching the checklist tool's persistence.
func WithChecklistPath(path string) Option {
	return func(o *Options) {
		o.ChecklistPath = path
	}
}

func WithMiddleware(ms ...mux.MiddlewareFunc) Option {
	return func(o *Options) {
		o.Middleware = append(o.Middleware, ms...)
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address: ":8080",
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Server exposes an ADK instance and its checklist over HTTP. The
// checklist document synchronizes itself; the server's mutex guards
// only the transcript.
type Server struct {
	options Options
	adk     *advait.ADK
	tasks   *checklist.Document
	router  *mux.Router
	// transcript mirrors each session's turns for the list endpoint;
	// the memory manager owns the authoritative history.
	transcript map[string][]turn
	mtx        sync.RWMutex
}

type turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.options.Address,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("chat server listening", "address", s.options.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) routes() {
	s.router.HandleFunc("/api/v1/sessions", s.handleCreateSession).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/sessions/{id}/messages", s.handleSendMessage).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/sessions/{id}/messages", s.handleListMessages).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/tools", s.handleListTools).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/checklist", s.handleGetChecklist).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/checklist/items", s.handlePatchChecklist).Methods(http.MethodPatch)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Id string `json:"id"`
	}
	// An empty body is fine; the server generates an id.
	json.NewDecoder(r.Body).Decode(&body)

	id, err := s.adk.CreateSession(r.Context(), body.Id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mtx.Lock()
	if _, ok := s.transcript[id]; !ok {
		s.transcript[id] = []turn{}
	}
	s.mtx.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mtx.RLock()
	_, known := s.transcript[id]
	s.mtx.RUnlock()

	if !known {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid json body"))
		return
	}
	if len(strings.TrimSpace(body.Content)) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("content is required"))
		return
	}

	reply, err := s.adk.Generate(r.Context(), id, body.Content)
	if err != nil {
		slog.ErrorContext(r.Context(), "generate failed", "session", id, "error", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}

	// Record the exchange only once the turn succeeded, so a failed
	// generation leaves no one-sided transcript entry.
	now := time.Now().UTC()
	s.mtx.Lock()
	s.transcript[id] = append(s.transcript[id],
		turn{Role: "user", Content: body.Content, At: now},
		turn{Role: "assistant", Content: reply, At: now},
	)
	s.mtx.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"role": "assistant", "content": reply})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mtx.RLock()
	turns, ok := s.transcript[id]
	cpy := make([]turn, len(turns))
	copy(cpy, turns)
	s.mtx.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, errors.New("session not found"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": cpy})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.adk.ToolSpecs()})
}

func (s *Server) handleGetChecklist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":     s.tasks.Stats(),
		"completed": s.tasks.CompletedItems(),
		"pending":   s.tasks.PendingItems(),
	})
}

func (s *Server) handlePatchChecklist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Item string `json:"item"`
		Done *bool  `json:"done"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid json body"))
		return
	}
	if body.Done == nil || len(strings.TrimSpace(body.Item)) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("item and done are required"))
		return
	}

	var (
		item checklist.Item
		err  error
	)
	if *body.Done {
		item, err = s.tasks.Check(body.Item)
	} else {
		item, err = s.tasks.Uncheck(body.Item)
	}
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	if len(s.options.ChecklistPath) > 0 {
		if err := s.tasks.Save(s.options.ChecklistPath); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"item":  item,
		"stats": s.tasks.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func NewServer(adk *advait.ADK, tasks *checklist.Document, opts ...Option) *Server {
	if adk == nil {
		panic("adk is required")
	}
	if tasks == nil {
		tasks = &checklist.Document{}
	}

	s := &Server{
		options:    NewOptions(opts...),
		adk:        adk,
		tasks:      tasks,
		router:     mux.NewRouter(),
		transcript: map[string][]turn{},
	}

	for _, mw := range s.options.Middleware {
		s.router.Use(mw)
	}

	s.routes()

	return s
}
