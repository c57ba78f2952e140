// Package gateway exposes the generation pipelines over a local HTTP API.
// Pipeline failures are soft: the response is always 200 with an error field,
// matching how the suggestions are surfaced to the operator.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"linkdraft/internal/browser"
	"linkdraft/internal/bus"
	"linkdraft/internal/domain"
	"linkdraft/internal/extract"
	"linkdraft/internal/metrics"
	"linkdraft/internal/selector"
)

const (
	DefaultAddr = "127.0.0.1:8892"

	maxBodySize = 4 << 20 // page snapshots can be large
)

// Generator runs the three generation pipelines.
type Generator interface {
	GenerateReply(ctx context.Context, req domain.ReplyRequest) domain.Result
	GenerateOutreach(ctx context.Context, req domain.OutreachRequest) domain.Result
	GenerateComment(ctx context.Context, req domain.CommentRequest) domain.Result
}

// Snapshotter captures live pages for the extract endpoint.
type Snapshotter interface {
	Snapshot(ctx context.Context, url string) (*browser.Snapshot, error)
}

// Server is the local HTTP trigger surface.
type Server struct {
	addr    string
	engine  Generator
	bridge  Snapshotter
	table   *selector.Table
	events  *bus.EventBus
	logger  *slog.Logger
	httpSrv *http.Server
}

type Config struct {
	Addr   string
	Engine Generator
	Bridge Snapshotter   // optional; extract-by-url is unavailable without it
	Events *bus.EventBus // optional; /v1/events is empty without it
	Table  *selector.Table
	Logger *slog.Logger
}

func NewServer(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Table == nil {
		cfg.Table = selector.DefaultTable()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Server{
		addr:   cfg.Addr,
		engine: cfg.Engine,
		bridge: cfg.Bridge,
		table:  cfg.Table,
		events: cfg.Events,
		logger: cfg.Logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/generate/reply", s.handleReply)
	mux.HandleFunc("POST /v1/generate/outreach", s.handleOutreach)
	mux.HandleFunc("POST /v1/generate/comment", s.handleComment)
	mux.HandleFunc("POST /v1/extract", s.handleExtract)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", metrics.Collector.Handler())
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      180 * time.Second, // generation with research is slow
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("gateway started", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
	}()

	if err := s.httpSrv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	if s.httpSrv != nil {
		return s.httpSrv.Close()
	}
	return nil
}

// generateResponse is the wire shape shared by the three generate endpoints.
type generateResponse struct {
	Suggestions []string         `json:"suggestions"`
	Research    *domain.Research `json:"research,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, result domain.Result) {
	resp := generateResponse{Suggestions: result.Suggestions, Research: result.Research}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	if result.Err != nil {
		resp.Error = result.Err.Message
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func (s *Server) handleReply(w http.ResponseWriter, r *http.Request) {
	var req domain.ReplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Suggestions: []string{}, Error: "invalid request body"})
		return
	}
	if req.Action == "" {
		req.Action = domain.ActionReply
	}
	writeResult(w, s.engine.GenerateReply(r.Context(), req))
}

func (s *Server) handleOutreach(w http.ResponseWriter, r *http.Request) {
	var req domain.OutreachRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Suggestions: []string{}, Error: "invalid request body"})
		return
	}
	writeResult(w, s.engine.GenerateOutreach(r.Context(), req))
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	var req domain.CommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, generateResponse{Suggestions: []string{}, Error: "invalid request body"})
		return
	}
	if req.Action == "" {
		req.Action = domain.ActionCommentSupportive
	}
	writeResult(w, s.engine.GenerateComment(r.Context(), req))
}

// extractRequest drives the debugging endpoint. Exactly one of URL or HTML
// must be set: URL captures a live page, HTML extracts from provided markup.
type extractRequest struct {
	URL       string   `json:"url,omitempty"`
	HTML      string   `json:"html,omitempty"`
	Fragments []string `json:"fragments,omitempty"`
}

type extractResponse struct {
	Conversation *domain.ConversationContext `json:"conversation,omitempty"`
	Post         *domain.PostContext         `json:"post,omitempty"`
	Error        string                      `json:"error,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, extractResponse{Error: "invalid request body"})
		return
	}

	pageHTML := req.HTML
	fragments := req.Fragments
	switch {
	case req.URL != "" && req.HTML != "":
		writeJSON(w, http.StatusBadRequest, extractResponse{Error: "set either url or html, not both"})
		return
	case req.URL != "":
		if s.bridge == nil {
			writeJSON(w, http.StatusOK, extractResponse{Error: "browser capture is not configured on this server"})
			return
		}
		snap, err := s.bridge.Snapshot(r.Context(), req.URL)
		if err != nil {
			s.logger.Warn("snapshot failed", "url", req.URL, "error", err)
			writeJSON(w, http.StatusOK, extractResponse{Error: "could not capture the page"})
			return
		}
		metrics.SnapshotsTotal.Inc()
		pageHTML = snap.PageHTML
		fragments = snap.Fragments
	case req.HTML == "":
		writeJSON(w, http.StatusBadRequest, extractResponse{Error: "url or html is required"})
		return
	}

	ex, err := extract.FromHTML(pageHTML, s.table, s.logger, fragments...)
	if err != nil {
		writeJSON(w, http.StatusOK, extractResponse{Error: "could not parse the page"})
		return
	}

	resp := extractResponse{}
	conv := ex.Conversation()
	resp.Conversation = &conv
	if post, ok := ex.Post(); ok {
		resp.Post = &post
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents replays recent pipeline events for debugging. Optional query
// params: type (event type, default "*") and since (RFC 3339 timestamp).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeJSON(w, http.StatusOK, []bus.Event{})
		return
	}
	eventType := r.URL.Query().Get("type")
	if eventType == "" {
		eventType = "*"
	}
	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be RFC 3339"})
			return
		}
		since = parsed
	}
	events := s.events.Replay(eventType, since)
	if events == nil {
		events = []bus.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
