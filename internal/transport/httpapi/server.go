package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

const (
	maxBodySize     = 1 << 16
	shutdownTimeout = 5 * time.Second
)

type chatRequest struct {
	Message   string          `json:"message"`
	History   json.RawMessage `json:"history"`
	SessionID string          `json:"session_id"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// Server exposes the chat over JSON: POST /api/chat and GET /api/status.
type Server struct {
	chat   core.ChatService
	status core.StatusReporter
	server *http.Server
}

func NewServer(ctx context.Context, addr string, chat core.ChatService, status core.StatusReporter) *Server {
	s := &Server{chat: chat, status: status}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
	}
	return s
}

// Handler returns the routed API with logging and CORS applied.
// Request contexts inherit the logger carried by ctx.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("OPTIONS /api/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return corsMiddleware(loggingMiddleware(log.FromCtx(ctx), mux))
}

func (s *Server) Name() string { return "http" }

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.server.Addr).Msg("starting http api")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, chatResponse{Reply: "Invalid JSON.", Error: "bad body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeJSON(w, http.StatusOK, chatResponse{Reply: "Please type something."})
		return
	}

	var reply string
	if id := strings.TrimSpace(req.SessionID); id != "" {
		reply = s.chat.Run(r.Context(), "http-"+id, message)
	} else {
		reply = s.chat.Reply(r.Context(), message, parseHistory(req.History))
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.Status())
}

// parseHistory accepts a list of {role, content} turns; anything else is
// treated as no history. Blank turns are kept: they still count toward the
// history window and can be the latest assistant turn.
func parseHistory(raw json.RawMessage) []core.Message {
	if len(raw) == 0 {
		return nil
	}
	var turns []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(raw, &turns); err != nil {
		return nil
	}

	history := make([]core.Message, 0, len(turns))
	for _, t := range turns {
		content := t.Content
		if content == "" {
			content = t.Text
		}
		history = append(history, core.Message{Role: core.NormalizeRole(t.Role), Content: content})
	}
	return history
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r = r.WithContext(logger.WithContext(r.Context()))
		next.ServeHTTP(w, r)
		logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("http request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}
