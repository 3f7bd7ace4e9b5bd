package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/parley/internal/core"
	"github.com/sandevgo/parley/pkg/log"
)

const sessionID = "mcp-local"

type FactLister interface {
	Facts(ctx context.Context) []core.Fact
}

// Server exposes the assistant as MCP tools over stdio.
type Server struct {
	chat  core.ChatService
	facts FactLister
	mcp   *server.MCPServer
	in    io.Reader
	out   io.Writer
}

func NewServer(chat core.ChatService, facts FactLister, in io.Reader, out io.Writer) *Server {
	s := &Server{
		chat:  chat,
		facts: facts,
		in:    in,
		out:   out,
	}

	s.mcp = server.NewMCPServer(
		core.ParleyName,
		core.ParleyVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.mcp.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Ask the assistant a question or chat with it. Supports arithmetic, time, date, taught facts and web lookups."),
		mcp.WithString("message", mcp.Required(), mcp.Description("What to say")),
	), s.handleAsk)

	s.mcp.AddTool(mcp.NewTool("teach",
		mcp.WithDescription("Teach the assistant an answer it should give for a question."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question, as a user would ask it")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The answer to remember")),
	), s.handleTeach)

	s.mcp.AddTool(mcp.NewTool("facts",
		mcp.WithDescription("List every taught question/answer pair as JSON."),
	), s.handleFacts)

	return s
}

func (s *Server) Name() string { return "mcp" }

func (s *Server) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("serving MCP over stdio")

	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(stdlog.New(logger, "", 0))

	if err := stdio.Listen(ctx, s.in, s.out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(context.Context) error {
	return nil
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := req.RequireString("message")
	if err != nil || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("message is required"), nil
	}
	return mcp.NewToolResultText(s.chat.Run(ctx, sessionID, message)), nil
}

func (s *Server) handleTeach(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question := strings.TrimSpace(req.GetString("question", ""))
	answer := strings.TrimSpace(req.GetString("answer", ""))

	switch {
	case question == "" || answer == "":
		return mcp.NewToolResultError("question and answer are both required"), nil
	case strings.Contains(question, "->"):
		return mcp.NewToolResultError(`question must not contain "->"`), nil
	}

	reply := s.chat.Reply(ctx, fmt.Sprintf("teach: %s -> %s", question, answer), nil)
	return mcp.NewToolResultText(reply), nil
}

func (s *Server) handleFacts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	facts := s.facts.Facts(ctx)
	if facts == nil {
		facts = []core.Fact{}
	}
	data, err := json.Marshal(facts)
	if err != nil {
		return nil, fmt.Errorf("marshal facts: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
