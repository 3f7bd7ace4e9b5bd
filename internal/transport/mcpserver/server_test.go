package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sandevgo/parley/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	session string
	inputs  []string
}

func (f *fakeChat) Run(_ context.Context, sessionID, input string) string {
	f.session = sessionID
	f.inputs = append(f.inputs, input)
	return "ran: " + input
}

func (f *fakeChat) Reply(_ context.Context, input string, _ []core.Message) string {
	f.inputs = append(f.inputs, input)
	return "replied: " + input
}

type fakeFacts []core.Fact

func (f fakeFacts) Facts(context.Context) []core.Fact { return f }

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestHandleAsk(t *testing.T) {
	chat := &fakeChat{}
	s := NewServer(chat, fakeFacts(nil), strings.NewReader(""), &strings.Builder{})

	res, err := s.handleAsk(context.Background(), call("ask", map[string]any{"message": "what is 2+2"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "ran: what is 2+2", text(t, res))
	assert.Equal(t, sessionID, chat.session)

	res, err = s.handleAsk(context.Background(), call("ask", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleTeach(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		wantInput string
	}{
		{name: "valid", args: map[string]any{"question": " capital of peru ", "answer": "Lima"}, wantInput: "teach: capital of peru -> Lima"},
		{name: "missing answer", args: map[string]any{"question": "q"}, wantError: true},
		{name: "arrow in question", args: map[string]any{"question": "a -> b", "answer": "c"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeChat{}
			s := NewServer(chat, fakeFacts(nil), strings.NewReader(""), &strings.Builder{})

			res, err := s.handleTeach(context.Background(), call("teach", tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, res.IsError)
			if !tt.wantError {
				assert.Equal(t, []string{tt.wantInput}, chat.inputs)
			} else {
				assert.Empty(t, chat.inputs)
			}
		})
	}
}

func TestHandleFacts(t *testing.T) {
	s := NewServer(&fakeChat{}, fakeFacts{{Question: "q", Answer: "a"}}, strings.NewReader(""), &strings.Builder{})

	res, err := s.handleFacts(context.Background(), call("facts", nil))
	require.NoError(t, err)

	var facts []core.Fact
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &facts))
	assert.Equal(t, []core.Fact{{Question: "q", Answer: "a"}}, facts)

	empty := NewServer(&fakeChat{}, fakeFacts(nil), strings.NewReader(""), &strings.Builder{})
	res, err = empty.handleFacts(context.Background(), call("facts", nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", text(t, res))
}
