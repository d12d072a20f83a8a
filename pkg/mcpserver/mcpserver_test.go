package mcpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

// EchoTool is a simple tool for testing that echoes back its input.
type EchoTool struct {
	mcpserver.BaseTool
}

func NewEchoTool() *EchoTool {
	return &EchoTool{
		BaseTool: mcpserver.BaseTool{
			ToolName:        "echo",
			ToolDescription: "Echoes back the input message",
			ToolSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"message": map[string]any{
						"type":        "string",
						"description": "Message to echo",
					},
				},
				"required": []string{"message"},
			},
			ToolAnnotations: &mcpserver.ToolAnnotations{ReadOnlyHint: true},
		},
	}
}

func (t *EchoTool) Execute(_ context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	msg, _ := args["message"].(string)
	return mcpserver.TextResult("Echo: " + msg), nil
}

// funcTool adapts a function into a tool.
type funcTool struct {
	mcpserver.BaseTool
	fn func() (*mcpserver.ToolCallResult, error)
}

func newFuncTool(name string, fn func() (*mcpserver.ToolCallResult, error)) *funcTool {
	return &funcTool{BaseTool: mcpserver.BaseTool{ToolName: name, ToolSchema: map[string]any{"type": "object"}}, fn: fn}
}

func (t *funcTool) Execute(context.Context, map[string]any) (*mcpserver.ToolCallResult, error) {
	return t.fn()
}

func call(s *mcpserver.Server, name string, args map[string]any) *mcpserver.JSONRPCResponse {
	return s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  map[string]any{"name": name, "arguments": args},
	})
}

func TestServer_Initialize(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	})

	if resp == nil {
		t.Fatal("expected response")
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(*mcpserver.InitializeResult)
	if !ok {
		t.Fatal("expected InitializeResult")
	}
	if result.ServerInfo.Name != "test-server" {
		t.Fatalf("expected 'test-server', got '%s'", result.ServerInfo.Name)
	}
	if result.ProtocolVersion != mcpserver.DefaultProtocolVersion {
		t.Fatalf("unexpected protocol version %q", result.ProtocolVersion)
	}
	if _, err := uuid.Parse(result.SessionID); err != nil {
		t.Fatalf("expected UUID session ID, got %q", result.SessionID)
	}
}

func TestServer_ToolsList(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())
	s.RegisterTool(newFuncTool("second", nil))
	s.RegisterTool(NewEchoTool())

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      2,
		Method:  "tools/list",
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(*mcpserver.ToolsListResult)
	if !ok {
		t.Fatal("expected ToolsListResult")
	}
	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	if diff := cmp.Diff([]string{"echo", "second"}, names); diff != "" {
		t.Fatalf("tool names mismatch (-want +got):\n%s", diff)
	}
	if result.Tools[0].Annotations == nil || !result.Tools[0].Annotations.ReadOnlyHint {
		t.Fatalf("expected readOnly annotation, got %+v", result.Tools[0].Annotations)
	}
}

func TestServer_ToolCall(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())

	resp := call(s, "echo", map[string]any{"message": "hello world"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(*mcpserver.ToolCallResult)
	if !ok {
		t.Fatal("expected ToolCallResult")
	}
	if result.IsError {
		t.Fatal("expected no error")
	}
	if len(result.Content) != 1 || result.Content[0].Text != "Echo: hello world" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestServer_ToolNotFound(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")

	resp := call(s, "nonexistent", map[string]any{})
	if resp.Error == nil {
		t.Fatal("expected protocol error")
	}
	if resp.Error.Code != mcpserver.CodeInvalidParams || resp.Error.Message != "Unknown tool: nonexistent" {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
}

func TestServer_ToolFaults(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (*mcpserver.ToolCallResult, error)
		want string
	}{
		{"error", func() (*mcpserver.ToolCallResult, error) { return nil, errors.New("boom") }, "Tool execution failed: boom"},
		{"panic", func() (*mcpserver.ToolCallResult, error) { panic("kaput") }, "Tool execution failed: kaput"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mcpserver.New("test-server", "1.0.0")
			s.RegisterTool(newFuncTool("faulty", tt.fn))

			resp := call(s, "faulty", nil)
			if resp.Error == nil {
				t.Fatal("expected protocol error")
			}
			if resp.Error.Code != mcpserver.CodeInternalError || resp.Error.Message != tt.want {
				t.Fatalf("unexpected error: %+v", resp.Error)
			}
		})
	}
}

func TestServer_Guard(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())

	var seen []string
	s.SetGuard(func(_ context.Context, name string) *mcpserver.ToolCallResult {
		seen = append(seen, name)
		if name == "open" {
			return nil
		}
		return mcpserver.ErrorText("blocked " + name)
	})

	resp := call(s, "echo", map[string]any{"message": "hi"})
	result := resp.Result.(*mcpserver.ToolCallResult)
	if !result.IsError || result.Text() != "blocked echo" {
		t.Fatalf("unexpected result: %+v", result)
	}

	// the guard runs before lookup, so unknown names are still guarded
	resp = call(s, "missing", nil)
	if resp.Error != nil || resp.Result.(*mcpserver.ToolCallResult).Text() != "blocked missing" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp = call(s, "open", nil)
	if resp.Error == nil || resp.Error.Message != "Unknown tool: open" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	if diff := cmp.Diff([]string{"echo", "missing", "open"}, seen); diff != "" {
		t.Fatalf("guard calls mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_MethodNotFound(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      5,
		Method:  "unknown/method",
	})

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != mcpserver.CodeMethodNotFound {
		t.Fatalf("expected code -32601, got %d", resp.Error.Code)
	}
}

func TestServer_Notifications(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	for _, method := range []string{"notifications/initialized", "notifications/cancelled"} {
		resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{JSONRPC: "2.0", Method: method})
		if resp != nil {
			t.Errorf("%s: expected no response, got %+v", method, resp)
		}
	}
}

func TestServer_Middleware(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())

	calls := 0
	s.Use(func(next mcpserver.HandlerFunc) mcpserver.HandlerFunc {
		return func(ctx context.Context, req *mcpserver.JSONRPCRequest) *mcpserver.JSONRPCResponse {
			calls++
			return next(ctx, req)
		}
	})

	s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      6,
		Method:  "tools/list",
	})

	if calls != 1 {
		t.Fatalf("expected middleware to be called once, got %d", calls)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := mcpserver.New("test-server", "1.0.0")
	s.RegisterTool(NewEchoTool())
	s.Use(mcpserver.LoggingMiddleware(logger))

	s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  map[string]any{"name": "echo", "arguments": map[string]any{"message": "hi"}},
	})
	s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{JSONRPC: "2.0", ID: 2, Method: "bogus"})

	out := buf.String()
	if !strings.Contains(out, "tool=echo") {
		t.Errorf("tool name not logged: %s", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "code=-32601") {
		t.Errorf("rpc error not logged: %s", out)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.Use(mcpserver.RecoveryMiddleware(discardLogger()))
	s.Use(func(next mcpserver.HandlerFunc) mcpserver.HandlerFunc {
		return func(context.Context, *mcpserver.JSONRPCRequest) *mcpserver.JSONRPCResponse {
			panic("middleware blew up")
		}
	})

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "ping"})
	if resp == nil || resp.Error == nil || resp.Error.Code != mcpserver.CodeInternalError {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServer_Session(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")

	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "initialize",
	})

	result := resp.Result.(*mcpserver.InitializeResult)
	if !s.CheckSession(result.SessionID) {
		t.Fatal("expected session to be valid")
	}
	if s.CheckSession("invalid-session") {
		t.Fatal("expected invalid session to fail")
	}
}

func initSession(t *testing.T, s *mcpserver.Server) string {
	t.Helper()
	resp := s.HandleRequest(context.Background(), &mcpserver.JSONRPCRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})
	return resp.Result.(*mcpserver.InitializeResult).SessionID
}

func TestServer_SessionCapEvictsOldest(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.SetSessionLimits(time.Hour, 2)

	first := initSession(t, s)
	time.Sleep(time.Millisecond)
	second := initSession(t, s)
	time.Sleep(time.Millisecond)
	third := initSession(t, s)

	if s.CheckSession(first) {
		t.Error("oldest session should have been evicted")
	}
	if !s.CheckSession(second) || !s.CheckSession(third) {
		t.Error("newest sessions should survive")
	}
}

func TestServer_SessionExpires(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.SetSessionLimits(20*time.Millisecond, 0)

	id := initSession(t, s)
	if !s.CheckSession(id) {
		t.Fatal("fresh session should be valid")
	}
	time.Sleep(50 * time.Millisecond)
	if s.CheckSession(id) {
		t.Fatal("idle session should have expired")
	}
}

func TestServeStdio(t *testing.T) {
	s := mcpserver.New("test-server", "1.0.0")
	s.SetLogger(discardLogger())
	s.RegisterTool(NewEchoTool())

	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`this is not json`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`,
		`{"jsonrpc":"2.0","id":3,"method":"ping"}`,
	}, "\n")

	var out bytes.Buffer
	if err := s.ServeStdio(context.Background(), strings.NewReader(in), &out); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d:\n%s", len(lines), out.String())
	}

	var parseErr struct {
		ID    any `json:"id"`
		Error struct {
			Code int `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &parseErr); err != nil {
		t.Fatal(err)
	}
	if parseErr.Error.Code != mcpserver.CodeParseError || parseErr.ID != nil {
		t.Fatalf("unexpected parse error response: %s", lines[1])
	}

	var callResp struct {
		ID     float64 `json:"id"`
		Result struct {
			Content []mcpserver.Content `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &callResp); err != nil {
		t.Fatal(err)
	}
	if callResp.ID != 2 || len(callResp.Result.Content) != 1 || callResp.Result.Content[0].Text != "Echo: hi" {
		t.Fatalf("unexpected call response: %s", lines[2])
	}
}

func TestSummaryResult(t *testing.T) {
	raw := json.RawMessage(`{"party":{"id":1,"firstName":"Ada"}}`)
	result := mcpserver.SummaryResult("Retrieved party: Ada", raw)

	want := "Retrieved party: Ada\n\n{\n  \"party\": {\n    \"id\": 1,\n    \"firstName\": \"Ada\"\n  }\n}"
	if result.IsError {
		t.Fatal("expected success")
	}
	if diff := cmp.Diff(want, result.Text()); diff != "" {
		t.Fatalf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorResult(t *testing.T) {
	result := mcpserver.ErrorResult(errors.New("HTTP 422: X"))
	if !result.IsError || result.Text() != "Error: HTTP 422: X" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
