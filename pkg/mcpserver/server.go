// Package mcpserver is a small MCP (Model Context Protocol) server framework.
//
// It speaks JSON-RPC 2.0 over newline-delimited stdio or HTTP/SSE, keeps a
// registry of tools, and runs every request through a middleware chain.
//
// Quick Start:
//
//	server := mcpserver.New("my-server", "1.0.0")
//	server.RegisterTool(&MyTool{})
//	server.RunStdio(ctx) // or server.RunHTTP(ctx, "127.0.0.1:8080", opts)
package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultProtocolVersion is the MCP revision reported by initialize.
const DefaultProtocolVersion = "2024-11-05"

// maxLineSize bounds a single stdio message.
const maxLineSize = 10 * 1024 * 1024

// Server is the core MCP server that manages tools and handles JSON-RPC requests.
type Server struct {
	name            string
	version         string
	protocolVersion string

	toolMu sync.RWMutex
	tools  map[string]ToolHandler
	order  []string
	guard  Guard

	sessionMu   sync.Mutex
	sessions    map[string]time.Time
	sessionTTL  time.Duration
	maxSessions int

	middleware []Middleware
	logger     *slog.Logger
}

// New creates a new MCP server with the given name and version.
func New(name, version string) *Server {
	return &Server{
		name:            name,
		version:         version,
		protocolVersion: DefaultProtocolVersion,
		tools:           make(map[string]ToolHandler),
		sessions:        make(map[string]time.Time),
		sessionTTL:      DefaultSessionTTL,
		maxSessions:     DefaultMaxSessions,
		logger:          slog.Default(),
	}
}

// SetLogger replaces the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Name returns the server name.
func (s *Server) Name() string { return s.name }

// Version returns the server version.
func (s *Server) Version() string { return s.version }

// RegisterTool adds a tool to the server. Registering a name again replaces
// the previous handler and keeps its position in listings.
func (s *Server) RegisterTool(tool ToolHandler) {
	s.toolMu.Lock()
	defer s.toolMu.Unlock()
	if _, ok := s.tools[tool.Name()]; !ok {
		s.order = append(s.order, tool.Name())
	}
	s.tools[tool.Name()] = tool
	s.logger.Debug("registered tool", "name", tool.Name())
}

// RegisterTools adds multiple tools to the server.
func (s *Server) RegisterTools(tools ...ToolHandler) {
	for _, tool := range tools {
		s.RegisterTool(tool)
	}
}

// SetGuard installs a check that runs before every tool call.
func (s *Server) SetGuard(g Guard) {
	s.toolMu.Lock()
	defer s.toolMu.Unlock()
	s.guard = g
}

// Use adds middleware to the server's processing chain.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// Tools returns the tool definitions in registration order.
func (s *Server) Tools() []ToolDef {
	s.toolMu.RLock()
	defer s.toolMu.RUnlock()

	defs := make([]ToolDef, 0, len(s.order))
	for _, name := range s.order {
		h := s.tools[name]
		defs = append(defs, ToolDef{
			Name:        h.Name(),
			Description: h.Description(),
			InputSchema: h.InputSchema(),
			Annotations: h.Annotations(),
		})
	}
	return defs
}

// RunStdio serves requests from stdin and writes responses to stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.ServeStdio(ctx, os.Stdin, os.Stdout)
}

// ServeStdio reads one JSON-RPC message per line from r and writes each
// response as a single line to w. A malformed line gets a parse error
// response and the loop carries on. It returns nil at EOF.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	s.logger.Info("starting MCP server (stdio)", "name", s.name, "version", s.version, "tools", s.toolCount())

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var resp *JSONRPCResponse
		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("malformed request", "error", err)
			resp = errorResponse(nil, CodeParseError, "Parse error")
		} else {
			resp = s.HandleRequest(ctx, &req)
		}
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

// HandleRequest processes a single JSON-RPC request and returns a response.
// Notifications yield nil.
func (s *Server) HandleRequest(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	handler := s.coreHandler
	for i := len(s.middleware) - 1; i >= 0; i-- {
		handler = s.middleware[i](handler)
	}
	return handler(ctx, req)
}

func (s *Server) coreHandler(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
	resp := &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		resp.Result = s.handleInitialize()
	case "notifications/initialized":
		s.logger.Info("client initialized")
		return nil
	case "ping":
		resp.Result = map[string]any{}
	case "tools/list":
		resp.Result = &ToolsListResult{Tools: s.Tools()}
	case "tools/call":
		var params ToolCallParams
		if err := decodeParams(req.Params, &params); err != nil || params.Name == "" {
			resp.Error = &RPCError{Code: CodeInvalidParams, Message: "Invalid params"}
			break
		}
		result, err := s.CallTool(ctx, params.Name, params.Arguments)
		if err != nil {
			resp.Error = err
			break
		}
		resp.Result = result
	default:
		if req.IsNotification() {
			return nil
		}
		resp.Error = &RPCError{
			Code:    CodeMethodNotFound,
			Message: fmt.Sprintf("Method not found: %s", req.Method),
		}
	}

	return resp
}

func (s *Server) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: s.protocolVersion,
		Capabilities: ServerCapabilities{
			Tools: ToolsCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
		SessionID: s.createSession(),
	}
}

// CallTool runs the guard, looks up the tool and executes it. An unknown
// tool, an error returned by the tool, or a panic inside it becomes an
// *RPCError.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (result *ToolCallResult, rpcErr *RPCError) {
	s.toolMu.RLock()
	guard := s.guard
	tool, ok := s.tools[name]
	s.toolMu.RUnlock()

	if guard != nil {
		if denied := guard(ctx, name); denied != nil {
			return denied, nil
		}
	}
	if !ok {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "Unknown tool: " + name}
	}
	if args == nil {
		args = map[string]any{}
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in tool", "tool", name, "panic", r)
			result = nil
			rpcErr = executionFailed(fmt.Errorf("%v", r))
		}
	}()

	res, err := tool.Execute(ctx, args)
	if err != nil {
		s.logger.Warn("tool failed", "tool", name, "error", err)
		return nil, executionFailed(err)
	}
	if res == nil {
		return nil, executionFailed(fmt.Errorf("tool %s returned no result", name))
	}
	return res, nil
}

func executionFailed(err error) *RPCError {
	return &RPCError{Code: CodeInternalError, Message: "Tool execution failed: " + err.Error()}
}

func decodeParams(params any, out any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}
	return nil
}

func errorResponse(id any, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

func (s *Server) toolCount() int {
	s.toolMu.RLock()
	defer s.toolMu.RUnlock()
	return len(s.tools)
}

// Session management

const (
	// DefaultSessionTTL is how long an idle HTTP session stays valid.
	DefaultSessionTTL = 24 * time.Hour
	// DefaultMaxSessions caps the live session table.
	DefaultMaxSessions = 10000
)

// SetSessionLimits changes the idle expiry and the session cap. Non-positive
// values keep the current setting.
func (s *Server) SetSessionLimits(ttl time.Duration, limit int) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if ttl > 0 {
		s.sessionTTL = ttl
	}
	if limit > 0 {
		s.maxSessions = limit
	}
}

func (s *Server) createSession() string {
	id := uuid.NewString()
	now := time.Now()

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	for sid, seen := range s.sessions {
		if now.Sub(seen) > s.sessionTTL {
			delete(s.sessions, sid)
		}
	}
	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[id] = now
	return id
}

func (s *Server) evictOldestLocked() {
	var (
		oldest   string
		oldestAt time.Time
	)
	for sid, seen := range s.sessions {
		if oldest == "" || seen.Before(oldestAt) {
			oldest, oldestAt = sid, seen
		}
	}
	delete(s.sessions, oldest)
}

// CheckSession reports whether id is a live session and marks it as used.
// Expired sessions are dropped.
func (s *Server) CheckSession(id string) bool {
	now := time.Now()

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	seen, ok := s.sessions[id]
	if !ok {
		return false
	}
	if now.Sub(seen) > s.sessionTTL {
		delete(s.sessions, id)
		return false
	}
	s.sessions[id] = now
	return true
}
