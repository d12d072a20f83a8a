package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// HTTPOptions configures the HTTP transport.
type HTTPOptions struct {
	// AuthToken is a static bearer token.
	AuthToken string
	// JWTSecret verifies HS256 bearer tokens.
	JWTSecret string
}

// ErrPublicWithoutAuth is returned when the HTTP transport would listen on a
// non-loopback address with neither a bearer token nor a JWT secret set.
var ErrPublicWithoutAuth = errors.New("refusing to serve HTTP on a non-loopback address without auth_token or jwt_secret")

// HTTPServer wraps the MCP Server to serve over HTTP with SSE support.
type HTTPServer struct {
	server    *Server
	addr      string
	authToken string
	jwtSecret []byte
	logger    *slog.Logger
}

// NewHTTPServer creates the HTTP transport for s.
func (s *Server) NewHTTPServer(addr string, opts HTTPOptions) *HTTPServer {
	hs := &HTTPServer{
		server:    s,
		addr:      addr,
		authToken: opts.AuthToken,
		logger:    s.logger,
	}
	if opts.JWTSecret != "" {
		hs.jwtSecret = []byte(opts.JWTSecret)
	}
	return hs
}

// RunHTTP starts the MCP server on an HTTP endpoint and stops when ctx is done.
func (s *Server) RunHTTP(ctx context.Context, addr string, opts HTTPOptions) error {
	return s.NewHTTPServer(addr, opts).ListenAndServe(ctx)
}

// Handler returns the HTTP routes.
func (hs *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	// MCP protocol endpoint (JSON-RPC 2.0)
	mux.Handle("/mcp", hs.requireAuth(http.HandlerFunc(hs.handleMCPRequest)))

	// RESTful endpoints
	mux.Handle("/api/tools", hs.requireAuth(http.HandlerFunc(hs.handleToolsList)))
	mux.Handle("/api/tools/", hs.requireAuth(http.HandlerFunc(hs.handleToolCall)))

	// Health check
	mux.HandleFunc("/health", hs.handleHealth)

	return hs.corsMiddleware(mux)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (hs *HTTPServer) ListenAndServe(ctx context.Context) error {
	if hs.authToken == "" && hs.jwtSecret == nil && !IsLoopback(hs.addr) {
		return fmt.Errorf("%w: %s", ErrPublicWithoutAuth, hs.addr)
	}

	srv := &http.Server{
		Addr:              hs.addr,
		Handler:           hs.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	hs.logger.Info("starting HTTP server", "addr", hs.addr, "tools", hs.server.toolCount())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// IsLoopback reports whether addr binds only to the local host. An empty
// host (":8080") listens on every interface and is not loopback.
func IsLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (hs *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hs *HTTPServer) handleMCPRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hs.sendJSON(w, errorResponse(nil, CodeParseError, "Parse error"))
		return
	}

	// Validate session for non-initialize requests
	if req.Method != "initialize" {
		sessionID := r.Header.Get("Mcp-Session-Id")
		if sessionID == "" || !hs.server.CheckSession(sessionID) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return
		}
	}

	resp := hs.server.HandleRequest(r.Context(), &req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	// Set session ID header for initialize response
	if req.Method == "initialize" && resp.Error == nil {
		if result, ok := resp.Result.(*InitializeResult); ok && result.SessionID != "" {
			w.Header().Set("Mcp-Session-Id", result.SessionID)
		}
	}

	// Choose response format based on Accept header
	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		hs.sendSSE(w, resp)
	} else {
		hs.sendJSON(w, resp)
	}
}

func (hs *HTTPServer) sendJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hs.logger.Warn("write response", "error", err)
	}
}

func (hs *HTTPServer) sendSSE(w http.ResponseWriter, resp *JSONRPCResponse) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		hs.sendJSON(w, resp)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	respBytes, err := json.Marshal(resp)
	if err != nil {
		hs.logger.Warn("encode response", "error", err)
		return
	}
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", respBytes)
	flusher.Flush()
}

func (hs *HTTPServer) handleToolsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	hs.sendJSON(w, &ToolsListResult{Tools: hs.server.Tools()})
}

func (hs *HTTPServer) handleToolCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	toolName := strings.TrimPrefix(r.URL.Path, "/api/tools/")
	if toolName == "" {
		http.Error(w, "Tool name required", http.StatusBadRequest)
		return
	}

	var args map[string]any
	if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, rpcErr := hs.server.CallTool(r.Context(), toolName, args)
	if rpcErr != nil {
		status := http.StatusInternalServerError
		if rpcErr.Code == CodeInvalidParams {
			status = http.StatusNotFound
		}
		hs.writeHTTPError(w, status, rpcErr.Message)
		return
	}
	hs.sendJSON(w, result)
}

func (hs *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	hs.sendJSON(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"server":    hs.server.name,
		"version":   hs.server.version,
	})
}

func (hs *HTTPServer) writeHTTPError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
