package mcpserver

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware logs every request at debug level with its duration.
// tools/call requests carry the tool name; JSON-RPC errors are logged at
// error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse {
			attrs := []any{"method", req.Method, "id", req.ID}
			if req.Method == "tools/call" {
				var params ToolCallParams
				if decodeParams(req.Params, &params) == nil {
					attrs = append(attrs, "tool", params.Name)
				}
			}

			start := time.Now()
			resp := next(ctx, req)
			attrs = append(attrs, "duration", time.Since(start))

			if resp != nil && resp.Error != nil {
				logger.Error("mcp error", append(attrs, "code", resp.Error.Code, "message", resp.Error.Message)...)
				return resp
			}
			logger.Debug("mcp request", attrs...)
			return resp
		}
	}
}

// RecoveryMiddleware catches panics and returns a JSON-RPC error.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *JSONRPCRequest) (resp *JSONRPCResponse) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic in MCP handler", "method", req.Method, "panic", r)
					resp = &JSONRPCResponse{
						JSONRPC: "2.0",
						ID:      req.ID,
						Error: &RPCError{
							Code:    CodeInternalError,
							Message: "Internal error",
						},
					}
				}
			}()
			return next(ctx, req)
		}
	}
}
