package mcpserver

import "context"

// ToolHandler is the interface for MCP tools.
type ToolHandler interface {
	// Name returns the unique tool name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input.
	InputSchema() map[string]any

	// Annotations returns behavior hints for clients, or nil.
	Annotations() *ToolAnnotations

	// Execute runs the tool with the given arguments. Data failures belong in
	// the result (ErrorResult); a returned error is reported as a protocol
	// fault.
	Execute(ctx context.Context, args map[string]any) (*ToolCallResult, error)
}

// BaseTool provides a base implementation for common tool fields.
// Embed this in your tool structs and implement Execute().
type BaseTool struct {
	ToolName        string
	ToolDescription string
	ToolSchema      map[string]any
	ToolAnnotations *ToolAnnotations

	// Category groups tools in listings.
	Category string
}

func (t *BaseTool) Name() string                  { return t.ToolName }
func (t *BaseTool) Description() string           { return t.ToolDescription }
func (t *BaseTool) InputSchema() map[string]any   { return t.ToolSchema }
func (t *BaseTool) Annotations() *ToolAnnotations { return t.ToolAnnotations }

// Guard runs before a tool is looked up. A non-nil result is returned to the
// caller instead of executing the tool.
type Guard func(ctx context.Context, name string) *ToolCallResult

// Middleware is a function that wraps a request handler.
type Middleware func(next HandlerFunc) HandlerFunc

// HandlerFunc is a function that handles a JSON-RPC request.
type HandlerFunc func(ctx context.Context, req *JSONRPCRequest) *JSONRPCResponse
