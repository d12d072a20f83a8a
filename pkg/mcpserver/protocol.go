package mcpserver

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// JSON-RPC 2.0 protocol types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *JSONRPCRequest) IsNotification() bool { return r.ID == nil }

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message) }

// MCP protocol types

// InitializeResult is the response to an initialize request.
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
	SessionID       string             `json:"sessionId,omitempty"`
}

// ServerCapabilities describes the server's supported features.
type ServerCapabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability describes the tools capability.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo describes the server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolAnnotations are behavior hints for clients.
type ToolAnnotations struct {
	Title           string `json:"title,omitempty"`
	ReadOnlyHint    bool   `json:"readOnlyHint,omitempty"`
	DestructiveHint bool   `json:"destructiveHint,omitempty"`
	IdempotentHint  bool   `json:"idempotentHint,omitempty"`
	OpenWorldHint   bool   `json:"openWorldHint,omitempty"`
}

// ToolDef represents a tool definition for listing.
type ToolDef struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	InputSchema map[string]any   `json:"inputSchema"`
	Annotations *ToolAnnotations `json:"annotations,omitempty"`
}

// ToolsListResult is the result of a tools/list request.
type ToolsListResult struct {
	Tools []ToolDef `json:"tools"`
}

// ToolCallParams are the params of a tools/call request.
type ToolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// ToolCallResult is the standard result from executing a tool.
type ToolCallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns the concatenated text content.
func (r *ToolCallResult) Text() string {
	var b bytes.Buffer
	for _, c := range r.Content {
		b.WriteString(c.Text)
	}
	return b.String()
}

// Content represents a piece of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

var prettyOptions = &pretty.Options{Indent: "  "}

// PrettyJSON renders data with two-space indentation. Raw JSON keeps its key
// order; other values are marshalled first.
func PrettyJSON(data any) (string, error) {
	var raw []byte
	switch v := data.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		raw = b
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("null")
	}
	return string(bytes.TrimRight(pretty.PrettyOptions(raw, prettyOptions), "\n")), nil
}

// SuccessResult creates a successful ToolCallResult from any data.
func SuccessResult(data any) *ToolCallResult {
	text, err := PrettyJSON(data)
	if err != nil {
		return ErrorResult(err)
	}
	return TextResult(text)
}

// SummaryResult creates a successful ToolCallResult holding a summary line
// followed by the pretty-printed data.
func SummaryResult(summary string, data any) *ToolCallResult {
	text, err := PrettyJSON(data)
	if err != nil {
		return ErrorResult(err)
	}
	return TextResult(summary + "\n\n" + text)
}

// TextResult creates a ToolCallResult with a plain text message.
func TextResult(text string) *ToolCallResult {
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: text}},
	}
}

// ErrorResult creates an error ToolCallResult.
func ErrorResult(err error) *ToolCallResult {
	return ErrorText("Error: " + err.Error())
}

// ErrorText creates an error ToolCallResult with text used verbatim.
func ErrorText(text string) *ToolCallResult {
	return &ToolCallResult{
		Content: []Content{{Type: "text", Text: text}},
		IsError: true,
	}
}
