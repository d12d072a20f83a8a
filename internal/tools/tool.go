package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

// Tool categories.
const (
	categoryAuth        = "auth"
	categoryParty       = "parties"
	categoryOpportunity = "opportunities"
	categoryProject     = "projects"
	categoryTask        = "tasks"
	categoryMetadata    = "metadata"
)

var (
	readOnly    = &mcpserver.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: true}
	writes      = &mcpserver.ToolAnnotations{OpenWorldHint: true}
	updates     = &mcpserver.ToolAnnotations{IdempotentHint: true, OpenWorldHint: true}
	destructive = &mcpserver.ToolAnnotations{DestructiveHint: true, IdempotentHint: true, OpenWorldHint: true}
)

// handler runs one decoded tool call.
type handler[T any] func(ctx context.Context, c *capsule.Client, args T) (*mcpserver.ToolCallResult, error)

// spec describes a tool before it is bound to a session.
type spec struct {
	name        string
	description string
	category    string
	schema      *jsonschema.Schema
	annotations *mcpserver.ToolAnnotations

	// faults makes handler errors protocol faults instead of error results.
	faults bool
}

// tool validates the raw arguments against its schema, decodes them into T
// and runs the handler with the session's current client.
type tool[T any] struct {
	mcpserver.BaseTool
	resolved *jsonschema.Resolved
	session  *Session
	faults   bool
	run      handler[T]
}

func newTool[T any](s *Session, sp spec, run handler[T]) *tool[T] {
	return &tool[T]{
		BaseTool: mcpserver.BaseTool{
			ToolName:        sp.name,
			ToolDescription: sp.description,
			ToolSchema:      toMap(sp.schema),
			ToolAnnotations: sp.annotations,
			Category:        sp.category,
		},
		resolved: resolve(sp.schema),
		session:  s,
		faults:   sp.faults,
		run:      run,
	}
}

func (t *tool[T]) Execute(ctx context.Context, args map[string]any) (*mcpserver.ToolCallResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	if err := t.resolved.Validate(args); err != nil {
		return mcpserver.ErrorResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}
	var in T
	if err := decodeArgs(args, &in); err != nil {
		return mcpserver.ErrorResult(fmt.Errorf("invalid arguments: %w", err)), nil
	}

	client := t.session.Client()
	if client == nil && !t.faults {
		return t.session.Guard(ctx, t.ToolName), nil
	}

	result, err := t.run(ctx, client, in)
	if err != nil {
		if t.faults {
			return nil, err
		}
		return mcpserver.ErrorResult(err), nil
	}
	return result, nil
}

func decodeArgs(args map[string]any, out any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
