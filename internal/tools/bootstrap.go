package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

var errNoToken = errors.New("API token not set. Please use capsule_set_api_token first.")

type setTokenArgs struct {
	APIToken string `json:"apiToken"`
}

type testConnectionArgs struct {
	RandomString string `json:"random_string"`
}

// bootstrapTools work before a client exists. Their failures are protocol
// faults rather than error results.
func bootstrapTools(s *Session) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        SetAPITokenTool,
			description: "Set the Capsule CRM API token for authentication",
			category:    categoryAuth,
			schema: object([]string{"apiToken"}, props{
				"apiToken": str("Your Capsule CRM API token (get it from Account Settings > API Authentication)"),
			}),
			annotations: &mcpserver.ToolAnnotations{IdempotentHint: true},
			faults:      true,
		}, func(_ context.Context, _ *capsule.Client, args setTokenArgs) (*mcpserver.ToolCallResult, error) {
			if err := s.Authenticate(args.APIToken); err != nil {
				return nil, fmt.Errorf("Failed to set API token: %w", err)
			}
			return mcpserver.TextResult("API token set successfully. Capsule CRM client initialized."), nil
		}),

		newTool(s, spec{
			name:        TestConnectionTool,
			description: "Test the connection to Capsule CRM API",
			category:    categoryAuth,
			schema: object([]string{"random_string"}, props{
				"random_string": str("Dummy parameter for no-parameter tools"),
			}),
			annotations: readOnly,
			faults:      true,
		}, func(ctx context.Context, c *capsule.Client, _ testConnectionArgs) (*mcpserver.ToolCallResult, error) {
			if c == nil {
				return nil, errNoToken
			}
			raw, err := c.CurrentUser(ctx)
			if err != nil {
				return nil, fmt.Errorf("Connection test failed: %w", err)
			}
			return mcpserver.TextResult(fmt.Sprintf("Connection successful! Authenticated as: %s (%s)",
				field(raw, "user.name"), field(raw, "user.username"))), nil
		}),
	}
}
