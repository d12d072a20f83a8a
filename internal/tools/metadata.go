package tools

import (
	"context"

	"github.com/RobinCoderZhao/capsule-mcp/internal/mapper"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

func metadataTools(s *Session) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        "capsule_list_tag_definitions",
			description: "List all tag definitions in Capsule CRM",
			category:    categoryMetadata,
			schema:      object(nil, props{}),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, _ struct{}) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListTagDefinitions(ctx)
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "tags", "tag definitions"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_custom_fields",
			description: "List all custom field definitions in Capsule CRM",
			category:    categoryMetadata,
			schema:      object(nil, props{}),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, _ struct{}) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListCustomFields(ctx)
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "fields", "custom field definitions"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_users",
			description: "List users in the Capsule CRM account",
			category:    categoryMetadata,
			schema:      object(nil, pageProps()),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListUsers(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "users", "users"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_entry",
			description: "Create a new entry (note/history) in Capsule CRM",
			category:    categoryMetadata,
			schema: object([]string{"content"}, props{
				"content":       str("Content of the entry/note"),
				"type":          str("Type of entry (e.g., note, call, meeting)"),
				"partyId":       integer("ID of the party this entry is related to"),
				"opportunityId": integer("ID of the opportunity this entry is related to"),
				"kaseId":        integer("ID of the project (kase) this entry is related to"),
			}),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.EntryArgs) (*mcpserver.ToolCallResult, error) {
			entry, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateEntry(ctx, entry, capsule.Options{})
			if err != nil {
				return nil, err
			}
			content := field(raw, "entry.content")
			if content == "" {
				content = "New entry"
			}
			return mcpserver.SummaryResult("Created entry: "+preview(content, 50)+"...", raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_entries",
			description: "List entries (notes/history) from Capsule CRM",
			category:    categoryMetadata,
			schema:      listSchema("entries", nil),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListEntries(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "entries", "entries"), raw), nil
		}),
	}
}
