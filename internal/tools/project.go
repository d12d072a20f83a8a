package tools

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/internal/mapper"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

type projectIDArgs struct {
	ProjectID int64     `json:"projectId"`
	Embed     embedList `json:"embed"`
}

func projectProps(update bool) props {
	id := integer
	if update {
		id = nullableID
	}
	return props{
		"name":            str("Name of the project"),
		"description":     str("Description of the project"),
		"partyId":         integer("ID of the party this project is for"),
		"opportunityId":   id("ID of the related opportunity"),
		"stageId":         id("ID of the project stage"),
		"ownerId":         id("ID of the user who should own this project"),
		"teamId":          id("ID of the team this project should be assigned to"),
		"status":          enum("Status of the project", mapper.StatusOpen, mapper.StatusClosed),
		"expectedCloseOn": str("Expected close date (YYYY-MM-DD)"),
		"closedOn":        str("Date the project was closed (YYYY-MM-DD)"),
		"tags":            tagItems(update),
		"customFields":    fieldItems(update),
	}
}

func projectTools(s *Session) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        "capsule_list_projects",
			description: "List projects (cases) from Capsule CRM",
			category:    categoryProject,
			schema:      listSchema("projects", projectEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListProjects(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "kases", "projects"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_project",
			description: "Get a specific project by ID",
			category:    categoryProject,
			schema:      idSchema("projectId", "The ID of the project to retrieve", projectEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args projectIDArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetProject(ctx, args.ProjectID, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved project: "+field(raw, "kase.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_projects_by_party",
			description: "List projects for a specific party",
			category:    categoryProject,
			schema:      pagedByIDSchema("partyId", "The ID of the party", projectEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args byPartyArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListProjectsByParty(ctx, args.PartyID, args.options())
			if err != nil {
				return nil, err
			}
			summary := fmt.Sprintf("Found %d projects for party ID %d", count(raw, "kases"), args.PartyID)
			return mcpserver.SummaryResult(summary, raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_search_projects",
			description: "Search for projects using a query string",
			category:    categoryProject,
			schema:      searchSchema(projectEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args searchArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.SearchProjects(ctx, args.Query, args.options())
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(matching(raw, "kases", "projects", args.Query), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_project",
			description: "Create a new project in Capsule CRM",
			category:    categoryProject,
			schema:      object([]string{"name", "partyId"}, projectProps(false)),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.ProjectArgs) (*mcpserver.ToolCallResult, error) {
			project, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateProject(ctx, project, capsule.Embed("tags", "fields", "party", "opportunity"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Created project: "+field(raw, "kase.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_update_project",
			description: "Update an existing project. List entries with an id update that entry; add \"_delete\": true to remove it.",
			category:    categoryProject,
			schema: object([]string{"projectId"}, merge(projectProps(true), props{
				"projectId": integer("The ID of the project to update"),
			})),
			annotations: updates,
		}, func(ctx context.Context, c *capsule.Client, args mapper.ProjectUpdateArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.UpdateProject(ctx, args.ID(), args.Payload(), capsule.Embed("tags", "fields", "party", "opportunity"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Updated project: "+field(raw, "kase.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_delete_project",
			description: "Delete a project from Capsule CRM",
			category:    categoryProject,
			schema:      idSchema("projectId", "The ID of the project to delete", nil),
			annotations: destructive,
		}, func(ctx context.Context, c *capsule.Client, args projectIDArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.DeleteProject(ctx, args.ProjectID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Project with ID %d has been successfully deleted.", args.ProjectID)), nil
		}),
	}
}
