package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/internal/mapper"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

type opportunityIDArgs struct {
	OpportunityID int64     `json:"opportunityId"`
	Embed         embedList `json:"embed"`
}

type opportunityIDsArgs struct {
	OpportunityIDs []int64   `json:"opportunityIds"`
	Embed          embedList `json:"embed"`
}

type byPartyArgs struct {
	PartyID int64 `json:"partyId"`
	paging
}

type opportunityPartiesArgs struct {
	OpportunityID int64 `json:"opportunityId"`
	paging
}

type associationArgs struct {
	OpportunityID int64 `json:"opportunityId"`
	PartyID       int64 `json:"partyId"`
}

type pipelineArgs struct {
	PipelineID int64 `json:"pipelineId"`
}

type milestonesArgs struct {
	PipelineID *int64 `json:"pipelineId"`
	paging
}

type milestoneArgs struct {
	MilestoneID int64 `json:"milestoneId"`
}

func opportunityProps(update bool) props {
	id := integer
	if update {
		id = nullableID
	}
	return merge(props{
		"name":            str("Name of the opportunity"),
		"description":     str("Description of the opportunity"),
		"partyId":         integer("ID of the main contact (party) for this opportunity"),
		"milestoneId":     integer("ID of the milestone/stage for this opportunity"),
		"ownerId":         id("ID of the user who should own this opportunity"),
		"teamId":          id("ID of the team this opportunity should be assigned to"),
		"lostReasonId":    id("ID of the lost reason (if the opportunity is lost)"),
		"expectedCloseOn": str("Expected close date (YYYY-MM-DD)"),
		"probability":     between(integer("Probability of winning (0-100)"), 0, 100),
		"durationBasis":   enum("Time unit used by the duration field", "FIXED", "HOUR", "DAY", "WEEK", "MONTH", "QUARTER", "YEAR"),
		"duration": {
			Types:       []string{"integer", "null"},
			Description: "Duration of the opportunity (must be null if durationBasis is FIXED)",
		},
		"value": object(nil, props{
			"amount":   number("The monetary value of the opportunity"),
			"currency": str("Currency code (e.g., USD, GBP, EUR)"),
		}),
		"tags":         tagItems(update),
		"customFields": fieldItems(update),
	})
}

func opportunityTools(s *Session) []mcpserver.ToolHandler {
	createProps := opportunityProps(false)
	createProps["tracks"] = trackItems()

	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        "capsule_list_opportunities",
			description: "List opportunities from Capsule CRM",
			category:    categoryOpportunity,
			schema:      listSchema("opportunities", opportunityEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListOpportunities(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "opportunities", "opportunities"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_opportunity",
			description: "Get a specific opportunity by ID",
			category:    categoryOpportunity,
			schema:      idSchema("opportunityId", "The ID of the opportunity to retrieve", opportunityEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args opportunityIDArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetOpportunity(ctx, args.OpportunityID, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved opportunity: "+field(raw, "opportunity.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_multiple_opportunities",
			description: "Get several opportunities by ID in a single request",
			category:    categoryOpportunity,
			schema:      multiIDSchema("opportunityIds", "IDs of the opportunities to retrieve", opportunityEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args opportunityIDsArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetOpportunities(ctx, args.OpportunityIDs, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(fmt.Sprintf("Retrieved %d opportunities", count(raw, "opportunities")), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_opportunities_by_party",
			description: "List opportunities for a specific party",
			category:    categoryOpportunity,
			schema:      pagedByIDSchema("partyId", "The ID of the party", opportunityEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args byPartyArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListOpportunitiesByParty(ctx, args.PartyID, args.options())
			if err != nil {
				return nil, err
			}
			summary := fmt.Sprintf("Found %d opportunities for party ID %d", count(raw, "opportunities"), args.PartyID)
			return mcpserver.SummaryResult(summary, raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_search_opportunities",
			description: "Search for opportunities using a query string",
			category:    categoryOpportunity,
			schema:      searchSchema(opportunityEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args searchArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.SearchOpportunities(ctx, args.Query, args.options())
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(matching(raw, "opportunities", "opportunities", args.Query), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_opportunity",
			description: "Create a new opportunity in Capsule CRM",
			category:    categoryOpportunity,
			schema:      object([]string{"name", "partyId", "milestoneId"}, createProps),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.OpportunityArgs) (*mcpserver.ToolCallResult, error) {
			opp, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateOpportunity(ctx, opp, capsule.Embed("tags", "fields", "party", "milestone"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Created opportunity: "+field(raw, "opportunity.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_update_opportunity",
			description: "Update an existing opportunity. List entries with an id update that entry; add \"_delete\": true to remove it.",
			category:    categoryOpportunity,
			schema: object([]string{"opportunityId"}, merge(opportunityProps(true), props{
				"opportunityId": integer("The ID of the opportunity to update"),
			})),
			annotations: updates,
		}, func(ctx context.Context, c *capsule.Client, args mapper.OpportunityUpdateArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.UpdateOpportunity(ctx, args.ID(), args.Payload(), capsule.Embed("tags", "fields", "party", "milestone"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Updated opportunity: "+field(raw, "opportunity.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_delete_opportunity",
			description: "Delete an opportunity from Capsule CRM",
			category:    categoryOpportunity,
			schema:      idSchema("opportunityId", "The ID of the opportunity to delete", nil),
			annotations: destructive,
		}, func(ctx context.Context, c *capsule.Client, args opportunityIDArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.DeleteOpportunity(ctx, args.OpportunityID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Opportunity with ID %d has been successfully deleted.", args.OpportunityID)), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_opportunity_parties",
			description: "List the additional parties associated with an opportunity",
			category:    categoryOpportunity,
			schema:      pagedByIDSchema("opportunityId", "The ID of the opportunity", partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args opportunityPartiesArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListOpportunityParties(ctx, args.OpportunityID, args.options())
			if err != nil {
				return nil, err
			}
			summary := fmt.Sprintf("Found %d additional parties for opportunity ID %d", count(raw, "parties"), args.OpportunityID)
			return mcpserver.SummaryResult(summary, raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_add_party_to_opportunity",
			description: "Associate an additional party with an opportunity",
			category:    categoryOpportunity,
			schema: object([]string{"opportunityId", "partyId"}, props{
				"opportunityId": integer("The ID of the opportunity"),
				"partyId":       integer("The ID of the party to add"),
			}),
			annotations: updates,
		}, func(ctx context.Context, c *capsule.Client, args associationArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.AddPartyToOpportunity(ctx, args.OpportunityID, args.PartyID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Party %d has been added to opportunity %d.", args.PartyID, args.OpportunityID)), nil
		}),

		newTool(s, spec{
			name:        "capsule_remove_party_from_opportunity",
			description: "Remove an additional party from an opportunity",
			category:    categoryOpportunity,
			schema: object([]string{"opportunityId", "partyId"}, props{
				"opportunityId": integer("The ID of the opportunity"),
				"partyId":       integer("The ID of the party to remove"),
			}),
			annotations: destructive,
		}, func(ctx context.Context, c *capsule.Client, args associationArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.RemovePartyFromOpportunity(ctx, args.OpportunityID, args.PartyID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Party %d has been removed from opportunity %d.", args.PartyID, args.OpportunityID)), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_pipelines",
			description: "List all sales pipelines in Capsule CRM",
			category:    categoryOpportunity,
			schema:      object(nil, props{}),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, _ struct{}) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListPipelines(ctx)
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "pipelines", "pipelines"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_pipeline",
			description: "Get a specific sales pipeline by ID",
			category:    categoryOpportunity,
			schema:      idSchema("pipelineId", "The ID of the pipeline", nil),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args pipelineArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetPipeline(ctx, args.PipelineID)
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved pipeline: "+field(raw, "pipeline.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_milestones",
			description: "List all opportunity milestones/stages, optionally for one pipeline",
			category:    categoryOpportunity,
			schema: object(nil, merge(props{
				"pipelineId": integer("Filter milestones by specific pipeline ID"),
			}, pageProps())),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args milestonesArgs) (*mcpserver.ToolCallResult, error) {
			var (
				raw json.RawMessage
				err error
			)
			if args.PipelineID != nil {
				raw, err = c.ListMilestonesByPipeline(ctx, *args.PipelineID)
			} else {
				raw, err = c.ListMilestones(ctx, args.options())
			}
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "milestones", "milestones"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_milestone",
			description: "Get a specific milestone by ID",
			category:    categoryOpportunity,
			schema:      idSchema("milestoneId", "The ID of the milestone", nil),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args milestoneArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetMilestone(ctx, args.MilestoneID)
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved milestone: "+field(raw, "milestone.name"), raw), nil
		}),
	}
}
