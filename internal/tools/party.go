package tools

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/internal/mapper"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

type partyIDArgs struct {
	PartyID int64     `json:"partyId"`
	Embed   embedList `json:"embed"`
}

type partyIDsArgs struct {
	PartyIDs []int64   `json:"partyIds"`
	Embed    embedList `json:"embed"`
}

type searchArgs struct {
	Query string `json:"query"`
	paging
}

type employeesArgs struct {
	OrganizationID int64 `json:"organizationId"`
	paging
}

func contactProps(update bool) props {
	return props{
		"emailAddresses": emailItems(update),
		"phoneNumbers":   phoneItems(update),
		"addresses":      addressItems(update),
		"websites":       websiteItems(update),
		"tags":           tagItems(update),
		"customFields":   fieldItems(update),
	}
}

func partyTools(s *Session) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        "capsule_list_parties",
			description: "List parties (contacts and organizations) from Capsule CRM",
			category:    categoryParty,
			schema:      listSchema("parties", partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListParties(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "parties", "parties"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_party",
			description: "Get a specific party (contact or organization) by ID",
			category:    categoryParty,
			schema:      idSchema("partyId", "The ID of the party to retrieve", partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args partyIDArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetParty(ctx, args.PartyID, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved party: "+partyName(raw, "party"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_multiple_parties",
			description: "Get several parties by ID in a single request",
			category:    categoryParty,
			schema:      multiIDSchema("partyIds", "IDs of the parties to retrieve", partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args partyIDsArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetParties(ctx, args.PartyIDs, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(fmt.Sprintf("Retrieved %d parties", count(raw, "parties")), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_search_parties",
			description: "Search for parties using a query string",
			category:    categoryParty,
			schema:      searchSchema(partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args searchArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.SearchParties(ctx, args.Query, args.options())
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(matching(raw, "parties", "parties", args.Query), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_person",
			description: "Create a new person (contact) in Capsule CRM",
			category:    categoryParty,
			schema: object([]string{"firstName", "lastName"}, merge(props{
				"firstName":        str("First name of the person"),
				"lastName":         str("Last name of the person"),
				"title":            str("Title of the person (Mr, Mrs, Dr, etc.)"),
				"jobTitle":         str("Job title"),
				"about":            str("Description about the person"),
				"organizationId":   integer("ID of the organization this person belongs to"),
				"organizationName": str("Name of organization (created if it does not exist)"),
				"ownerId":          integer("ID of the user who should own this contact"),
				"teamId":           integer("ID of the team this contact should be assigned to"),
			}, contactProps(false))),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.PersonArgs) (*mcpserver.ToolCallResult, error) {
			party, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateParty(ctx, party, capsule.Embed("tags", "fields", "organisation"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Created person: "+partyName(raw, "party"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_organization",
			description: "Create a new organization in Capsule CRM",
			category:    categoryParty,
			schema: object([]string{"name"}, merge(props{
				"name":    str("Name of the organization"),
				"about":   str("Description about the organization"),
				"ownerId": integer("ID of the user who should own this organization"),
				"teamId":  integer("ID of the team this organization should be assigned to"),
			}, contactProps(false))),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.OrganisationArgs) (*mcpserver.ToolCallResult, error) {
			party, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateParty(ctx, party, capsule.Embed("tags", "fields"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Created organization: "+field(raw, "party.name"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_update_party",
			description: "Update an existing party (contact or organization). List entries with an id update that entry; add \"_delete\": true to remove it.",
			category:    categoryParty,
			schema: object([]string{"partyId"}, merge(props{
				"partyId":          integer("The ID of the party to update"),
				"firstName":        str("First name (for persons)"),
				"lastName":         str("Last name (for persons)"),
				"title":            str("Title (for persons)"),
				"jobTitle":         str("Job title (for persons)"),
				"name":             str("Name (for organizations)"),
				"about":            str("Description about the party"),
				"organizationId":   nullableID("ID of the organization (for persons)"),
				"organizationName": str("Name of the organization (for persons)"),
				"ownerId":          nullableID("ID of the user who should own this party"),
				"teamId":           nullableID("ID of the team this party should be assigned to"),
			}, contactProps(true))),
			annotations: updates,
		}, func(ctx context.Context, c *capsule.Client, args mapper.PartyUpdateArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.UpdateParty(ctx, args.ID(), args.Payload(), capsule.Embed("tags", "fields", "organisation"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Updated party: "+partyName(raw, "party"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_delete_party",
			description: "Delete a party (contact or organization) from Capsule CRM",
			category:    categoryParty,
			schema:      idSchema("partyId", "The ID of the party to delete", nil),
			annotations: destructive,
		}, func(ctx context.Context, c *capsule.Client, args partyIDArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.DeleteParty(ctx, args.PartyID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Party with ID %d has been successfully deleted.", args.PartyID)), nil
		}),

		newTool(s, spec{
			name:        "capsule_list_employees",
			description: "List employees (people) of a specific organization",
			category:    categoryParty,
			schema:      pagedByIDSchema("organizationId", "The ID of the organization", partyEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args employeesArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListEmployees(ctx, args.OrganizationID, args.options())
			if err != nil {
				return nil, err
			}
			summary := fmt.Sprintf("Found %d employees for organization ID %d", count(raw, "parties"), args.OrganizationID)
			return mcpserver.SummaryResult(summary, raw), nil
		}),
	}
}
