package capsule

import (
	"context"
	"encoding/json"
	"fmt"
)

func (c *Client) ListOpportunities(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/opportunities", opts)
}

// ListOpportunitiesByParty lists opportunities whose main party is partyID.
func (c *Client) ListOpportunitiesByParty(ctx context.Context, partyID int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/parties/%d/opportunities", partyID), opts)
}

func (c *Client) GetOpportunity(ctx context.Context, id int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/opportunities/%d", id), opts)
}

func (c *Client) GetOpportunities(ctx context.Context, ids []int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/opportunities/"+joinIDs(ids), opts)
}

func (c *Client) CreateOpportunity(ctx context.Context, o Opportunity, opts Options) (json.RawMessage, error) {
	return c.post(ctx, "/opportunities", opts, envelope("opportunity", o))
}

func (c *Client) UpdateOpportunity(ctx context.Context, id int64, o Opportunity, opts Options) (json.RawMessage, error) {
	return c.put(ctx, fmt.Sprintf("/opportunities/%d", id), opts, envelope("opportunity", o))
}

func (c *Client) DeleteOpportunity(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/opportunities/%d", id))
}

func (c *Client) SearchOpportunities(ctx context.Context, query string, opts Options) (json.RawMessage, error) {
	opts.Query = query
	return c.get(ctx, "/opportunities/search", opts)
}

// ListOpportunityParties lists the additional parties of an opportunity.
func (c *Client) ListOpportunityParties(ctx context.Context, id int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/opportunities/%d/parties", id), opts)
}

// AddPartyToOpportunity associates an additional party.
func (c *Client) AddPartyToOpportunity(ctx context.Context, id, partyID int64) error {
	_, err := c.post(ctx, fmt.Sprintf("/opportunities/%d/parties/%d", id, partyID), Options{}, nil)
	return err
}

// RemovePartyFromOpportunity removes an additional party.
func (c *Client) RemovePartyFromOpportunity(ctx context.Context, id, partyID int64) error {
	return c.delete(ctx, fmt.Sprintf("/opportunities/%d/parties/%d", id, partyID))
}
