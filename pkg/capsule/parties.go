package capsule

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ListParties lists people and organisations.
func (c *Client) ListParties(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/parties", opts)
}

// GetParty fetches a single party.
func (c *Client) GetParty(ctx context.Context, id int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/parties/%d", id), opts)
}

// GetParties fetches several parties in one call.
func (c *Client) GetParties(ctx context.Context, ids []int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/parties/"+joinIDs(ids), opts)
}

// CreateParty creates a person or organisation.
func (c *Client) CreateParty(ctx context.Context, p Party, opts Options) (json.RawMessage, error) {
	return c.post(ctx, "/parties", opts, envelope("party", p))
}

// UpdateParty updates the fields present in p.
func (c *Client) UpdateParty(ctx context.Context, id int64, p Party, opts Options) (json.RawMessage, error) {
	return c.put(ctx, fmt.Sprintf("/parties/%d", id), opts, envelope("party", p))
}

// DeleteParty deletes a party.
func (c *Client) DeleteParty(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/parties/%d", id))
}

// SearchParties runs a free-text search.
func (c *Client) SearchParties(ctx context.Context, query string, opts Options) (json.RawMessage, error) {
	opts.Query = query
	return c.get(ctx, "/parties/search", opts)
}

// ListEmployees lists the people of an organisation.
func (c *Client) ListEmployees(ctx context.Context, organisationID int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/parties/%d/people", organisationID), opts)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
