package capsule

import (
	"context"
	"encoding/json"
	"fmt"
)

// CurrentUser returns {"user": {...}} for the token's owner.
func (c *Client) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/users/me", Options{})
}

func (c *Client) ListUsers(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/users", opts)
}

func (c *Client) ListPipelines(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/pipelines", Options{})
}

func (c *Client) GetPipeline(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/pipelines/%d", id), Options{})
}

func (c *Client) ListMilestones(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/milestones", opts)
}

func (c *Client) ListMilestonesByPipeline(ctx context.Context, pipelineID int64) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/pipelines/%d/milestones", pipelineID), Options{})
}

func (c *Client) GetMilestone(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/milestones/%d", id), Options{})
}

// ListTagDefinitions lists the tags defined on the account.
func (c *Client) ListTagDefinitions(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/tags", Options{})
}

// ListCustomFields lists custom field definitions.
func (c *Client) ListCustomFields(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/fields", Options{})
}

// ListEntries lists history entries (notes, emails, ...).
func (c *Client) ListEntries(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/entries", opts)
}

func (c *Client) CreateEntry(ctx context.Context, e Entry, opts Options) (json.RawMessage, error) {
	return c.post(ctx, "/entries", opts, envelope("entry", e))
}
