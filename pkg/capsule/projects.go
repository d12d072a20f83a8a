package capsule

import (
	"context"
	"encoding/json"
	"fmt"
)

// Projects are called "kases" by the API.

func (c *Client) ListProjects(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/kases", opts)
}

func (c *Client) ListProjectsByParty(ctx context.Context, partyID int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/parties/%d/kases", partyID), opts)
}

func (c *Client) GetProject(ctx context.Context, id int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/kases/%d", id), opts)
}

func (c *Client) CreateProject(ctx context.Context, p Project, opts Options) (json.RawMessage, error) {
	return c.post(ctx, "/kases", opts, envelope("kase", p))
}

func (c *Client) UpdateProject(ctx context.Context, id int64, p Project, opts Options) (json.RawMessage, error) {
	return c.put(ctx, fmt.Sprintf("/kases/%d", id), opts, envelope("kase", p))
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/kases/%d", id))
}

func (c *Client) SearchProjects(ctx context.Context, query string, opts Options) (json.RawMessage, error) {
	opts.Query = query
	return c.get(ctx, "/kases/search", opts)
}
