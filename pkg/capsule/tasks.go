package capsule

import (
	"context"
	"encoding/json"
	"fmt"
)

func (c *Client) ListTasks(ctx context.Context, opts Options) (json.RawMessage, error) {
	return c.get(ctx, "/tasks", opts)
}

func (c *Client) GetTask(ctx context.Context, id int64, opts Options) (json.RawMessage, error) {
	return c.get(ctx, fmt.Sprintf("/tasks/%d", id), opts)
}

func (c *Client) CreateTask(ctx context.Context, t Task, opts Options) (json.RawMessage, error) {
	return c.post(ctx, "/tasks", opts, envelope("task", t))
}

func (c *Client) UpdateTask(ctx context.Context, id int64, t Task, opts Options) (json.RawMessage, error) {
	return c.put(ctx, fmt.Sprintf("/tasks/%d", id), opts, envelope("task", t))
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/tasks/%d", id))
}

func (c *Client) SearchTasks(ctx context.Context, query string, opts Options) (json.RawMessage, error) {
	opts.Query = query
	return c.get(ctx, "/tasks/search", opts)
}
