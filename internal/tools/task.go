package tools

import (
	"context"
	"fmt"

	"github.com/RobinCoderZhao/capsule-mcp/internal/mapper"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/capsule"
	"github.com/RobinCoderZhao/capsule-mcp/pkg/mcpserver"
)

type taskIDArgs struct {
	TaskID int64     `json:"taskId"`
	Embed  embedList `json:"embed"`
}

func taskProps(update bool) props {
	id := integer
	if update {
		id = nullableID
	}
	return props{
		"description":   str("Short description of the task"),
		"detail":        str("Longer detail of the task"),
		"dueOn":         str("Due date (YYYY-MM-DD)"),
		"dueTime":       str("Due time (HH:MM:SS)"),
		"completed":     boolean("Whether the task is completed"),
		"categoryId":    id("ID of the task category"),
		"partyId":       id("ID of the related party"),
		"opportunityId": id("ID of the related opportunity"),
		"kaseId":        id("ID of the related project (kase)"),
		"ownerId":       id("ID of the user who should own this task"),
		"teamId":        id("ID of the team this task should be assigned to"),
		"tags":          tagItems(update),
		"customFields":  fieldItems(update),
	}
}

func taskTools(s *Session) []mcpserver.ToolHandler {
	return []mcpserver.ToolHandler{
		newTool(s, spec{
			name:        "capsule_list_tasks",
			description: "List tasks from Capsule CRM",
			category:    categoryTask,
			schema:      listSchema("tasks", taskEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args map[string]any) (*mcpserver.ToolCallResult, error) {
			raw, err := c.ListTasks(ctx, OptionsFromArgs(args))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(found(raw, "tasks", "tasks"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_get_task",
			description: "Get a specific task by ID",
			category:    categoryTask,
			schema:      idSchema("taskId", "The ID of the task to retrieve", taskEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args taskIDArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.GetTask(ctx, args.TaskID, capsule.Options{Embed: args.Embed})
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Retrieved task: "+field(raw, "task.description"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_search_tasks",
			description: "Search for tasks using a query string",
			category:    categoryTask,
			schema:      searchSchema(taskEmbeds),
			annotations: readOnly,
		}, func(ctx context.Context, c *capsule.Client, args searchArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.SearchTasks(ctx, args.Query, args.options())
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult(matching(raw, "tasks", "tasks", args.Query), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_create_task",
			description: "Create a new task in Capsule CRM",
			category:    categoryTask,
			schema:      object([]string{"description"}, taskProps(false)),
			annotations: writes,
		}, func(ctx context.Context, c *capsule.Client, args mapper.TaskArgs) (*mcpserver.ToolCallResult, error) {
			task, err := args.Payload()
			if err != nil {
				return nil, err
			}
			raw, err := c.CreateTask(ctx, task, capsule.Embed("tags", "fields"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Created task: "+field(raw, "task.description"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_update_task",
			description: "Update an existing task. List entries with an id update that entry; add \"_delete\": true to remove it.",
			category:    categoryTask,
			schema: object([]string{"taskId"}, merge(taskProps(true), props{
				"taskId": integer("The ID of the task to update"),
			})),
			annotations: updates,
		}, func(ctx context.Context, c *capsule.Client, args mapper.TaskUpdateArgs) (*mcpserver.ToolCallResult, error) {
			raw, err := c.UpdateTask(ctx, args.ID(), args.Payload(), capsule.Embed("tags", "fields"))
			if err != nil {
				return nil, err
			}
			return mcpserver.SummaryResult("Updated task: "+field(raw, "task.description"), raw), nil
		}),

		newTool(s, spec{
			name:        "capsule_delete_task",
			description: "Delete a task from Capsule CRM",
			category:    categoryTask,
			schema:      idSchema("taskId", "The ID of the task to delete", nil),
			annotations: destructive,
		}, func(ctx context.Context, c *capsule.Client, args taskIDArgs) (*mcpserver.ToolCallResult, error) {
			if err := c.DeleteTask(ctx, args.TaskID); err != nil {
				return nil, err
			}
			return mcpserver.TextResult(fmt.Sprintf("Task with ID %d has been successfully deleted.", args.TaskID)), nil
		}),

		completionTool(s, "capsule_mark_task_complete", "Mark a task as completed", true),
		completionTool(s, "capsule_mark_task_incomplete", "Mark a task as not completed", false),
	}
}

func completionTool(s *Session, name, description string, done bool) mcpserver.ToolHandler {
	state := "incomplete"
	if done {
		state = "complete"
	}
	return newTool(s, spec{
		name:        name,
		description: description,
		category:    categoryTask,
		schema:      idSchema("taskId", "The ID of the task", nil),
		annotations: updates,
	}, func(ctx context.Context, c *capsule.Client, args taskIDArgs) (*mcpserver.ToolCallResult, error) {
		raw, err := c.UpdateTask(ctx, args.TaskID, mapper.CompletionPayload(done), capsule.Options{})
		if err != nil {
			return nil, err
		}
		return mcpserver.SummaryResult(fmt.Sprintf("Task marked as %s: %s", state, field(raw, "task.description")), raw), nil
	})
}
