package assist

import "github.com/anthropics/anthropic-sdk-go"

// Tools returns the tool definitions for function calling
func Tools() []anthropic.ToolUnionParam {
	toolParams := []anthropic.ToolParam{
		{
			Name:        "create_task",
			Description: anthropic.String("Create a new task (task, bug, feature, chore, or project). Returns the created task ID."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"title":       map[string]interface{}{"type": "string", "description": "Task title (required)"},
					"description": map[string]interface{}{"type": "string", "description": "Detailed description"},
					"type":        map[string]interface{}{"type": "string", "enum": []string{"task", "bug", "feature", "chore", "project"}, "description": "Task type (default: task)"},
					"priority":    map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 4, "description": "Priority 0-4 (0=highest, default: 2)"},
					"assignee":    map[string]interface{}{"type": "string", "description": "Member ID to assign"},
				},
				Required: []string{"title"},
			},
		},
		{
			Name:        "get_task",
			Description: anthropic.String("Get detailed information about a specific task."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"task_id": map[string]interface{}{"type": "string", "description": "Task ID (required)"},
				},
				Required: []string{"task_id"},
			},
		},
		{
			Name:        "search_tasks",
			Description: anthropic.String("Search tasks by text query. Searches titles, descriptions, and notes."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"query":  map[string]interface{}{"type": "string", "description": "Search query"},
					"status": map[string]interface{}{"type": "string", "enum": []string{"open", "in_progress", "blocked", "done"}, "description": "Filter by status (optional)"},
					"type":   map[string]interface{}{"type": "string", "enum": []string{"task", "bug", "feature", "chore", "project"}, "description": "Filter by type (optional)"},
					"limit":  map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 50, "description": "Max results (default: 10)"},
				},
			},
		},
		{
			Name:        "update_task_status",
			Description: anthropic.String("Move a task to a new status (open, in_progress, blocked, or done)."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"task_id": map[string]interface{}{"type": "string", "description": "Task ID (required)"},
					"status":  map[string]interface{}{"type": "string", "enum": []string{"open", "in_progress", "blocked", "done"}, "description": "New status (required)"},
				},
				Required: []string{"task_id", "status"},
			},
		},
		{
			Name:        "list_members",
			Description: anthropic.String("List team members with their roles and IDs."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"include_inactive": map[string]interface{}{"type": "boolean", "description": "Include deactivated members (default: false)"},
				},
			},
		},
		{
			Name:        "schedule_duty",
			Description: anthropic.String("Schedule an on-call or devops duty for a member over an inclusive date range. If the range overlaps an existing duty of the same kind for that member, nothing is created and the conflicts are reported."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"member_id":  map[string]interface{}{"type": "string", "description": "Member ID (required)"},
					"kind":       map[string]interface{}{"type": "string", "enum": []string{"oncall", "devops"}, "description": "Duty kind (required)"},
					"start_date": map[string]interface{}{"type": "string", "description": "First day, YYYY-MM-DD (required)"},
					"end_date":   map[string]interface{}{"type": "string", "description": "Last day inclusive, YYYY-MM-DD (required)"},
					"note":       map[string]interface{}{"type": "string", "description": "Optional note"},
				},
				Required: []string{"member_id", "kind", "start_date", "end_date"},
			},
		},
		{
			Name:        "get_duty_roster",
			Description: anthropic.String("Show scheduled duties over a date window, with member names."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"from": map[string]interface{}{"type": "string", "description": "Window start, YYYY-MM-DD (required)"},
					"to":   map[string]interface{}{"type": "string", "description": "Window end inclusive, YYYY-MM-DD (required)"},
					"kind": map[string]interface{}{"type": "string", "enum": []string{"oncall", "devops"}, "description": "Filter by duty kind (optional)"},
				},
				Required: []string{"from", "to"},
			},
		},
		{
			Name:        "create_goal",
			Description: anthropic.String("Create a goal owned by a member. Returns the created goal ID."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"title":       map[string]interface{}{"type": "string", "description": "Goal title (required)"},
					"owner_id":    map[string]interface{}{"type": "string", "description": "Owning member ID (required)"},
					"description": map[string]interface{}{"type": "string", "description": "Detailed description"},
					"target_date": map[string]interface{}{"type": "string", "description": "Target date, YYYY-MM-DD (optional)"},
				},
				Required: []string{"title", "owner_id"},
			},
		},
		{
			Name:        "update_goal_progress",
			Description: anthropic.String("Update a goal's progress (0-100) and/or status (active, achieved, dropped)."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"goal_id":  map[string]interface{}{"type": "string", "description": "Goal ID (required)"},
					"progress": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 100, "description": "New progress percentage"},
					"status":   map[string]interface{}{"type": "string", "enum": []string{"active", "achieved", "dropped"}, "description": "New status"},
				},
				Required: []string{"goal_id"},
			},
		},
		{
			Name:        "kpi_trend",
			Description: anthropic.String("Summarize a KPI's recent trend: direction, percent change, and whether the movement is an improvement for that metric."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"kpi_id": map[string]interface{}{"type": "string", "description": "KPI ID (required)"},
					"days":   map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 365, "description": "Window in days (default: 30)"},
				},
				Required: []string{"kpi_id"},
			},
		},
		{
			Name:        "list_notifications",
			Description: anthropic.String("List a member's in-app notifications."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"recipient_id": map[string]interface{}{"type": "string", "description": "Member ID (required)"},
					"unread_only":  map[string]interface{}{"type": "boolean", "description": "Only unread notifications (default: true)"},
					"limit":        map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 100, "description": "Max results (default: 20)"},
				},
				Required: []string{"recipient_id"},
			},
		},
		{
			Name:        "post_notification",
			Description: anthropic.String("Post a notification to a member's panel."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: map[string]interface{}{
					"recipient_id": map[string]interface{}{"type": "string", "description": "Member ID (required)"},
					"title":        map[string]interface{}{"type": "string", "description": "Notification title (required)"},
					"kind":         map[string]interface{}{"type": "string", "description": "Notification kind, e.g. duty_reminder (default: general)"},
					"body":         map[string]interface{}{"type": "string", "description": "Notification body"},
				},
				Required: []string{"recipient_id", "title"},
			},
		},
	}

	tools := make([]anthropic.ToolUnionParam, len(toolParams))
	for i := range toolParams {
		// Create a copy to avoid capturing loop variable address
		tool := toolParams[i]
		tools[i] = anthropic.ToolUnionParam{OfTool: &tool}
	}
	return tools
}
