package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crewdeck/crewdeck/internal/duty"
	"github.com/crewdeck/crewdeck/internal/kpi"
	"github.com/crewdeck/crewdeck/internal/types"
)

const dateLayout = "2006-01-02"

// ExecuteTool routes a tool call from the AI to the matching handler.
// Each handler validates its own input and returns a human-readable
// summary for the tool result.
func (c *Conversation) ExecuteTool(ctx context.Context, name string, input interface{}) (string, error) {
	var inputMap map[string]interface{}

	// The Anthropic SDK may provide input as different types:
	// - map[string]interface{} (already decoded)
	// - []byte (raw JSON)
	// - json.RawMessage (JSON bytes)
	switch v := input.(type) {
	case map[string]interface{}:
		inputMap = v
	case []byte:
		if err := json.Unmarshal(v, &inputMap); err != nil {
			return "", fmt.Errorf("failed to unmarshal tool input from bytes: %w", err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(v, &inputMap); err != nil {
			return "", fmt.Errorf("failed to unmarshal tool input from RawMessage: %w", err)
		}
	default:
		return "", fmt.Errorf("invalid tool input format: expected map[string]interface{}, []byte, or json.RawMessage, got %T", input)
	}

	switch name {
	case "create_task":
		return c.toolCreateTask(ctx, inputMap)
	case "get_task":
		return c.toolGetTask(ctx, inputMap)
	case "search_tasks":
		return c.toolSearchTasks(ctx, inputMap)
	case "update_task_status":
		return c.toolUpdateTaskStatus(ctx, inputMap)
	case "list_members":
		return c.toolListMembers(ctx, inputMap)
	case "schedule_duty":
		return c.toolScheduleDuty(ctx, inputMap)
	case "get_duty_roster":
		return c.toolGetDutyRoster(ctx, inputMap)
	case "create_goal":
		return c.toolCreateGoal(ctx, inputMap)
	case "update_goal_progress":
		return c.toolUpdateGoalProgress(ctx, inputMap)
	case "kpi_trend":
		return c.toolKPITrend(ctx, inputMap)
	case "list_notifications":
		return c.toolListNotifications(ctx, inputMap)
	case "post_notification":
		return c.toolPostNotification(ctx, inputMap)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// toolCreateTask creates a new task from natural language input.
// Input: title (required), description, type (default: task), priority
// (default: 2), assignee
func (c *Conversation) toolCreateTask(ctx context.Context, input map[string]interface{}) (string, error) {
	title, _ := input["title"].(string)
	if title == "" {
		return "", fmt.Errorf("title is required")
	}

	description, _ := input["description"].(string)
	assignee, _ := input["assignee"].(string)

	taskType := "task"
	if t, ok := input["type"].(string); ok && t != "" {
		taskType = t
	}
	if !types.TaskType(taskType).IsValid() {
		return "", fmt.Errorf("invalid task type: %s (must be task, bug, feature, chore, or project)", taskType)
	}

	priority := 2
	if p, ok := input["priority"].(float64); ok {
		priority = int(p)
	}

	task := &types.Task{
		Title:       title,
		Description: description,
		TaskType:    types.TaskType(taskType),
		Priority:    priority,
		Status:      types.StatusOpen,
		Assignee:    assignee,
	}

	if err := c.store.CreateTask(ctx, task, AIActor); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}

	return fmt.Sprintf("Created %s %s: %s", taskType, task.ID, title), nil
}

// toolGetTask returns full task data as JSON.
// Input: task_id (required)
func (c *Conversation) toolGetTask(ctx context.Context, input map[string]interface{}) (string, error) {
	taskID, _ := input["task_id"].(string)
	if taskID == "" {
		return "", fmt.Errorf("task_id is required")
	}

	task, err := c.store.GetTask(ctx, taskID)
	if err != nil {
		return "", fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil {
		return fmt.Sprintf("Task %s not found", taskID), nil
	}

	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal task: %w", err)
	}
	return string(data), nil
}

// toolSearchTasks performs text search with optional status/type filters.
// Input: query, status, type, limit (default: 10)
func (c *Conversation) toolSearchTasks(ctx context.Context, input map[string]interface{}) (string, error) {
	query, _ := input["query"].(string)

	limit := 10
	if l, ok := input["limit"].(float64); ok {
		limit = int(l)
	}

	filter := types.TaskFilter{Limit: limit}
	if s, ok := input["status"].(string); ok && s != "" {
		status := types.TaskStatus(s)
		if !status.IsValid() {
			return "", fmt.Errorf("invalid status: %s", s)
		}
		filter.Status = &status
	}
	if t, ok := input["type"].(string); ok && t != "" {
		taskType := types.TaskType(t)
		if !taskType.IsValid() {
			return "", fmt.Errorf("invalid task type: %s", t)
		}
		filter.TaskType = &taskType
	}

	tasks, err := c.store.SearchTasks(ctx, query, filter)
	if err != nil {
		return "", fmt.Errorf("failed to search tasks: %w", err)
	}

	if len(tasks) == 0 {
		return "No tasks found", nil
	}

	result := fmt.Sprintf("Found %d tasks:\n", len(tasks))
	for _, task := range tasks {
		result += fmt.Sprintf("- %s [%s] %s (P%d, %s)\n", task.ID, task.TaskType, task.Title, task.Priority, task.Status)
	}
	return result, nil
}

// toolUpdateTaskStatus moves a task to a new status.
// Input: task_id (required), status (required)
func (c *Conversation) toolUpdateTaskStatus(ctx context.Context, input map[string]interface{}) (string, error) {
	taskID, _ := input["task_id"].(string)
	status, _ := input["status"].(string)
	if taskID == "" || status == "" {
		return "", fmt.Errorf("task_id and status are required")
	}
	if !types.TaskStatus(status).IsValid() {
		return "", fmt.Errorf("invalid status: %s", status)
	}

	if status == string(types.StatusDone) {
		if err := c.store.CloseTask(ctx, taskID, "closed via assistant", AIActor); err != nil {
			return "", fmt.Errorf("failed to close task: %w", err)
		}
		return fmt.Sprintf("Closed %s", taskID), nil
	}

	if err := c.store.UpdateTask(ctx, taskID, map[string]interface{}{"status": status}, AIActor); err != nil {
		return "", fmt.Errorf("failed to update task: %w", err)
	}
	return fmt.Sprintf("Moved %s to %s", taskID, status), nil
}

// toolListMembers lists team members.
// Input: include_inactive (default: false)
func (c *Conversation) toolListMembers(ctx context.Context, input map[string]interface{}) (string, error) {
	includeInactive := false
	if b, ok := input["include_inactive"].(bool); ok {
		includeInactive = b
	}

	members, err := c.store.ListMembers(ctx, !includeInactive)
	if err != nil {
		return "", fmt.Errorf("failed to list members: %w", err)
	}

	if len(members) == 0 {
		return "No members found", nil
	}

	result := fmt.Sprintf("Found %d members:\n", len(members))
	for _, m := range members {
		result += fmt.Sprintf("- %s: %s <%s>", m.ID, m.Name, m.Email)
		if m.Role != "" {
			result += fmt.Sprintf(" (%s)", m.Role)
		}
		if !m.Active {
			result += " [inactive]"
		}
		result += "\n"
	}
	return result, nil
}

// toolScheduleDuty schedules a duty after checking for conflicts. When the
// range overlaps an existing duty of the same kind nothing is created; the
// conflicts are reported so the model can propose an alternative.
// Input: member_id, kind, start_date, end_date (all required), note
func (c *Conversation) toolScheduleDuty(ctx context.Context, input map[string]interface{}) (string, error) {
	memberID, _ := input["member_id"].(string)
	kind, _ := input["kind"].(string)
	startStr, _ := input["start_date"].(string)
	endStr, _ := input["end_date"].(string)
	note, _ := input["note"].(string)

	if memberID == "" || kind == "" || startStr == "" || endStr == "" {
		return "", fmt.Errorf("member_id, kind, start_date, and end_date are required")
	}

	start, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid start_date: expected YYYY-MM-DD, got %s", startStr)
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid end_date: expected YYYY-MM-DD, got %s", endStr)
	}

	d := &types.Duty{
		MemberID:  memberID,
		Kind:      types.DutyKind(kind),
		StartDate: start,
		EndDate:   end,
		Note:      note,
	}

	conflicts, err := duty.CheckConflicts(ctx, c.store, d)
	if err != nil {
		return "", err
	}
	if len(conflicts) > 0 {
		result := fmt.Sprintf("Cannot schedule: %d conflicting duties for this member:\n", len(conflicts))
		for _, conflict := range conflicts {
			result += fmt.Sprintf("- %s [%s] %s to %s\n", conflict.DutyID, conflict.Kind,
				conflict.StartDate.Format(dateLayout), conflict.EndDate.Format(dateLayout))
		}
		return result, nil
	}

	if err := c.store.CreateDuty(ctx, d, AIActor); err != nil {
		return "", fmt.Errorf("failed to create duty: %w", err)
	}

	return fmt.Sprintf("Scheduled %s duty %s for member %s, %s to %s", kind, d.ID, memberID, startStr, endStr), nil
}

// toolGetDutyRoster shows duties over a date window with member names.
// Input: from, to (required), kind (optional)
func (c *Conversation) toolGetDutyRoster(ctx context.Context, input map[string]interface{}) (string, error) {
	fromStr, _ := input["from"].(string)
	toStr, _ := input["to"].(string)
	if fromStr == "" || toStr == "" {
		return "", fmt.Errorf("from and to are required")
	}

	from, err := time.ParseInLocation(dateLayout, fromStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid from: expected YYYY-MM-DD, got %s", fromStr)
	}
	to, err := time.ParseInLocation(dateLayout, toStr, time.UTC)
	if err != nil {
		return "", fmt.Errorf("invalid to: expected YYYY-MM-DD, got %s", toStr)
	}

	filter := types.DutyFilter{From: &from, To: &to}
	if k, ok := input["kind"].(string); ok && k != "" {
		kind := types.DutyKind(k)
		if !kind.IsValid() {
			return "", fmt.Errorf("invalid kind: %s", k)
		}
		filter.Kind = &kind
	}

	duties, err := c.store.ListDuties(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("failed to list duties: %w", err)
	}

	if len(duties) == 0 {
		return fmt.Sprintf("No duties scheduled between %s and %s", fromStr, toStr), nil
	}

	result := fmt.Sprintf("Duty roster %s to %s:\n", fromStr, toStr)
	for _, d := range duties {
		name := d.MemberID
		if member, err := c.store.GetMember(ctx, d.MemberID); err == nil && member != nil {
			name = member.Name
		}
		result += fmt.Sprintf("- [%s] %s: %s to %s\n", d.Kind, name,
			d.StartDate.Format(dateLayout), d.EndDate.Format(dateLayout))
	}
	return result, nil
}

// toolCreateGoal creates a goal for a member.
// Input: title, owner_id (required), description, target_date
func (c *Conversation) toolCreateGoal(ctx context.Context, input map[string]interface{}) (string, error) {
	title, _ := input["title"].(string)
	ownerID, _ := input["owner_id"].(string)
	if title == "" || ownerID == "" {
		return "", fmt.Errorf("title and owner_id are required")
	}

	description, _ := input["description"].(string)

	goal := &types.Goal{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		Status:      types.GoalActive,
	}

	if t, ok := input["target_date"].(string); ok && t != "" {
		target, err := time.ParseInLocation(dateLayout, t, time.UTC)
		if err != nil {
			return "", fmt.Errorf("invalid target_date: expected YYYY-MM-DD, got %s", t)
		}
		goal.TargetDate = &target
	}

	if err := c.store.CreateGoal(ctx, goal, AIActor); err != nil {
		return "", fmt.Errorf("failed to create goal: %w", err)
	}

	return fmt.Sprintf("Created goal %s: %s", goal.ID, title), nil
}

// toolUpdateGoalProgress updates a goal's progress and/or status.
// Input: goal_id (required), progress, status
func (c *Conversation) toolUpdateGoalProgress(ctx context.Context, input map[string]interface{}) (string, error) {
	goalID, _ := input["goal_id"].(string)
	if goalID == "" {
		return "", fmt.Errorf("goal_id is required")
	}

	updates := map[string]interface{}{}
	if p, ok := input["progress"].(float64); ok {
		updates["progress"] = int(p)
	}
	if s, ok := input["status"].(string); ok && s != "" {
		updates["status"] = s
	}
	if len(updates) == 0 {
		return "", fmt.Errorf("progress or status is required")
	}

	if err := c.store.UpdateGoal(ctx, goalID, updates, AIActor); err != nil {
		return "", fmt.Errorf("failed to update goal: %w", err)
	}

	goal, err := c.store.GetGoal(ctx, goalID)
	if err != nil {
		return "", fmt.Errorf("failed to get goal: %w", err)
	}

	return fmt.Sprintf("Goal %s is now %s at %d%%", goalID, goal.Status, goal.Progress), nil
}

// toolKPITrend summarizes a KPI's recent trend.
// Input: kpi_id (required), days (default: 30)
func (c *Conversation) toolKPITrend(ctx context.Context, input map[string]interface{}) (string, error) {
	kpiID, _ := input["kpi_id"].(string)
	if kpiID == "" {
		return "", fmt.Errorf("kpi_id is required")
	}

	days := 30
	if d, ok := input["days"].(float64); ok {
		days = int(d)
	}

	k, err := c.store.GetKPI(ctx, kpiID)
	if err != nil {
		return "", fmt.Errorf("failed to get kpi: %w", err)
	}
	if k == nil {
		return fmt.Sprintf("KPI %s not found", kpiID), nil
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	series, err := c.store.GetKPISeries(ctx, kpiID, since)
	if err != nil {
		return "", fmt.Errorf("failed to get kpi series: %w", err)
	}

	trend := kpi.Compute(k, series)

	verdict := "worsening"
	if trend.Improving {
		verdict = "improving"
	}
	return fmt.Sprintf("%s over the last %d days: %s, %+.1f%% (%d observations), %s",
		k.Name, days, trend.Direction, trend.PercentChange, len(series), verdict), nil
}

// toolListNotifications lists a member's notifications.
// Input: recipient_id (required), unread_only (default: true), limit
func (c *Conversation) toolListNotifications(ctx context.Context, input map[string]interface{}) (string, error) {
	recipientID, _ := input["recipient_id"].(string)
	if recipientID == "" {
		return "", fmt.Errorf("recipient_id is required")
	}

	unreadOnly := true
	if b, ok := input["unread_only"].(bool); ok {
		unreadOnly = b
	}

	limit := 20
	if l, ok := input["limit"].(float64); ok {
		limit = int(l)
	}

	notifications, err := c.store.ListNotifications(ctx, recipientID, unreadOnly, limit)
	if err != nil {
		return "", fmt.Errorf("failed to list notifications: %w", err)
	}

	if len(notifications) == 0 {
		return "No notifications", nil
	}

	result := fmt.Sprintf("%d notifications:\n", len(notifications))
	for _, n := range notifications {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		result += fmt.Sprintf("%s [%s] %s", marker, n.Kind, n.Title)
		if n.Body != "" {
			result += ": " + n.Body
		}
		result += "\n"
	}
	return result, nil
}

// toolPostNotification posts a notification to a member's panel.
// Input: recipient_id, title (required), kind (default: general), body
func (c *Conversation) toolPostNotification(ctx context.Context, input map[string]interface{}) (string, error) {
	recipientID, _ := input["recipient_id"].(string)
	title, _ := input["title"].(string)
	if recipientID == "" || title == "" {
		return "", fmt.Errorf("recipient_id and title are required")
	}

	kind, _ := input["kind"].(string)
	if kind == "" {
		kind = "general"
	}
	body, _ := input["body"].(string)

	n := &types.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
	}
	if err := c.store.CreateNotification(ctx, n); err != nil {
		return "", fmt.Errorf("failed to create notification: %w", err)
	}

	return fmt.Sprintf("Posted notification %s to %s", n.ID, recipientID), nil
}
