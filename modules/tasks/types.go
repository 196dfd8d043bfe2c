package tasks

import "github.com/example/taskboard/domain/todo"

// CreateTaskRequest carries the fields accepted when creating a task.
// DueAtMs is epoch milliseconds; 0 or absent means no due date.
type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	CategoryID  *string       `json:"categoryId"`
	Priority    todo.Priority `json:"priority"`
	DueAtMs     *int64        `json:"dueAt"`
	Tags        []string      `json:"tags"`
}

// UpdateTaskRequest carries a partial task update. Nil fields are left
// untouched. An empty CategoryID detaches the task from its category,
// and a zero DueAtMs clears the due date.
type UpdateTaskRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	CategoryID  *string        `json:"categoryId"`
	Priority    *todo.Priority `json:"priority"`
	Status      *todo.Status   `json:"status"`
	DueAtMs     *int64         `json:"dueAt"`
	Tags        *[]string      `json:"tags"`
	SortOrder   *int           `json:"sortOrder"`
}

// CreateCategoryRequest carries the fields accepted when creating a
// category.
type CreateCategoryRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
}

// UpdateCategoryRequest carries a partial category update. Nil fields
// are left untouched.
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Color     *string `json:"color"`
	Icon      *string `json:"icon"`
	SortOrder *int    `json:"sortOrder"`
}

// SavePreferencesRequest carries the full preferences document. Saving
// always replaces the whole row.
type SavePreferencesRequest struct {
	DefaultView       todo.ViewType `json:"defaultView"`
	Theme             todo.Theme    `json:"theme"`
	CompactMode       bool          `json:"compactMode"`
	EmailNotification bool          `json:"emailNotification"`
	PushNotification  bool          `json:"pushNotification"`
	ReminderHours     int           `json:"reminderHours"`
	SavedFilter       string        `json:"savedFilter"`
	SavedSort         string        `json:"savedSort"`
}

// DashboardSummary aggregates a user's current workload in one shot.
type DashboardSummary struct {
	TotalTasks     int64                   `json:"totalTasks"`
	ByStatus       map[todo.Status]int64   `json:"byStatus"`
	ByPriority     map[todo.Priority]int64 `json:"byPriority"`
	Overdue        int64                   `json:"overdue"`
	HighPriority   int64                   `json:"highPriority"`
	CompletionRate float64                 `json:"completionRate"`
	Categories     int64                   `json:"categories"`
	RecentActivity int64                   `json:"recentActivity"`
	RecentTasks    []todo.Task             `json:"recentTasks"`
}
