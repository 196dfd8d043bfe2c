// Package todo defines the entities, validation rules, and repository
// contracts for the task management domain.
package todo

import (
	"time"
)

// Priority is the urgency level of a task.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is the lifecycle state of a task.
type Status string

// Task statuses.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusArchived   Status = "archived"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// ViewType is a dashboard view preference.
type ViewType string

// View types.
const (
	ViewList     ViewType = "list"
	ViewBoard    ViewType = "board"
	ViewCalendar ViewType = "calendar"
)

// IsValid reports whether v is a known view type.
func (v ViewType) IsValid() bool {
	switch v {
	case ViewList, ViewBoard, ViewCalendar:
		return true
	}
	return false
}

// Theme is a UI theme preference.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Field limits shared by validators and callers.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
	MaxCategoryName   = 50
	MaxIconNameLen    = 50
	MaxCommentLen     = 2000
	MaxMessageLen     = 4000
	MaxTags           = 10
	MaxTagLen         = 30
	MaxReminderHours  = 168
	MaxSearchResults  = 20
)

// DefaultCategoryColor is applied when a category is created without an
// explicit color.
const DefaultCategoryColor = "#6366f1"

// Task is a user-owned todo item.
// CompletedAt is set iff Status is "completed" and cleared when the task
// is reopened.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"index;not null;size:36" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:5000" json:"description,omitempty"`
	CategoryID  *string    `gorm:"index;size:36" json:"category_id,omitempty"`
	Priority    Priority   `gorm:"size:10;not null;index" json:"priority"`
	Status      Status     `gorm:"size:16;not null;index" json:"status"`
	DueAt       *time.Time `gorm:"index" json:"due_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Tags        Tags       `gorm:"type:text;serializer:json" json:"tags,omitempty"`
	SortOrder   int        `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Tags is a list of free-form task labels, persisted as a JSON column.
type Tags []string

// Category is a user-owned task grouping.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;not null;size:36" json:"user_id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	Icon      string    `gorm:"size:50" json:"icon,omitempty"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Category entity.
func (Category) TableName() string {
	return "categories"
}

// CategoryDeleteMode selects what happens to member tasks when a category
// is deleted.
type CategoryDeleteMode string

// Category delete modes.
const (
	// DeleteModeUnlink clears CategoryID on member tasks and keeps them.
	DeleteModeUnlink CategoryDeleteMode = "unlink"
	// DeleteModeTasks cascade-deletes member tasks with their children.
	DeleteModeTasks CategoryDeleteMode = "deleteTasks"
)

// IsValid reports whether m is a known delete mode.
func (m CategoryDeleteMode) IsValid() bool {
	return m == DeleteModeUnlink || m == DeleteModeTasks
}

// TaskComment is a comment on a task, owned transitively via the parent
// task's owner and directly by its author.
type TaskComment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"index;not null;size:36" json:"task_id"`
	UserID    string    `gorm:"index;not null;size:36" json:"user_id"`
	Content   string    `gorm:"size:2000;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the TaskComment entity.
func (TaskComment) TableName() string {
	return "task_comments"
}

// UserPreferences holds per-user settings, one row per user with upsert
// semantics.
type UserPreferences struct {
	UserID            string    `gorm:"primaryKey;size:36" json:"user_id"`
	DefaultView       ViewType  `gorm:"size:10;not null" json:"default_view"`
	Theme             Theme     `gorm:"size:10;not null" json:"theme"`
	CompactMode       bool      `gorm:"not null;default:false" json:"compact_mode"`
	EmailNotification bool      `gorm:"not null;default:true" json:"email_notification"`
	PushNotification  bool      `gorm:"not null;default:true" json:"push_notification"`
	ReminderHours     int       `gorm:"not null;default:24" json:"reminder_hours"`
	SavedFilter       string    `gorm:"size:200" json:"saved_filter,omitempty"`
	SavedSort         string    `gorm:"size:100" json:"saved_sort,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the table name for the UserPreferences entity.
func (UserPreferences) TableName() string {
	return "user_preferences"
}

// DefaultPreferences returns the preferences applied to a user that has
// never saved any.
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:            userID,
		DefaultView:       ViewList,
		Theme:             ThemeSystem,
		CompactMode:       false,
		EmailNotification: true,
		PushNotification:  true,
		ReminderHours:     24,
	}
}
