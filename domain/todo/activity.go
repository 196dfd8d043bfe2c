package todo

import (
	"time"
)

// ActivityAction identifies what happened to a task.
type ActivityAction string

// Activity actions.
const (
	ActionCreated       ActivityAction = "created"
	ActionUpdated       ActivityAction = "updated"
	ActionStatusChanged ActivityAction = "status_changed"
	ActionCompleted     ActivityAction = "completed"
	ActionDeleted       ActivityAction = "deleted"
	ActionCommented     ActivityAction = "commented"
)

// IsValid reports whether a is a known activity action.
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionStatusChanged,
		ActionCompleted, ActionDeleted, ActionCommented:
		return true
	}
	return false
}

// FieldChange records an old/new value pair for one tracked field.
// Title, status, and priority changes are tracked explicitly.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// FieldChanges is the ordered list of changes captured by one update,
// persisted as a JSON column.
type FieldChanges []FieldChange

// ActivityMeta carries structured, action-specific context.
type ActivityMeta struct {
	CommentID string `json:"comment_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
}

// TaskActivity is an append-only audit record for a task. Records are
// only ever created, and bulk-deleted together with their parent task.
type TaskActivity struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string         `gorm:"index;not null;size:36" json:"task_id"`
	UserID    string         `gorm:"index;not null;size:36" json:"user_id"`
	Action    ActivityAction `gorm:"size:20;not null" json:"action"`
	Changes   FieldChanges   `gorm:"type:text;serializer:json" json:"changes,omitempty"`
	Meta      *ActivityMeta  `gorm:"type:text;serializer:json" json:"meta,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

// TableName returns the table name for the TaskActivity entity.
func (TaskActivity) TableName() string {
	return "task_activities"
}
