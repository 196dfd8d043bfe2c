package todo

import (
	"context"
	"time"
)

// The repositories below are the only path to persisted records; the
// business layer never issues storage queries directly.

// OrderUpdate pairs a task id with its new sort order for bulk reordering.
type OrderUpdate struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// TaskRepository provides database operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	UpdateOrders(ctx context.Context, updates []OrderUpdate) error
	Delete(ctx context.Context, id string) error

	// MaxOrder returns the highest sort order among a user's tasks and
	// false when the user has no tasks.
	MaxOrder(ctx context.Context, userID string) (int, bool, error)

	// SearchByTitle matches task titles against query, scoped to the
	// owning user, optionally filtered by status, capped at limit.
	SearchByTitle(ctx context.Context, userID, query string, status *Status, limit int) ([]Task, error)

	// ClearCategory unlinks all of a category's member tasks.
	ClearCategory(ctx context.Context, categoryID string) error

	// Dashboard queries, all scoped to one user and served by indexes
	// rather than in-process scans.
	CountByStatus(ctx context.Context, userID string) (map[Status]int64, error)
	CountByPriority(ctx context.Context, userID string) (map[Priority]int64, error)
	CountOverdue(ctx context.Context, userID string, now time.Time) (int64, error)
	CountHighPriorityActive(ctx context.Context, userID string) (int64, error)
	Recent(ctx context.Context, userID string, limit int) ([]Task, error)
}

// CategoryRepository provides database operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	ListByUser(ctx context.Context, userID string) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// CommentRepository provides database operations for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *TaskComment) error
	GetByID(ctx context.Context, id string) (*TaskComment, error)
	ListByTask(ctx context.Context, taskID string) ([]TaskComment, error)
	Update(ctx context.Context, comment *TaskComment) error
	Delete(ctx context.Context, id string) error
	DeleteByTask(ctx context.Context, taskID string) error
}

// ActivityRepository provides database operations for the audit log.
// Records are append-only; the only deletion is the bulk cascade with the
// parent task.
type ActivityRepository interface {
	Append(ctx context.Context, activity *TaskActivity) error
	ListByTask(ctx context.Context, taskID string) ([]TaskActivity, error)
	DeleteByTask(ctx context.Context, taskID string) error
	CountSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

// PreferencesRepository provides database operations for user preferences.
type PreferencesRepository interface {
	Get(ctx context.Context, userID string) (*UserPreferences, error)
	Upsert(ctx context.Context, prefs *UserPreferences) error
}
