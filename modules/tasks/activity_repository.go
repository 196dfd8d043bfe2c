package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
)

// activityRepository provides database operations for the audit log.
type activityRepository struct {
	db *gorm.DB
}

var _ todo.ActivityRepository = (*activityRepository)(nil)

func newActivityRepository(db *gorm.DB) *activityRepository {
	return &activityRepository{db: db}
}

// Append adds one audit record. Existing records are never modified.
func (r *activityRepository) Append(ctx context.Context, activity *todo.TaskActivity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

// ListByTask retrieves a task's activity, newest first.
func (r *activityRepository) ListByTask(ctx context.Context, taskID string) ([]todo.TaskActivity, error) {
	var activities []todo.TaskActivity
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return activities, nil
}

// DeleteByTask removes all activity of a task (cascade with the parent).
func (r *activityRepository) DeleteByTask(ctx context.Context, taskID string) error {
	err := r.db.WithContext(ctx).Delete(&todo.TaskActivity{}, "task_id = ?", taskID).Error
	if err != nil {
		return fmt.Errorf("failed to delete activity by task: %w", err)
	}
	return nil
}

// CountSince counts a user's activity records created at or after since.
func (r *activityRepository) CountSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&todo.TaskActivity{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return count, nil
}
