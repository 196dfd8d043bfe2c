// Package tasks implements the task management module: gorm-backed
// entity stores and the business service in front of them.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
)

// taskRepository provides database operations for tasks.
type taskRepository struct {
	db *gorm.DB
}

var _ todo.TaskRepository = (*taskRepository)(nil)

func newTaskRepository(db *gorm.DB) *taskRepository {
	return &taskRepository{db: db}
}

// Create saves a new task.
func (r *taskRepository) Create(ctx context.Context, task *todo.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by its ID.
func (r *taskRepository) GetByID(ctx context.Context, id string) (*todo.Task, error) {
	var task todo.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return &task, nil
}

// ListByUser retrieves a user's tasks, newest first.
func (r *taskRepository) ListByUser(ctx context.Context, userID string) ([]todo.Task, error) {
	var tasks []todo.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListByCategory retrieves a category's member tasks, newest first.
func (r *taskRepository) ListByCategory(ctx context.Context, categoryID string) ([]todo.Task, error) {
	var tasks []todo.Task
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks by category: %w", err)
	}
	return tasks, nil
}

// Update persists all fields of an existing task.
func (r *taskRepository) Update(ctx context.Context, task *todo.Task) error {
	result := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Where("id = ?", task.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(task)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// UpdateOrders applies a batch of sort order changes.
func (r *taskRepository) UpdateOrders(ctx context.Context, updates []todo.OrderUpdate) error {
	for _, u := range updates {
		err := r.db.WithContext(ctx).
			Model(&todo.Task{}).
			Where("id = ?", u.ID).
			Update("sort_order", u.SortOrder).Error
		if err != nil {
			return fmt.Errorf("failed to update order for task %s: %w", u.ID, err)
		}
	}
	return nil
}

// Delete removes a task by ID.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&todo.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// MaxOrder returns the highest sort order among a user's tasks.
func (r *taskRepository) MaxOrder(ctx context.Context, userID string) (int, bool, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Where("user_id = ?", userID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to get max order: %w", err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// SearchByTitle matches titles against query for one user, optionally
// filtered by status, capped at limit.
func (r *taskRepository) SearchByTitle(ctx context.Context, userID, query string, status *todo.Status, limit int) ([]todo.Task, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("title LIKE ?", "%"+query+"%")
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var tasks []todo.Task
	err := q.Order("created_at DESC").Limit(limit).Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return tasks, nil
}

// ClearCategory unlinks all member tasks of a category.
func (r *taskRepository) ClearCategory(ctx context.Context, categoryID string) error {
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to clear category: %w", err)
	}
	return nil
}

// CountByStatus returns per-status task counts for one user.
func (r *taskRepository) CountByStatus(ctx context.Context, userID string) (map[todo.Status]int64, error) {
	var rows []struct {
		Status todo.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	counts := make(map[todo.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByPriority returns per-priority task counts for one user.
func (r *taskRepository) CountByPriority(ctx context.Context, userID string) (map[todo.Priority]int64, error) {
	var rows []struct {
		Priority todo.Priority
		Count    int64
	}
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Select("priority, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	counts := make(map[todo.Priority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// CountOverdue counts tasks whose due date has passed and that are still
// open.
func (r *taskRepository) CountOverdue(ctx context.Context, userID string, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Where("user_id = ? AND due_at IS NOT NULL AND due_at < ?", userID, now).
		Where("status NOT IN ?", []todo.Status{todo.StatusCompleted, todo.StatusArchived}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	return count, nil
}

// CountHighPriorityActive counts open high/urgent tasks.
func (r *taskRepository) CountHighPriorityActive(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&todo.Task{}).
		Where("user_id = ?", userID).
		Where("priority IN ?", []todo.Priority{todo.PriorityHigh, todo.PriorityUrgent}).
		Where("status IN ?", []todo.Status{todo.StatusTodo, todo.StatusInProgress}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count high priority tasks: %w", err)
	}
	return count, nil
}

// Recent returns the most recently created tasks for one user.
func (r *taskRepository) Recent(ctx context.Context, userID string, limit int) ([]todo.Task, error) {
	var tasks []todo.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}
	return tasks, nil
}
