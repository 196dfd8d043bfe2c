package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
)

// commentRepository provides database operations for task comments.
type commentRepository struct {
	db *gorm.DB
}

var _ todo.CommentRepository = (*commentRepository)(nil)

func newCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{db: db}
}

// Create saves a new comment.
func (r *commentRepository) Create(ctx context.Context, comment *todo.TaskComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *commentRepository) GetByID(ctx context.Context, id string) (*todo.TaskComment, error) {
	var comment todo.TaskComment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListByTask retrieves a task's comments, newest first.
func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]todo.TaskComment, error) {
	var comments []todo.TaskComment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update persists an edited comment.
func (r *commentRepository) Update(ctx context.Context, comment *todo.TaskComment) error {
	result := r.db.WithContext(ctx).
		Model(&todo.TaskComment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]any{"content": comment.Content, "updated_at": comment.UpdatedAt})
	if result.Error != nil {
		return fmt.Errorf("failed to update comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// Delete removes a comment by ID.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&todo.TaskComment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// DeleteByTask removes all comments of a task.
func (r *commentRepository) DeleteByTask(ctx context.Context, taskID string) error {
	err := r.db.WithContext(ctx).Delete(&todo.TaskComment{}, "task_id = ?", taskID).Error
	if err != nil {
		return fmt.Errorf("failed to delete comments by task: %w", err)
	}
	return nil
}
