package tasks

import (
	"context"
	"strings"

	"github.com/example/taskboard/domain/todo"
	"github.com/google/uuid"
)

// AddComment appends a comment to one of the caller's tasks and records
// the commented activity pointing back at it.
func (s *Service) AddComment(ctx context.Context, userID, taskID, content string) (*todo.TaskComment, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, opCreateComment, userID); err != nil {
		return nil, err
	}

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if !todo.ValidCommentContent(content) {
		return nil, todo.NewInvalidInput("content", "must be 1-2000 characters")
	}

	now := s.now()
	comment := &todo.TaskComment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.inTx(ctx, func(r repositories) error {
		if err := r.comments.Create(ctx, comment); err != nil {
			return err
		}
		return r.activities.Append(ctx, newActivity(
			taskID, userID, todo.ActionCommented, nil,
			&todo.ActivityMeta{CommentID: comment.ID, TaskTitle: task.Title}, now,
		))
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a task's comments, newest first.
func (s *Service) ListComments(ctx context.Context, userID, taskID string) ([]todo.TaskComment, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.repos.comments.ListByTask(ctx, taskID)
}

// UpdateComment edits a comment. Only the comment's author may edit it,
// even on their own task.
func (s *Service) UpdateComment(ctx context.Context, userID, commentID, content string) (*todo.TaskComment, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	comment, err := s.repos.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, todo.ErrNotAuthorized
	}

	content = strings.TrimSpace(content)
	if !todo.ValidCommentContent(content) {
		return nil, todo.NewInvalidInput("content", "must be 1-2000 characters")
	}

	comment.Content = content
	comment.UpdatedAt = s.now()
	if err := s.repos.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment authored by the caller.
func (s *Service) DeleteComment(ctx context.Context, userID, commentID string) error {
	if err := authenticate(userID); err != nil {
		return err
	}

	comment, err := s.repos.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return todo.ErrNotAuthorized
	}

	return s.repos.comments.Delete(ctx, commentID)
}

// ListActivity returns the audit trail of one of the caller's tasks,
// newest first.
func (s *Service) ListActivity(ctx context.Context, userID, taskID string) ([]todo.TaskActivity, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.repos.activities.ListByTask(ctx, taskID)
}
