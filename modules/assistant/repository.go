package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/domain/chat"
	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
)

// threadRepository provides database operations for chat threads.
type threadRepository struct {
	db *gorm.DB
}

var _ chat.ThreadRepository = (*threadRepository)(nil)

func newThreadRepository(db *gorm.DB) *threadRepository {
	return &threadRepository{db: db}
}

// Create saves a new thread.
func (r *threadRepository) Create(ctx context.Context, thread *chat.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

// GetByID retrieves a thread by its ID.
func (r *threadRepository) GetByID(ctx context.Context, id string) (*chat.Thread, error) {
	var thread chat.Thread
	if err := r.db.WithContext(ctx).First(&thread, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return &thread, nil
}

// ListByUser retrieves a user's threads, most recently active first.
func (r *threadRepository) ListByUser(ctx context.Context, userID string) ([]chat.Thread, error) {
	var threads []chat.Thread
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

// Touch bumps a thread's updated_at so it sorts to the top of the list.
func (r *threadRepository) Touch(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&chat.Thread{}).
		Where("id = ?", id).
		Update("updated_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to touch thread: %w", err)
	}
	return nil
}

// Delete removes a thread by ID.
func (r *threadRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&chat.Thread{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete thread: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// messageRepository provides database operations for chat messages.
type messageRepository struct {
	db *gorm.DB
}

var _ chat.MessageRepository = (*messageRepository)(nil)

func newMessageRepository(db *gorm.DB) *messageRepository {
	return &messageRepository{db: db}
}

// Create saves a new message.
func (r *messageRepository) Create(ctx context.Context, message *chat.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListByThread retrieves a thread's messages in conversation order.
func (r *messageRepository) ListByThread(ctx context.Context, threadID string) ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// DeleteByThread removes all messages of a thread.
func (r *messageRepository) DeleteByThread(ctx context.Context, threadID string) error {
	err := r.db.WithContext(ctx).Delete(&chat.Message{}, "thread_id = ?", threadID).Error
	if err != nil {
		return fmt.Errorf("failed to delete messages by thread: %w", err)
	}
	return nil
}
