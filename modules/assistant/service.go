package assistant

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/taskboard/domain/chat"
	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/middleware/ratelimit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rate-limited operations.
const (
	opCreateThread  = "thread.create"
	opCreateMessage = "message.create"
)

const (
	replyTimeout  = 2 * time.Minute
	replyAttempts = 3
	replyBackoff  = time.Second
)

// Service implements the chat assistant business layer. Replies are
// generated asynchronously so a slow or failing model never blocks or
// rolls back the user's message.
type Service struct {
	db        *gorm.DB
	threads   chat.ThreadRepository
	messages  chat.MessageRepository
	assistant chat.Assistant
	limiter   ratelimit.Limiter
	now       func() time.Time

	replies sync.WaitGroup
}

// NewService creates a new assistant Service. limiter may be nil to
// disable rate limiting (tests).
func NewService(db *gorm.DB, assistant chat.Assistant, limiter ratelimit.Limiter) *Service {
	return &Service{
		db:        db,
		threads:   newThreadRepository(db),
		messages:  newMessageRepository(db),
		assistant: assistant,
		limiter:   limiter,
		now:       time.Now,
	}
}

func authenticate(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return todo.ErrUnauthenticated
	}
	return nil
}

// allow consults the token bucket, failing open on limiter errors.
func (s *Service) allow(ctx context.Context, operation, userID string) error {
	if s.limiter == nil {
		return nil
	}
	result, err := s.limiter.Allow(ctx, operation, userID)
	if err != nil {
		log.Printf("[assistant] rate limit check failed for %s: %v", operation, err)
		return nil
	}
	if !result.Allowed {
		return &todo.RateLimitedError{Operation: operation, RetryAfter: result.RetryAfter}
	}
	return nil
}

// ownedThread loads a thread and authorizes the caller as its owner.
func (s *Service) ownedThread(ctx context.Context, userID, threadID string) (*chat.Thread, error) {
	thread, err := s.threads.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.UserID != userID {
		return nil, todo.ErrNotAuthorized
	}
	return thread, nil
}

// CreateThread starts a new conversation for the caller.
func (s *Service) CreateThread(ctx context.Context, userID, title string) (*chat.Thread, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, opCreateThread, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" || len([]rune(title)) > chat.MaxThreadTitleLen {
		return nil, todo.NewInvalidInput("title", "must be 1-120 characters")
	}

	now := s.now()
	thread := &chat.Thread{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.threads.Create(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns the caller's threads, most recently active first.
func (s *Service) ListThreads(ctx context.Context, userID string) ([]chat.Thread, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	return s.threads.ListByUser(ctx, userID)
}

// GetThread returns one of the caller's threads with its messages in
// conversation order.
func (s *Service) GetThread(ctx context.Context, userID, threadID string) (*chat.Thread, []chat.Message, error) {
	if err := authenticate(userID); err != nil {
		return nil, nil, err
	}
	thread, err := s.ownedThread(ctx, userID, threadID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := s.messages.ListByThread(ctx, threadID)
	if err != nil {
		return nil, nil, err
	}
	return thread, messages, nil
}

// SendMessage persists the caller's message and schedules an assistant
// reply in the background. The returned message is the user's; the reply
// appears in the thread once generated.
func (s *Service) SendMessage(ctx context.Context, userID, threadID, content string) (*chat.Message, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, opCreateMessage, userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedThread(ctx, userID, threadID); err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if !todo.ValidMessageContent(content) {
		return nil, todo.NewInvalidInput("content", "must be 1-4000 characters")
	}

	message := &chat.Message{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Role:      chat.RoleUser,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	if err := s.threads.Touch(ctx, threadID); err != nil {
		return nil, err
	}

	s.replies.Add(1)
	go s.generateReply(threadID)

	return message, nil
}

// generateReply fetches the conversation and asks the assistant for a
// reply, retrying transient failures. Runs detached from the request
// context so client disconnects do not cancel it.
func (s *Service) generateReply(threadID string) {
	defer s.replies.Done()

	ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
	defer cancel()

	history, err := s.messages.ListByThread(ctx, threadID)
	if err != nil {
		log.Printf("[assistant] failed to load history for thread %s: %v", threadID, err)
		return
	}

	var reply string
	backoff := replyBackoff
	for attempt := 1; ; attempt++ {
		reply, err = s.assistant.Reply(ctx, history)
		if err == nil {
			break
		}
		if errors.Is(err, ErrAssistantDisabled) || attempt >= replyAttempts {
			log.Printf("[assistant] reply failed for thread %s: %v", threadID, err)
			return
		}
		log.Printf("[assistant] reply attempt %d failed for thread %s: %v", attempt, threadID, err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}
		backoff *= 2
	}

	message := &chat.Message{
		ID:        uuid.New().String(),
		ThreadID:  threadID,
		Role:      chat.RoleAssistant,
		Content:   reply,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, message); err != nil {
		log.Printf("[assistant] failed to persist reply for thread %s: %v", threadID, err)
		return
	}
	if err := s.threads.Touch(ctx, threadID); err != nil {
		log.Printf("[assistant] failed to touch thread %s: %v", threadID, err)
	}
}

// DeleteThread removes one of the caller's threads and its messages.
func (s *Service) DeleteThread(ctx context.Context, userID, threadID string) error {
	if err := authenticate(userID); err != nil {
		return err
	}
	if _, err := s.ownedThread(ctx, userID, threadID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := newMessageRepository(tx).DeleteByThread(ctx, threadID); err != nil {
			return err
		}
		return newThreadRepository(tx).Delete(ctx, threadID)
	})
}

// drain waits for in-flight reply goroutines, used on shutdown and in
// tests.
func (s *Service) drain() {
	s.replies.Wait()
}
