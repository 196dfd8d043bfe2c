package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/taskboard/domain/chat"
	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/middleware/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeAssistant replies with a fixed string after a configurable number
// of transient failures.
type fakeAssistant struct {
	mu       sync.Mutex
	failures int
	calls    int
	reply    string
	err      error
}

func (f *fakeAssistant) Reply(_ context.Context, history []chat.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.failures > 0 {
		f.failures--
		return "", errors.New("transient upstream error")
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "echo: " + history[len(history)-1].Content, nil
}

func (f *fakeAssistant) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func setupAssistantService(t *testing.T, ai chat.Assistant, limiter ratelimit.Limiter) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&chat.Thread{}, &chat.Message{}))

	return NewService(db, ai, limiter)
}

func TestService_CreateThread(t *testing.T) {
	s := setupAssistantService(t, &fakeAssistant{}, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "  Plan my week  ")
	require.NoError(t, err)
	assert.Equal(t, "Plan my week", thread.Title)
	assert.Equal(t, "user-1", thread.UserID)

	t.Run("empty title", func(t *testing.T) {
		_, err := s.CreateThread(ctx, "user-1", "   ")
		var invalid *todo.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := s.CreateThread(ctx, "user-1", strings.Repeat("x", 121))
		var invalid *todo.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := s.CreateThread(ctx, "", "title")
		assert.ErrorIs(t, err, todo.ErrUnauthenticated)
	})
}

func TestService_CreateThreadRateLimited(t *testing.T) {
	limiter := ratelimit.NewTokenBucketLimiter(
		ratelimit.WithOperationLimit(opCreateThread, 5, time.Minute),
	)
	s := setupAssistantService(t, &fakeAssistant{}, limiter)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.CreateThread(ctx, "user-1", "thread")
		require.NoError(t, err, "thread %d should be allowed", i+1)
	}

	_, err := s.CreateThread(ctx, "user-1", "one too many")
	var limited *todo.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, opCreateThread, limited.Operation)
	assert.Positive(t, limited.RetryAfter)
}

func TestService_SendMessagePersistsReply(t *testing.T) {
	ai := &fakeAssistant{reply: "break it into three steps"}
	s := setupAssistantService(t, ai, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Planning")
	require.NoError(t, err)

	message, err := s.SendMessage(ctx, "user-1", thread.ID, "How do I tackle this project?")
	require.NoError(t, err)
	assert.Equal(t, chat.RoleUser, message.Role)

	s.drain()

	_, messages, err := s.GetThread(ctx, "user-1", thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
	assert.Equal(t, chat.RoleAssistant, messages[1].Role)
	assert.Equal(t, "break it into three steps", messages[1].Content)
}

func TestService_SendMessageRetriesTransientFailure(t *testing.T) {
	ai := &fakeAssistant{failures: 1, reply: "second time lucky"}
	s := setupAssistantService(t, ai, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Flaky")
	require.NoError(t, err)

	_, err = s.SendMessage(ctx, "user-1", thread.ID, "hello?")
	require.NoError(t, err)

	s.drain()

	assert.Equal(t, 2, ai.callCount())
	_, messages, err := s.GetThread(ctx, "user-1", thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "second time lucky", messages[1].Content)
}

func TestService_SendMessageKeepsUserMessageOnFailure(t *testing.T) {
	ai := &fakeAssistant{err: ErrAssistantDisabled}
	s := setupAssistantService(t, ai, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Offline")
	require.NoError(t, err)

	_, err = s.SendMessage(ctx, "user-1", thread.ID, "anyone there?")
	require.NoError(t, err)

	s.drain()

	// Disabled assistant is not retried
	assert.Equal(t, 1, ai.callCount())

	_, messages, err := s.GetThread(ctx, "user-1", thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, chat.RoleUser, messages[0].Role)
}

func TestService_SendMessageValidation(t *testing.T) {
	s := setupAssistantService(t, &fakeAssistant{}, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Strict")
	require.NoError(t, err)

	var invalid *todo.InvalidInputError
	_, err = s.SendMessage(ctx, "user-1", thread.ID, "   ")
	require.ErrorAs(t, err, &invalid)

	_, err = s.SendMessage(ctx, "user-1", thread.ID, strings.Repeat("x", 4001))
	require.ErrorAs(t, err, &invalid)

	_, err = s.SendMessage(ctx, "user-2", thread.ID, "not mine")
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	_, err = s.SendMessage(ctx, "user-1", "missing", "no thread")
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestService_ThreadOwnership(t *testing.T) {
	s := setupAssistantService(t, &fakeAssistant{}, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Private")
	require.NoError(t, err)

	_, _, err = s.GetThread(ctx, "user-2", thread.ID)
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	err = s.DeleteThread(ctx, "user-2", thread.ID)
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	list, err := s.ListThreads(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_DeleteThreadCascades(t *testing.T) {
	s := setupAssistantService(t, &fakeAssistant{reply: "bye"}, nil)
	ctx := context.Background()

	thread, err := s.CreateThread(ctx, "user-1", "Short lived")
	require.NoError(t, err)
	_, err = s.SendMessage(ctx, "user-1", thread.ID, "hello")
	require.NoError(t, err)
	s.drain()

	require.NoError(t, s.DeleteThread(ctx, "user-1", thread.ID))

	_, _, err = s.GetThread(ctx, "user-1", thread.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	messages, err := s.messages.ListByThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
