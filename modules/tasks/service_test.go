package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/middleware/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestDB(t), nil)
}

func mustCreateTask(t *testing.T, s *Service, userID, title string) *todo.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), userID, CreateTaskRequest{Title: title})
	require.NoError(t, err)
	return task
}

func mustCreateCategory(t *testing.T, s *Service, userID, name string) *todo.Category {
	t.Helper()
	category, err := s.CreateCategory(context.Background(), userID, CreateCategoryRequest{Name: name})
	require.NoError(t, err)
	return category
}

func TestService_CreateTaskAssignsSortOrder(t *testing.T) {
	s := setupService(t)

	first := mustCreateTask(t, s, "user-1", "first")
	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, todo.StatusTodo, first.Status)
	assert.Equal(t, todo.PriorityMedium, first.Priority)

	second := mustCreateTask(t, s, "user-1", "second")
	assert.Equal(t, 1, second.SortOrder)

	// Other users start from zero again
	other := mustCreateTask(t, s, "user-2", "theirs")
	assert.Equal(t, 0, other.SortOrder)
}

func TestService_CreateTaskRecordsActivity(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "audited")

	activity, err := s.ListActivity(ctx, "user-1", task.ID)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	assert.Equal(t, todo.ActionCreated, activity[0].Action)
	require.NotNil(t, activity[0].Meta)
	assert.Equal(t, "audited", activity[0].Meta.TaskTitle)
}

func TestService_CreateTaskValidation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	t.Run("title at limit", func(t *testing.T) {
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: strings.Repeat("x", 200)})
		assert.NoError(t, err)
	})

	t.Run("title over limit", func(t *testing.T) {
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: strings.Repeat("x", 201)})
		var invalid *todo.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "title", invalid.Field)
	})

	t.Run("title trimmed before validation", func(t *testing.T) {
		task, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "  padded  "})
		require.NoError(t, err)
		assert.Equal(t, "padded", task.Title)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "   "})
		var invalid *todo.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("too many tags", func(t *testing.T) {
		tags := make([]string, 11)
		for i := range tags {
			tags[i] = "t"
		}
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok", Tags: tags})
		var invalid *todo.InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "tags", invalid.Field)
	})

	t.Run("unknown priority", func(t *testing.T) {
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok", Priority: "asap"})
		var invalid *todo.InvalidInputError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := s.CreateTask(ctx, "", CreateTaskRequest{Title: "ok"})
		assert.ErrorIs(t, err, todo.ErrUnauthenticated)
	})
}

func TestService_CreateTaskCategoryChecks(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	theirs := mustCreateCategory(t, s, "user-2", "Theirs")

	_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok", CategoryID: &theirs.ID})
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	missing := "no-such-category"
	_, err = s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok", CategoryID: &missing})
	assert.ErrorIs(t, err, todo.ErrNotFound)

	mine := mustCreateCategory(t, s, "user-1", "Mine")
	task, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok", CategoryID: &mine.ID})
	require.NoError(t, err)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, mine.ID, *task.CategoryID)
}

func TestService_OwnershipScoping(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "private")

	_, err := s.GetTask(ctx, "user-2", task.ID)
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	_, err = s.UpdateTask(ctx, "user-2", task.ID, UpdateTaskRequest{})
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	err = s.DeleteTask(ctx, "user-2", task.ID)
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	_, err = s.GetTask(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestService_UpdateTaskTracksChanges(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "old title")

	newTitle := "new title"
	status := todo.StatusInProgress
	updated, err := s.UpdateTask(ctx, "user-1", task.ID, UpdateTaskRequest{
		Title:  &newTitle,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, todo.StatusInProgress, updated.Status)

	activity, err := s.ListActivity(ctx, "user-1", task.ID)
	require.NoError(t, err)
	require.Len(t, activity, 2) // created + status_changed

	latest := activity[0]
	assert.Equal(t, todo.ActionStatusChanged, latest.Action)
	require.Len(t, latest.Changes, 2)

	byField := map[string]todo.FieldChange{}
	for _, change := range latest.Changes {
		byField[change.Field] = change
	}
	assert.Equal(t, "old title", byField["title"].Old)
	assert.Equal(t, "new title", byField["title"].New)
	assert.Equal(t, string(todo.StatusTodo), byField["status"].Old)
	assert.Equal(t, string(todo.StatusInProgress), byField["status"].New)
}

func TestService_UpdateTaskCompletionTimestamp(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "finishable")

	completed := todo.StatusCompleted
	updated, err := s.UpdateTask(ctx, "user-1", task.ID, UpdateTaskRequest{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)

	reopened := todo.StatusTodo
	updated, err = s.UpdateTask(ctx, "user-1", task.ID, UpdateTaskRequest{Status: &reopened})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestService_CompleteReopenArchive(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "lifecycle")

	done, err := s.CompleteTask(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	back, err := s.ReopenTask(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusTodo, back.Status)
	assert.Nil(t, back.CompletedAt)

	archived, err := s.ArchiveTask(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.StatusArchived, archived.Status)

	activity, err := s.ListActivity(ctx, "user-1", task.ID)
	require.NoError(t, err)
	require.Len(t, activity, 4)
	assert.Equal(t, todo.ActionCompleted, activity[2].Action)
}

func TestService_DeleteTaskCascades(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "doomed")
	_, err := s.AddComment(ctx, "user-1", task.ID, "a comment")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, "user-1", task.ID))

	_, err = s.GetTask(ctx, "user-1", task.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	comments, err := s.repos.comments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	activity, err := s.repos.activities.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, activity)
}

func TestService_ReorderTasksAllOrNothing(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	mine := mustCreateTask(t, s, "user-1", "mine")
	theirs := mustCreateTask(t, s, "user-2", "theirs")

	err := s.ReorderTasks(ctx, "user-1", []todo.OrderUpdate{
		{ID: mine.ID, SortOrder: 9},
		{ID: theirs.ID, SortOrder: 3},
	})
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	// The valid entry must not have been applied
	got, err := s.GetTask(ctx, "user-1", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SortOrder)

	require.NoError(t, s.ReorderTasks(ctx, "user-1", []todo.OrderUpdate{{ID: mine.ID, SortOrder: 9}}))
	got, err = s.GetTask(ctx, "user-1", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.SortOrder)
}

func TestService_DeleteCategoryUnlink(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, s, "user-1", "Chores")
	task, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "member", CategoryID: &category.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, "user-1", category.ID, todo.DeleteModeUnlink))

	got, err := s.GetTask(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	_, err = s.ListCategories(ctx, "user-1")
	require.NoError(t, err)
}

func TestService_DeleteCategoryWithTasks(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, s, "user-1", "Purge")
	member, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "member", CategoryID: &category.ID})
	require.NoError(t, err)
	_, err = s.AddComment(ctx, "user-1", member.ID, "gone soon")
	require.NoError(t, err)
	outsider := mustCreateTask(t, s, "user-1", "outsider")

	require.NoError(t, s.DeleteCategory(ctx, "user-1", category.ID, todo.DeleteModeTasks))

	_, err = s.GetTask(ctx, "user-1", member.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	comments, err := s.repos.comments.ListByTask(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Unrelated tasks survive
	_, err = s.GetTask(ctx, "user-1", outsider.ID)
	assert.NoError(t, err)
}

func TestService_DeleteCategoryInvalidMode(t *testing.T) {
	s := setupService(t)
	category := mustCreateCategory(t, s, "user-1", "Keep")

	err := s.DeleteCategory(context.Background(), "user-1", category.ID, "purge")
	var invalid *todo.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "mode", invalid.Field)
}

func TestService_Comments(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "discussed")

	comment, err := s.AddComment(ctx, "user-1", task.ID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", comment.Content)

	activity, err := s.ListActivity(ctx, "user-1", task.ID)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, todo.ActionCommented, activity[0].Action)
	require.NotNil(t, activity[0].Meta)
	assert.Equal(t, comment.ID, activity[0].Meta.CommentID)

	// Only the author may edit or delete
	_, err = s.UpdateComment(ctx, "user-2", comment.ID, "hijacked")
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)
	err = s.DeleteComment(ctx, "user-2", comment.ID)
	assert.ErrorIs(t, err, todo.ErrNotAuthorized)

	edited, err := s.UpdateComment(ctx, "user-1", comment.ID, "first, edited")
	require.NoError(t, err)
	assert.Equal(t, "first, edited", edited.Content)

	require.NoError(t, s.DeleteComment(ctx, "user-1", comment.ID))
	comments, err := s.ListComments(ctx, "user-1", task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestService_CommentValidation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	task := mustCreateTask(t, s, "user-1", "strict")

	_, err := s.AddComment(ctx, "user-1", task.ID, "   ")
	var invalid *todo.InvalidInputError
	require.ErrorAs(t, err, &invalid)

	_, err = s.AddComment(ctx, "user-1", task.ID, strings.Repeat("x", 2001))
	require.ErrorAs(t, err, &invalid)

	_, err = s.AddComment(ctx, "user-1", task.ID, strings.Repeat("x", 2000))
	assert.NoError(t, err)
}

func TestService_PreferencesDefaults(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	prefs, err := s.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, todo.ViewList, prefs.DefaultView)
	assert.Equal(t, todo.ThemeSystem, prefs.Theme)
	assert.Equal(t, 24, prefs.ReminderHours)

	// The defaults are a fallback, not a write
	_, err = s.repos.prefs.Get(ctx, "user-1")
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestService_PreferencesSaveRoundTrip(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	saved, err := s.SavePreferences(ctx, "user-1", SavePreferencesRequest{
		DefaultView:   todo.ViewBoard,
		Theme:         todo.ThemeDark,
		CompactMode:   true,
		ReminderHours: 48,
		SavedFilter:   "status:todo",
	})
	require.NoError(t, err)

	got, err := s.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, saved.DefaultView, got.DefaultView)
	assert.Equal(t, todo.ThemeDark, got.Theme)
	assert.True(t, got.CompactMode)
	assert.Equal(t, "status:todo", got.SavedFilter)

	// Saving again replaces the row
	_, err = s.SavePreferences(ctx, "user-1", SavePreferencesRequest{
		DefaultView: todo.ViewList,
		Theme:       todo.ThemeLight,
	})
	require.NoError(t, err)
	got, err = s.GetPreferences(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, todo.ThemeLight, got.Theme)
	assert.False(t, got.CompactMode)
}

func TestService_PreferencesValidation(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	var invalid *todo.InvalidInputError

	_, err := s.SavePreferences(ctx, "user-1", SavePreferencesRequest{
		DefaultView: "table", Theme: todo.ThemeDark,
	})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "default_view", invalid.Field)

	_, err = s.SavePreferences(ctx, "user-1", SavePreferencesRequest{
		DefaultView: todo.ViewList, Theme: todo.ThemeDark, ReminderHours: 169,
	})
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "reminder_hours", invalid.Field)
}

func TestService_Dashboard(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		task := mustCreateTask(t, s, "user-1", "done")
		_, err := s.CompleteTask(ctx, "user-1", task.ID)
		require.NoError(t, err)
	}
	mustCreateTask(t, s, "user-1", "open a")
	mustCreateTask(t, s, "user-1", "open b")
	mustCreateCategory(t, s, "user-1", "Work")

	summary, err := s.Dashboard(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), summary.TotalTasks)
	assert.Equal(t, int64(2), summary.ByStatus[todo.StatusCompleted])
	assert.Equal(t, int64(2), summary.ByStatus[todo.StatusTodo])
	assert.Equal(t, float64(50), summary.CompletionRate)
	assert.Equal(t, int64(1), summary.Categories)
	assert.Len(t, summary.RecentTasks, 4)
	// creates, completes and comments all audit
	assert.Positive(t, summary.RecentActivity)
}

func TestService_DashboardEmptyUser(t *testing.T) {
	s := setupService(t)

	summary, err := s.Dashboard(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalTasks)
	assert.Equal(t, float64(0), summary.CompletionRate)
	assert.Empty(t, summary.RecentTasks)
}

func TestService_DashboardExcludesArchivedFromRate(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	done := mustCreateTask(t, s, "user-1", "done")
	_, err := s.CompleteTask(ctx, "user-1", done.ID)
	require.NoError(t, err)

	parked := mustCreateTask(t, s, "user-1", "parked")
	_, err = s.ArchiveTask(ctx, "user-1", parked.ID)
	require.NoError(t, err)

	summary, err := s.Dashboard(ctx, "user-1")
	require.NoError(t, err)
	// 1 completed out of (2 total - 1 archived)
	assert.Equal(t, float64(100), summary.CompletionRate)
}

func TestService_CreateTaskRateLimited(t *testing.T) {
	limiter := ratelimit.NewTokenBucketLimiter(
		ratelimit.WithOperationLimit(opCreateTask, 2, time.Minute),
	)
	s := NewService(setupTestDB(t), limiter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "ok"})
		require.NoError(t, err)
	}

	_, err := s.CreateTask(ctx, "user-1", CreateTaskRequest{Title: "over"})
	var limited *todo.RateLimitedError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, opCreateTask, limited.Operation)
	assert.Positive(t, limited.RetryAfter)

	// Another user is unaffected
	_, err = s.CreateTask(ctx, "user-2", CreateTaskRequest{Title: "fine"})
	assert.NoError(t, err)
}

func TestService_RateLimitFailsOpen(t *testing.T) {
	s := NewService(setupTestDB(t), failingLimiter{})

	_, err := s.CreateTask(context.Background(), "user-1", CreateTaskRequest{Title: "ok"})
	assert.NoError(t, err)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, string) (*ratelimit.Result, error) {
	return nil, errors.New("limiter backend down")
}

func (failingLimiter) Close() error { return nil }
