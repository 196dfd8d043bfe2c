package tasks

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/middleware/ratelimit"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Rate-limited operations. Keys are (operation, user id) pairs.
const (
	opCreateTask    = "task.create"
	opCreateComment = "comment.create"
)

// repositories bundles the entity stores behind one database handle so a
// transaction can rebind all of them at once.
type repositories struct {
	tasks      todo.TaskRepository
	categories todo.CategoryRepository
	comments   todo.CommentRepository
	activities todo.ActivityRepository
	prefs      todo.PreferencesRepository
}

func newRepositories(db *gorm.DB) repositories {
	return repositories{
		tasks:      newTaskRepository(db),
		categories: newCategoryRepository(db),
		comments:   newCommentRepository(db),
		activities: newActivityRepository(db),
		prefs:      newPrefsRepository(db),
	}
}

// Service implements the task management business layer. Every operation
// follows the same protocol: authenticate, rate-limit (selected
// mutations), authorize by ownership, validate, execute, audit.
type Service struct {
	db         *gorm.DB
	repos      repositories
	limiter    ratelimit.Limiter
	dashboards singleflight.Group
	now        func() time.Time
}

// NewService creates a new task Service. limiter may be nil to disable
// rate limiting (tests).
func NewService(db *gorm.DB, limiter ratelimit.Limiter) *Service {
	return &Service{
		db:      db,
		repos:   newRepositories(db),
		limiter: limiter,
		now:     time.Now,
	}
}

// inTx runs fn against transaction-bound repositories so one handler's
// writes commit or roll back as a unit.
func (s *Service) inTx(ctx context.Context, fn func(r repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

// authenticate rejects calls without a resolved caller identity.
func authenticate(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return todo.ErrUnauthenticated
	}
	return nil
}

// allow consults the token bucket for one operation. Limiter errors fail
// open: an unreachable limiter must not take mutations down with it.
func (s *Service) allow(ctx context.Context, operation, userID string) error {
	if s.limiter == nil {
		return nil
	}
	result, err := s.limiter.Allow(ctx, operation, userID)
	if err != nil {
		log.Printf("[tasks] rate limit check failed for %s: %v", operation, err)
		return nil
	}
	if !result.Allowed {
		return &todo.RateLimitedError{Operation: operation, RetryAfter: result.RetryAfter}
	}
	return nil
}

// ownedTask loads a task and authorizes the caller as its owner.
func (s *Service) ownedTask(ctx context.Context, userID, taskID string) (*todo.Task, error) {
	task, err := s.repos.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, todo.ErrNotAuthorized
	}
	return task, nil
}

// ownedCategory loads a category and authorizes the caller as its owner.
func (s *Service) ownedCategory(ctx context.Context, userID, categoryID string) (*todo.Category, error) {
	category, err := s.repos.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, todo.ErrNotAuthorized
	}
	return category, nil
}

func newActivity(taskID, userID string, action todo.ActivityAction, changes todo.FieldChanges, meta *todo.ActivityMeta, at time.Time) *todo.TaskActivity {
	return &todo.TaskActivity{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Changes:   changes,
		Meta:      meta,
		CreatedAt: at,
	}
}

// CreateTask creates a task for the caller with the next sort order.
func (s *Service) CreateTask(ctx context.Context, userID string, req CreateTaskRequest) (*todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if err := s.allow(ctx, opCreateTask, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if !todo.ValidTitle(title) {
		return nil, todo.NewInvalidInput("title", "must be 1-200 characters")
	}
	if !todo.ValidDescription(description) {
		return nil, todo.NewInvalidInput("description", "must be at most 5000 characters")
	}

	priority := req.Priority
	if priority == "" {
		priority = todo.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, todo.NewInvalidInput("priority", "unknown priority")
	}
	if !todo.ValidTags(req.Tags) {
		return nil, todo.NewInvalidInput("tags", "at most 10 tags of 1-30 characters each")
	}

	if req.CategoryID != nil {
		if _, err := s.ownedCategory(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := &todo.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CategoryID:  req.CategoryID,
		Priority:    priority,
		Status:      todo.StatusTodo,
		DueAt:       msToTime(req.DueAtMs),
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.inTx(ctx, func(r repositories) error {
		max, ok, err := r.tasks.MaxOrder(ctx, userID)
		if err != nil {
			return err
		}
		if ok {
			task.SortOrder = max + 1
		}
		if err := r.tasks.Create(ctx, task); err != nil {
			return err
		}
		return r.activities.Append(ctx, newActivity(
			task.ID, userID, todo.ActionCreated, nil,
			&todo.ActivityMeta{TaskTitle: task.Title}, now,
		))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns one of the caller's tasks.
func (s *Service) GetTask(ctx context.Context, userID, taskID string) (*todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	return s.ownedTask(ctx, userID, taskID)
}

// ListTasks returns the caller's tasks, newest first.
func (s *Service) ListTasks(ctx context.Context, userID string) ([]todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	return s.repos.tasks.ListByUser(ctx, userID)
}

// ListTasksByCategory returns the member tasks of one of the caller's
// categories.
func (s *Service) ListTasksByCategory(ctx context.Context, userID, categoryID string) ([]todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return nil, err
	}
	return s.repos.tasks.ListByCategory(ctx, categoryID)
}

// UpdateTask applies a partial update, recording old/new pairs for the
// tracked fields. Status changes get a distinct audit action.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID string, req UpdateTaskRequest) (*todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	var changes todo.FieldChanges
	statusChanged := false

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if !todo.ValidTitle(title) {
			return nil, todo.NewInvalidInput("title", "must be 1-200 characters")
		}
		if title != task.Title {
			changes = append(changes, todo.FieldChange{Field: "title", Old: task.Title, New: title})
		}
		task.Title = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if !todo.ValidDescription(description) {
			return nil, todo.NewInvalidInput("description", "must be at most 5000 characters")
		}
		task.Description = description
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, todo.NewInvalidInput("priority", "unknown priority")
		}
		if *req.Priority != task.Priority {
			changes = append(changes, todo.FieldChange{
				Field: "priority", Old: string(task.Priority), New: string(*req.Priority),
			})
		}
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, todo.NewInvalidInput("status", "unknown status")
		}
		if *req.Status != task.Status {
			statusChanged = true
			changes = append(changes, todo.FieldChange{
				Field: "status", Old: string(task.Status), New: string(*req.Status),
			})
		}
		task.Status = *req.Status
	}
	if req.Tags != nil {
		if !todo.ValidTags(*req.Tags) {
			return nil, todo.NewInvalidInput("tags", "at most 10 tags of 1-30 characters each")
		}
		task.Tags = *req.Tags
	}
	if req.SortOrder != nil {
		if !todo.ValidSortOrder(*req.SortOrder) {
			return nil, todo.NewInvalidInput("sort_order", "must be non-negative")
		}
		task.SortOrder = *req.SortOrder
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			task.CategoryID = nil
		} else {
			if _, err := s.ownedCategory(ctx, userID, *req.CategoryID); err != nil {
				return nil, err
			}
			task.CategoryID = req.CategoryID
		}
	}
	if req.DueAtMs != nil {
		task.DueAt = msToTime(req.DueAtMs)
	}

	now := s.now()
	task.UpdatedAt = now

	// CompletedAt is set iff the task is completed
	if statusChanged {
		if task.Status == todo.StatusCompleted {
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	action := todo.ActionUpdated
	if statusChanged {
		action = todo.ActionStatusChanged
	}

	err = s.inTx(ctx, func(r repositories) error {
		if err := r.tasks.Update(ctx, task); err != nil {
			return err
		}
		return r.activities.Append(ctx, newActivity(task.ID, userID, action, changes, nil, now))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CompleteTask marks a task completed and stamps the completion time.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID string) (*todo.Task, error) {
	return s.transition(ctx, userID, taskID, todo.StatusCompleted, todo.ActionCompleted)
}

// ReopenTask returns a task to todo and clears the completion time.
func (s *Service) ReopenTask(ctx context.Context, userID, taskID string) (*todo.Task, error) {
	return s.transition(ctx, userID, taskID, todo.StatusTodo, todo.ActionStatusChanged)
}

// ArchiveTask moves a task to the archive.
func (s *Service) ArchiveTask(ctx context.Context, userID, taskID string) (*todo.Task, error) {
	return s.transition(ctx, userID, taskID, todo.StatusArchived, todo.ActionStatusChanged)
}

func (s *Service) transition(ctx context.Context, userID, taskID string, status todo.Status, action todo.ActivityAction) (*todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	changes := todo.FieldChanges{{Field: "status", Old: string(task.Status), New: string(status)}}
	task.Status = status
	task.UpdatedAt = now
	if status == todo.StatusCompleted {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	err = s.inTx(ctx, func(r repositories) error {
		if err := r.tasks.Update(ctx, task); err != nil {
			return err
		}
		return r.activities.Append(ctx, newActivity(task.ID, userID, action, changes, nil, now))
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ReorderTasks applies a batch of sort order changes. Every referenced
// task is validated and authorized before any order is written, so a bad
// entry fails the whole batch.
func (s *Service) ReorderTasks(ctx context.Context, userID string, updates []todo.OrderUpdate) error {
	if err := authenticate(userID); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		if !todo.ValidSortOrder(u.SortOrder) {
			return todo.NewInvalidInput("sort_order", "must be non-negative")
		}
		if _, err := s.ownedTask(ctx, userID, u.ID); err != nil {
			return err
		}
	}

	return s.inTx(ctx, func(r repositories) error {
		return r.tasks.UpdateOrders(ctx, updates)
	})
}

// DeleteTask removes a task and cascades to its comments and activity.
// Children go first so a failure mid-cascade cannot orphan them.
func (s *Service) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := authenticate(userID); err != nil {
		return err
	}
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}

	return s.inTx(ctx, func(r repositories) error {
		if err := r.comments.DeleteByTask(ctx, taskID); err != nil {
			return err
		}
		if err := r.activities.DeleteByTask(ctx, taskID); err != nil {
			return err
		}
		return r.tasks.Delete(ctx, taskID)
	})
}

// SearchTasks matches the caller's task titles against query, optionally
// filtered by status.
func (s *Service) SearchTasks(ctx context.Context, userID, query string, status *todo.Status) ([]todo.Task, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, todo.NewInvalidInput("query", "must not be empty")
	}
	if status != nil && !status.IsValid() {
		return nil, todo.NewInvalidInput("status", "unknown status")
	}

	return s.repos.tasks.SearchByTitle(ctx, userID, query, status, todo.MaxSearchResults)
}

// msToTime converts an optional epoch-milliseconds value to a time,
// treating 0 as absent.
func msToTime(ms *int64) *time.Time {
	if ms == nil || *ms == 0 {
		return nil
	}
	t := time.UnixMilli(*ms)
	return &t
}
