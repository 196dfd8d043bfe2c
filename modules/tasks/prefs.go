package tasks

import (
	"context"
	"errors"

	"github.com/example/taskboard/domain/todo"
)

// GetPreferences returns the caller's preferences, falling back to the
// defaults when nothing has been saved yet. The fallback is not
// persisted.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*todo.UserPreferences, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	prefs, err := s.repos.prefs.Get(ctx, userID)
	if errors.Is(err, todo.ErrNotFound) {
		return todo.DefaultPreferences(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// SavePreferences validates and stores the caller's full preferences
// document, replacing any previous row.
func (s *Service) SavePreferences(ctx context.Context, userID string, req SavePreferencesRequest) (*todo.UserPreferences, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	if !req.DefaultView.IsValid() {
		return nil, todo.NewInvalidInput("default_view", "unknown view type")
	}
	if !req.Theme.IsValid() {
		return nil, todo.NewInvalidInput("theme", "unknown theme")
	}
	if !todo.ValidReminderHours(req.ReminderHours) {
		return nil, todo.NewInvalidInput("reminder_hours", "must be 0-168")
	}

	now := s.now()
	prefs := &todo.UserPreferences{
		UserID:            userID,
		DefaultView:       req.DefaultView,
		Theme:             req.Theme,
		CompactMode:       req.CompactMode,
		EmailNotification: req.EmailNotification,
		PushNotification:  req.PushNotification,
		ReminderHours:     req.ReminderHours,
		SavedFilter:       req.SavedFilter,
		SavedSort:         req.SavedSort,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repos.prefs.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
