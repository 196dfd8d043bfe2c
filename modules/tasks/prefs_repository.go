package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// prefsRepository provides database operations for user preferences.
type prefsRepository struct {
	db *gorm.DB
}

var _ todo.PreferencesRepository = (*prefsRepository)(nil)

func newPrefsRepository(db *gorm.DB) *prefsRepository {
	return &prefsRepository{db: db}
}

// Get retrieves the preferences row for a user.
func (r *prefsRepository) Get(ctx context.Context, userID string) (*todo.UserPreferences, error) {
	var prefs todo.UserPreferences
	if err := r.db.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert inserts or replaces the single preferences row for a user.
func (r *prefsRepository) Upsert(ctx context.Context, prefs *todo.UserPreferences) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(prefs).Error
	if err != nil {
		return fmt.Errorf("failed to upsert preferences: %w", err)
	}
	return nil
}
