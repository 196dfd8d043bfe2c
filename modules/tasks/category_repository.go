package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/taskboard/domain/todo"
	"gorm.io/gorm"
)

// categoryRepository provides database operations for categories.
type categoryRepository struct {
	db *gorm.DB
}

var _ todo.CategoryRepository = (*categoryRepository)(nil)

func newCategoryRepository(db *gorm.DB) *categoryRepository {
	return &categoryRepository{db: db}
}

// Create saves a new category.
func (r *categoryRepository) Create(ctx context.Context, category *todo.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by its ID.
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*todo.Category, error) {
	var category todo.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// ListByUser retrieves a user's categories in custom order.
func (r *categoryRepository) ListByUser(ctx context.Context, userID string) ([]todo.Category, error) {
	var categories []todo.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Update persists all fields of an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *todo.Category) error {
	result := r.db.WithContext(ctx).
		Model(&todo.Category{}).
		Where("id = ?", category.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(category)
	if result.Error != nil {
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// Delete removes a category by ID.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&todo.Category{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return todo.ErrNotFound
	}
	return nil
}

// CountByUser counts a user's categories.
func (r *categoryRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&todo.Category{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
