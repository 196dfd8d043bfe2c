package tasks

import (
	"context"
	"strings"

	"github.com/example/taskboard/domain/todo"
	"github.com/google/uuid"
)

// CreateCategory creates a category for the caller.
func (s *Service) CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (*todo.Category, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if !todo.ValidCategoryName(name) {
		return nil, todo.NewInvalidInput("name", "must be 1-50 characters")
	}
	color := req.Color
	if color == "" {
		color = todo.DefaultCategoryColor
	}
	if !todo.ValidHexColor(color) {
		return nil, todo.NewInvalidInput("color", "must be a #rrggbb hex color")
	}
	if !todo.ValidIconName(req.Icon) {
		return nil, todo.NewInvalidInput("icon", "must be a lowercase icon name")
	}
	if !todo.ValidSortOrder(req.SortOrder) {
		return nil, todo.NewInvalidInput("sort_order", "must be non-negative")
	}

	now := s.now()
	category := &todo.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns the caller's categories in custom order.
func (s *Service) ListCategories(ctx context.Context, userID string) ([]todo.Category, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}
	return s.repos.categories.ListByUser(ctx, userID)
}

// UpdateCategory applies a partial update to one of the caller's
// categories.
func (s *Service) UpdateCategory(ctx context.Context, userID, categoryID string, req UpdateCategoryRequest) (*todo.Category, error) {
	if err := authenticate(userID); err != nil {
		return nil, err
	}

	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !todo.ValidCategoryName(name) {
			return nil, todo.NewInvalidInput("name", "must be 1-50 characters")
		}
		category.Name = name
	}
	if req.Color != nil {
		if !todo.ValidHexColor(*req.Color) {
			return nil, todo.NewInvalidInput("color", "must be a #rrggbb hex color")
		}
		category.Color = *req.Color
	}
	if req.Icon != nil {
		if !todo.ValidIconName(*req.Icon) {
			return nil, todo.NewInvalidInput("icon", "must be a lowercase icon name")
		}
		category.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		if !todo.ValidSortOrder(*req.SortOrder) {
			return nil, todo.NewInvalidInput("sort_order", "must be non-negative")
		}
		category.SortOrder = *req.SortOrder
	}

	category.UpdatedAt = s.now()
	if err := s.repos.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes one of the caller's categories. The mode
// decides what happens to member tasks: unlink detaches them, deleteTasks
// removes them together with their comments and activity.
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID string, mode todo.CategoryDeleteMode) error {
	if err := authenticate(userID); err != nil {
		return err
	}
	if mode != todo.DeleteModeUnlink && mode != todo.DeleteModeTasks {
		return todo.NewInvalidInput("mode", "must be unlink or deleteTasks")
	}
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	return s.inTx(ctx, func(r repositories) error {
		if mode == todo.DeleteModeTasks {
			members, err := r.tasks.ListByCategory(ctx, categoryID)
			if err != nil {
				return err
			}
			for _, task := range members {
				if err := r.comments.DeleteByTask(ctx, task.ID); err != nil {
					return err
				}
				if err := r.activities.DeleteByTask(ctx, task.ID); err != nil {
					return err
				}
				if err := r.tasks.Delete(ctx, task.ID); err != nil {
					return err
				}
			}
		} else {
			if err := r.tasks.ClearCategory(ctx, categoryID); err != nil {
				return err
			}
		}
		return r.categories.Delete(ctx, categoryID)
	})
}
