package api

import (
	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// CreateCategory handles category creation.
func (h *Handlers) CreateCategory(c *fiber.Ctx) error {
	var req tasks.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.tasks.CreateCategory(c.UserContext(), callerID(c), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories returns the caller's categories.
func (h *Handlers) ListCategories(c *fiber.Ctx) error {
	list, err := h.tasks.ListCategories(c.UserContext(), callerID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// UpdateCategory handles a partial category update.
func (h *Handlers) UpdateCategory(c *fiber.Ctx) error {
	var req tasks.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.tasks.UpdateCategory(c.UserContext(), callerID(c), c.Params("id"), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory removes a category. The mode query parameter selects
// what happens to member tasks (unlink or deleteTasks, default unlink).
func (h *Handlers) DeleteCategory(c *fiber.Ctx) error {
	mode := todo.CategoryDeleteMode(c.Query("mode", string(todo.DeleteModeUnlink)))

	if err := h.tasks.DeleteCategory(c.UserContext(), callerID(c), c.Params("id"), mode); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTasksByCategory returns the member tasks of a category.
func (h *Handlers) ListTasksByCategory(c *fiber.Ctx) error {
	list, err := h.tasks.ListTasksByCategory(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// GetPreferences returns the caller's preferences or the defaults.
func (h *Handlers) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.tasks.GetPreferences(c.UserContext(), callerID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(prefs)
}

// SavePreferences replaces the caller's preferences.
func (h *Handlers) SavePreferences(c *fiber.Ctx) error {
	var req tasks.SavePreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	prefs, err := h.tasks.SavePreferences(c.UserContext(), callerID(c), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(prefs)
}

// Dashboard returns the caller's workload summary.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	summary, err := h.tasks.Dashboard(c.UserContext(), callerID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(summary)
}
