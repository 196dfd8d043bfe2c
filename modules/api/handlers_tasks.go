package api

import (
	"github.com/example/taskboard/domain/todo"
	"github.com/example/taskboard/modules/tasks"
	"github.com/gofiber/fiber/v2"
)

// CreateTask handles task creation.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	var req tasks.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.tasks.CreateTask(c.UserContext(), callerID(c), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListTasks returns the caller's tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	list, err := h.tasks.ListTasks(c.UserContext(), callerID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// GetTask returns one task.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	task, err := h.tasks.GetTask(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(task)
}

// UpdateTask handles a partial task update.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	var req tasks.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), callerID(c), c.Params("id"), req)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(task)
}

// DeleteTask removes a task with its comments and activity.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	if err := h.tasks.DeleteTask(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteTask marks a task completed.
func (h *Handlers) CompleteTask(c *fiber.Ctx) error {
	task, err := h.tasks.CompleteTask(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(task)
}

// ReopenTask returns a task to todo.
func (h *Handlers) ReopenTask(c *fiber.Ctx) error {
	task, err := h.tasks.ReopenTask(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(task)
}

// ArchiveTask moves a task to the archive.
func (h *Handlers) ArchiveTask(c *fiber.Ctx) error {
	task, err := h.tasks.ArchiveTask(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(task)
}

// ReorderTasks applies a batch of sort order changes.
func (h *Handlers) ReorderTasks(c *fiber.Ctx) error {
	var req ReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updates := make([]todo.OrderUpdate, 0, len(req.Orders))
	for _, o := range req.Orders {
		updates = append(updates, todo.OrderUpdate{ID: o.ID, SortOrder: o.SortOrder})
	}

	if err := h.tasks.ReorderTasks(c.UserContext(), callerID(c), updates); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchTasks matches task titles against the q query parameter, with an
// optional status filter.
func (h *Handlers) SearchTasks(c *fiber.Ctx) error {
	var status *todo.Status
	if v := c.Query("status"); v != "" {
		s := todo.Status(v)
		status = &s
	}

	list, err := h.tasks.SearchTasks(c.UserContext(), callerID(c), c.Query("q"), status)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// AddComment appends a comment to a task.
func (h *Handlers) AddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.tasks.AddComment(c.UserContext(), callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments returns a task's comments.
func (h *Handlers) ListComments(c *fiber.Ctx) error {
	list, err := h.tasks.ListComments(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// UpdateComment edits a comment authored by the caller.
func (h *Handlers) UpdateComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.tasks.UpdateComment(c.UserContext(), callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes a comment authored by the caller.
func (h *Handlers) DeleteComment(c *fiber.Ctx) error {
	if err := h.tasks.DeleteComment(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListActivity returns a task's audit trail.
func (h *Handlers) ListActivity(c *fiber.Ctx) error {
	list, err := h.tasks.ListActivity(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}
