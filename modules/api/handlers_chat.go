package api

import (
	"github.com/gofiber/fiber/v2"
)

// CreateThread starts a new assistant conversation.
func (h *Handlers) CreateThread(c *fiber.Ctx) error {
	var req ThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	thread, err := h.assistant.CreateThread(c.UserContext(), callerID(c), req.Title)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// ListThreads returns the caller's conversations.
func (h *Handlers) ListThreads(c *fiber.Ctx) error {
	list, err := h.assistant.ListThreads(c.UserContext(), callerID(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(list)
}

// GetThread returns a thread with its messages.
func (h *Handlers) GetThread(c *fiber.Ctx) error {
	thread, messages, err := h.assistant.GetThread(c.UserContext(), callerID(c), c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(ThreadResponse{Thread: thread, Messages: messages})
}

// DeleteThread removes a thread and its messages.
func (h *Handlers) DeleteThread(c *fiber.Ctx) error {
	if err := h.assistant.DeleteThread(c.UserContext(), callerID(c), c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendMessage posts a message to a thread. The assistant's reply is
// generated asynchronously and appears in the thread when ready.
func (h *Handlers) SendMessage(c *fiber.Ctx) error {
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := h.assistant.SendMessage(c.UserContext(), callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(message)
}
