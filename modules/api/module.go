package api

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/example/taskboard/modules/assistant"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/tasks"
	"github.com/go-monolith/mono"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule is the HTTP API module.
type APIModule struct {
	app             *fiber.App
	authContainer   mono.ServiceContainer
	authAdapter     auth.AuthPort
	tasksModule     *tasks.Module
	assistantModule *assistant.Module
	port            int
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule() *APIModule {
	port := 3000
	if v := os.Getenv("API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	return &APIModule{port: port}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.authAdapter = auth.NewAdapter(container)
	}
}

// SetTasksModule sets the tasks module dependency.
func (m *APIModule) SetTasksModule(tm *tasks.Module) {
	m.tasksModule = tm
}

// SetAssistantModule sets the assistant module dependency.
func (m *APIModule) SetAssistantModule(am *assistant.Module) {
	m.assistantModule = am
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.authContainer == nil {
		return fmt.Errorf("auth dependency not set")
	}
	if m.tasksModule == nil {
		return fmt.Errorf("tasks module not set")
	}
	if m.assistantModule == nil {
		return fmt.Errorf("assistant module not set")
	}

	m.app = fiber.New(fiber.Config{
		AppName:               "Taskboard",
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	m.app.Use(cors.New())

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(fmt.Sprintf(":%d", m.port)); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on :%d", m.port)
	return nil
}

// Stop shuts down the Fiber HTTP server.
func (m *APIModule) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.port,
		},
	}
}

// setupRoutes configures all API routes.
func (m *APIModule) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.authAdapter, m.tasksModule.GetService(), m.assistantModule.GetService())

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	// Public auth routes
	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	// Protected routes (require authentication)
	protected := v1.Group("")
	protected.Use(AuthMiddleware(m.authAdapter))

	protected.Get("/me", handlers.Profile)

	protected.Get("/tasks", handlers.ListTasks)
	protected.Post("/tasks", handlers.CreateTask)
	protected.Get("/tasks/search", handlers.SearchTasks)
	protected.Put("/tasks/reorder", handlers.ReorderTasks)
	protected.Get("/tasks/:id", handlers.GetTask)
	protected.Put("/tasks/:id", handlers.UpdateTask)
	protected.Delete("/tasks/:id", handlers.DeleteTask)
	protected.Post("/tasks/:id/complete", handlers.CompleteTask)
	protected.Post("/tasks/:id/reopen", handlers.ReopenTask)
	protected.Post("/tasks/:id/archive", handlers.ArchiveTask)
	protected.Get("/tasks/:id/comments", handlers.ListComments)
	protected.Post("/tasks/:id/comments", handlers.AddComment)
	protected.Get("/tasks/:id/activity", handlers.ListActivity)

	protected.Put("/comments/:id", handlers.UpdateComment)
	protected.Delete("/comments/:id", handlers.DeleteComment)

	protected.Get("/categories", handlers.ListCategories)
	protected.Post("/categories", handlers.CreateCategory)
	protected.Put("/categories/:id", handlers.UpdateCategory)
	protected.Delete("/categories/:id", handlers.DeleteCategory)
	protected.Get("/categories/:id/tasks", handlers.ListTasksByCategory)

	protected.Get("/preferences", handlers.GetPreferences)
	protected.Put("/preferences", handlers.SavePreferences)

	protected.Get("/dashboard", handlers.Dashboard)

	protected.Get("/threads", handlers.ListThreads)
	protected.Post("/threads", handlers.CreateThread)
	protected.Get("/threads/:id", handlers.GetThread)
	protected.Delete("/threads/:id", handlers.DeleteThread)
	protected.Post("/threads/:id/messages", handlers.SendMessage)
}

// customErrorHandler handles Fiber errors.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
