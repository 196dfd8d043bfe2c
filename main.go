package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/modules/api"
	"github.com/example/taskboard/modules/assistant"
	"github.com/example/taskboard/modules/auth"
	"github.com/example/taskboard/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Taskboard ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	authModule := auth.NewModule()
	tasksModule := tasks.NewModule()
	assistantModule := assistant.NewModule()
	apiModule := api.NewModule()

	apiModule.SetTasksModule(tasksModule)
	apiModule.SetAssistantModule(assistantModule)

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	app.Register(authModule)
	app.Register(tasksModule)
	app.Register(assistantModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register          - Register a new user")
	log.Println("  POST   /api/v1/auth/login             - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh           - Refresh access token")
	log.Println("  GET    /health                        - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  GET    /api/v1/me                     - Current user profile")
	log.Println("  GET    /api/v1/tasks                  - List tasks")
	log.Println("  POST   /api/v1/tasks                  - Create a task")
	log.Println("  GET    /api/v1/tasks/search?q=        - Search tasks by title")
	log.Println("  PUT    /api/v1/tasks/reorder          - Reorder tasks")
	log.Println("  GET    /api/v1/tasks/:id              - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id              - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id              - Delete a task")
	log.Println("  POST   /api/v1/tasks/:id/complete     - Complete a task")
	log.Println("  POST   /api/v1/tasks/:id/reopen       - Reopen a task")
	log.Println("  POST   /api/v1/tasks/:id/archive      - Archive a task")
	log.Println("  GET    /api/v1/tasks/:id/comments     - List comments")
	log.Println("  POST   /api/v1/tasks/:id/comments     - Add a comment")
	log.Println("  GET    /api/v1/tasks/:id/activity     - Task activity log")
	log.Println("  PUT    /api/v1/comments/:id           - Edit a comment")
	log.Println("  DELETE /api/v1/comments/:id           - Delete a comment")
	log.Println("  GET    /api/v1/categories             - List categories")
	log.Println("  POST   /api/v1/categories             - Create a category")
	log.Println("  PUT    /api/v1/categories/:id         - Update a category")
	log.Println("  DELETE /api/v1/categories/:id?mode=   - Delete a category")
	log.Println("  GET    /api/v1/categories/:id/tasks   - Tasks in a category")
	log.Println("  GET    /api/v1/preferences            - Get preferences")
	log.Println("  PUT    /api/v1/preferences            - Save preferences")
	log.Println("  GET    /api/v1/dashboard              - Workload summary")
	log.Println("  GET    /api/v1/threads                - List chat threads")
	log.Println("  POST   /api/v1/threads                - Start a chat thread")
	log.Println("  GET    /api/v1/threads/:id            - Thread with messages")
	log.Println("  DELETE /api/v1/threads/:id            - Delete a thread")
	log.Println("  POST   /api/v1/threads/:id/messages   - Send a message")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
