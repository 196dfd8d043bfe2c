package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/middleware/ratelimit"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/taskboard/domain/todo"
	"github.com/go-monolith/mono"
)

// Module provides task, category, comment, activity, preferences and
// dashboard services.
type Module struct {
	db      *gorm.DB
	service *Service
	limiter ratelimit.Limiter
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new tasks Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard.db"
	}
	return &Module{dbPath: dbPath}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "tasks"
}

// Start initializes the tasks module.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	err = db.AutoMigrate(
		&todo.Task{},
		&todo.Category{},
		&todo.TaskComment{},
		&todo.TaskActivity{},
		&todo.UserPreferences{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.limiter = newLimiter()
	m.service = NewService(db, m.limiter)

	log.Printf("[tasks] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.limiter != nil {
		m.limiter.Close()
	}
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[tasks] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// GetService returns the business service for in-process consumers.
func (m *Module) GetService() *Service {
	return m.service
}

// newLimiter builds the rate limiter for mutating operations. With
// REDIS_ADDR set the buckets live in Redis and survive restarts,
// otherwise an in-process limiter is used.
func newLimiter() ratelimit.Limiter {
	opts := []ratelimit.Option{
		ratelimit.WithOperationLimit(opCreateTask, 30, time.Minute),
		ratelimit.WithOperationLimit(opCreateComment, 20, time.Minute),
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := ratelimit.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
		log.Printf("[tasks] Using Redis rate limiter (%s)", addr)
		return ratelimit.NewRedisLimiter(client, opts...)
	}
	return ratelimit.NewTokenBucketLimiter(opts...)
}
