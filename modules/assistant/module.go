package assistant

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/example/taskboard/domain/chat"
	"github.com/example/taskboard/middleware/ratelimit"
	"github.com/go-monolith/mono"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module provides the chat assistant services.
type Module struct {
	db      *gorm.DB
	service *Service
	limiter ratelimit.Limiter
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new assistant Module.
func NewModule() *Module {
	dbPath := os.Getenv("TASKBOARD_CHAT_DB_PATH")
	if dbPath == "" {
		dbPath = "taskboard_chat.db"
	}
	return &Module{dbPath: dbPath}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "assistant"
}

// Start initializes the assistant module.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&chat.Thread{}, &chat.Message{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	ai := NewOpenAIAssistantFromEnv()
	if os.Getenv("AI_API_KEY") == "" {
		log.Println("[assistant] AI_API_KEY not set, assistant replies disabled")
	}

	m.limiter = newLimiter()
	m.service = NewService(db, ai, m.limiter)

	log.Printf("[assistant] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop drains in-flight replies and shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	if m.service != nil {
		m.service.drain()
	}
	if m.limiter != nil {
		m.limiter.Close()
	}
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[assistant] Module stopped")
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
			"database":          m.dbPath,
			"assistant_enabled": os.Getenv("AI_API_KEY") != "",
		},
	}
}

// GetService returns the business service for in-process consumers.
func (m *Module) GetService() *Service {
	return m.service
}

// newLimiter builds the rate limiter for conversation operations.
func newLimiter() ratelimit.Limiter {
	opts := []ratelimit.Option{
		ratelimit.WithOperationLimit(opCreateThread, 5, time.Minute),
		ratelimit.WithOperationLimit(opCreateMessage, 10, time.Minute),
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := ratelimit.NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
		log.Printf("[assistant] Using Redis rate limiter (%s)", addr)
		return ratelimit.NewRedisLimiter(client, opts...)
	}
	return ratelimit.NewTokenBucketLimiter(opts...)
}
