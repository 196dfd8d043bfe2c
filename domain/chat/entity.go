// Package chat defines the entities and contracts for assistant
// conversations.
package chat

import (
	"context"
	"time"
)

// Role identifies who authored a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// MaxThreadTitleLen bounds thread titles.
const MaxThreadTitleLen = 120

// Thread is a user-owned conversation container.
type Thread struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;not null;size:36" json:"user_id"`
	Title     string    `gorm:"size:120;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Thread entity.
func (Thread) TableName() string {
	return "chat_threads"
}

// Message is one entry in a thread, ordered by creation time.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ThreadID  string    `gorm:"index;not null;size:36" json:"thread_id"`
	Role      Role      `gorm:"size:10;not null" json:"role"`
	Content   string    `gorm:"size:4000;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName returns the table name for the Message entity.
func (Message) TableName() string {
	return "chat_messages"
}

// ThreadRepository provides database operations for threads.
type ThreadRepository interface {
	Create(ctx context.Context, thread *Thread) error
	GetByID(ctx context.Context, id string) (*Thread, error)
	ListByUser(ctx context.Context, userID string) ([]Thread, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// MessageRepository provides database operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	ListByThread(ctx context.Context, threadID string) ([]Message, error)
	DeleteByThread(ctx context.Context, threadID string) error
}

// Assistant generates a reply for a conversation history. Implementations
// call an external model API; the reply is persisted by the caller as a
// role=assistant message.
type Assistant interface {
	Reply(ctx context.Context, history []Message) (string, error)
}
