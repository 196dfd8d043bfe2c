package api

import (
	"time"

	"github.com/example/taskboard/domain/chat"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserResponse represents a user account response.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ReorderRequest carries a batch of task order changes.
type ReorderRequest struct {
	Orders []OrderEntry `json:"orders"`
}

// OrderEntry is one task's new position.
type OrderEntry struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
}

// CommentRequest carries a comment body.
type CommentRequest struct {
	Content string `json:"content"`
}

// ThreadRequest carries a new conversation's title.
type ThreadRequest struct {
	Title string `json:"title"`
}

// MessageRequest carries a chat message body.
type MessageRequest struct {
	Content string `json:"content"`
}

// ThreadResponse is a thread together with its messages.
type ThreadResponse struct {
	Thread   *chat.Thread   `json:"thread"`
	Messages []chat.Message `json:"messages"`
}
