package domain

import (
	"context"
	"errors"
)

var ErrNoCompletionClient = errors.New("no completion client configured")

// ChatTurn is one role/content pair sent to a completion endpoint.
type ChatTurn struct {
	Role    Role
	Content string
}

// CompletionRequest is a single non-streaming chat completion call.
type CompletionRequest struct {
	Model       string
	Temperature float64
	MaxTokens   int
	System      string
	History     []ChatTurn
}

// CompletionClient defines how the core application talks to a language model.
type CompletionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// MessageStore is the remote chat-message persistence, keyed by user.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *Message) error
	// ListMessages returns up to limit of the most recent messages, oldest first.
	ListMessages(ctx context.Context, userID UserID, limit int) ([]*Message, error)
	DeleteMessages(ctx context.Context, userID UserID) error
}

// LocalMessageStore is the on-device fallback used when the remote store fails.
type LocalMessageStore interface {
	LoadMessages(userID UserID) ([]*Message, error)
	AppendMessage(msg *Message) error
	DeleteMessages(userID UserID) error
}

// IdentityProvider resolves the user behind the current call.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (UserID, error)
}

// Notifier delivers advisory pop-ups to a user.
type Notifier interface {
	Notify(ctx context.Context, userID UserID, n Notification) error
}
