package domain

import (
	"errors"
	"time"
)

var ErrEmptyMessage = errors.New("message text is empty")

// Message is one entry of a user's chat log. Never mutated after creation.
type Message struct {
	ID        MessageID `json:"id"`
	UserID    UserID    `json:"user_id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// Personality selects the system prompt and model parameters used
// for completion requests.
type Personality struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	PromptTemplate string  `json:"prompt_template" yaml:"prompt_template"`
	ModelID        string  `json:"model_id" yaml:"model_id"`
	Temperature    float64 `json:"temperature" yaml:"temperature"`
}

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSupport NotificationType = "support"
)

type NotificationAction struct {
	Label  string `json:"label"`
	Target string `json:"target"` // tel:, https:// or an app path
}

type Notification struct {
	ID        string              `json:"id"`
	Type      NotificationType    `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Duration  time.Duration       `json:"-"`
	Action    *NotificationAction `json:"action,omitempty"`
	CreatedAt Timestamp           `json:"created_at"`
}
