package domain

import "time"

type UserID string
type MessageID string
type ActivityID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DevUserID is used when the auth provider cannot resolve a user.
const DevUserID UserID = "dev-user"

type Timestamp = time.Time
