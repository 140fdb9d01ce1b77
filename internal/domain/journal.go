package domain

import (
	"errors"
	"time"
)

var ErrDuplicateEntry = errors.New("journal entry already exists")

// JournalEntryID identifies a journal entry
type JournalEntryID string

// JournalEntry records one completed activity together with the mood
// the user reported before starting it and after finishing it.
type JournalEntry struct {
	ID     JournalEntryID `json:"id"`
	UserID UserID         `json:"user_id"`

	ActivityID    ActivityID `json:"activity_id"`
	ActivityTitle string     `json:"activity_title"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt time.Time  `json:"completed_at"`

	// MoodBefore is nil when the user skipped the pre-activity check-in
	MoodBefore *MoodSample `json:"mood_before,omitempty"`
	MoodAfter  MoodSample  `json:"mood_after"`
}

// JournalStore defines the minimum operations to persist the journal
type JournalStore interface {
	AppendJournalEntry(entry *JournalEntry) error
	ListJournalEntriesByUser(userID UserID, limit int) ([]*JournalEntry, error)
}
