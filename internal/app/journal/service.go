package journal

import (
	"context"

	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// DefaultLimit applies when the caller does not ask for a specific count.
const DefaultLimit = 20

// Service holds the logic of reading journal entries
type Service struct {
	store domain.JournalStore
}

// NewService creates a journal service from a JournalStore
func NewService(store domain.JournalStore) *Service {
	return &Service{
		store: store,
	}
}

// GetUserJournal returns the last `limit` journal entries for a user, oldest first.
// If limit <= 0, DefaultLimit is used.
func (s *Service) GetUserJournal(
	ctx context.Context,
	userID domain.UserID,
	limit int,
) ([]*domain.JournalEntry, error) {

	if s.store == nil {
		return []*domain.JournalEntry{}, nil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	entries, err := s.store.ListJournalEntriesByUser(userID, limit)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list journal entries",
			"user_id", userID, "error", err)
		return nil, err
	}
	return entries, nil
}

// MoodShift is the change between the check-ins around one activity.
type MoodShift struct {
	ActivityID domain.ActivityID `json:"activity_id"`
	Valence    float64           `json:"valence_delta"`
	Arousal    float64           `json:"arousal_delta"`
}

// Shifts reports the mood change for every entry that has a pre-activity
// check-in.
func Shifts(entries []*domain.JournalEntry) []MoodShift {
	var out []MoodShift
	for _, e := range entries {
		if e.MoodBefore == nil {
			continue
		}
		out = append(out, MoodShift{
			ActivityID: e.ActivityID,
			Valence:    e.MoodAfter.Valence - e.MoodBefore.Valence,
			Arousal:    e.MoodAfter.Arousal - e.MoodBefore.Arousal,
		})
	}
	return out
}
