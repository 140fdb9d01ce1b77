package memory

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// JournalStore keeps journal entries per user in completion order.
// Entries are copied in and out, so callers never share state with the store.
type JournalStore struct {
	mu     sync.RWMutex
	seen   map[domain.JournalEntryID]struct{}
	byUser map[domain.UserID][]domain.JournalEntry
}

func NewJournalStore() *JournalStore {
	return &JournalStore{
		seen:   make(map[domain.JournalEntryID]struct{}),
		byUser: make(map[domain.UserID][]domain.JournalEntry),
	}
}

// AppendJournalEntry stores entry, assigning an id when it has none.
// Reusing an id fails with domain.ErrDuplicateEntry.
func (s *JournalStore) AppendJournalEntry(entry *domain.JournalEntry) error {
	if entry == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(uuid.NewString())
	}
	if _, dup := s.seen[entry.ID]; dup {
		return fmt.Errorf("journal entry %s: %w", entry.ID, domain.ErrDuplicateEntry)
	}

	s.seen[entry.ID] = struct{}{}
	s.byUser[entry.UserID] = append(s.byUser[entry.UserID], cloneEntry(entry))
	return nil
}

// ListJournalEntriesByUser returns up to limit of the user's most recent
// entries, oldest first. limit <= 0 returns them all.
func (s *JournalStore) ListJournalEntriesByUser(userID domain.UserID, limit int) ([]*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.byUser[userID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}

	out := make([]*domain.JournalEntry, 0, limit)
	for _, e := range all[len(all)-limit:] {
		c := cloneEntry(&e)
		out = append(out, &c)
	}
	return out, nil
}

func cloneEntry(e *domain.JournalEntry) domain.JournalEntry {
	c := *e
	if e.StartedAt != nil {
		t := *e.StartedAt
		c.StartedAt = &t
	}
	if e.MoodBefore != nil {
		m := *e.MoodBefore
		c.MoodBefore = &m
	}
	return c
}
