package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/adapters/storage/memory"
	"github.com/PabloGalante/innerguide/internal/domain"
)

func TestMessageStoreListsMostRecentOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.NewMessageStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendMessage(ctx, &domain.Message{
			ID:      domain.MessageID(fmt.Sprintf("m%d", i)),
			UserID:  "u1",
			Content: fmt.Sprintf("msg %d", i),
			Role:    domain.RoleUser,
		}))
	}
	require.NoError(t, s.AppendMessage(ctx, &domain.Message{ID: "other", UserID: "u2"}))

	got, err := s.ListMessages(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, domain.MessageID("m2"), got[0].ID)
	assert.Equal(t, domain.MessageID("m4"), got[2].ID)

	all, err := s.ListMessages(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	require.NoError(t, s.DeleteMessages(ctx, "u1"))
	got, err = s.ListMessages(ctx, "u1", 50)
	require.NoError(t, err)
	assert.Empty(t, got)

	other, err := s.ListMessages(ctx, "u2", 50)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestJournalStoreListsLastEntries(t *testing.T) {
	s := memory.NewJournalStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AppendJournalEntry(&domain.JournalEntry{
			UserID:     "u1",
			ActivityID: domain.ActivityID(fmt.Sprintf("a%d", i)),
		}))
	}
	require.NoError(t, s.AppendJournalEntry(nil))

	got, err := s.ListJournalEntriesByUser("u1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActivityID("a2"), got[0].ActivityID)
	assert.NotEmpty(t, got[0].ID)

	none, err := s.ListJournalEntriesByUser("nobody", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestJournalStoreRejectsDuplicateIDs(t *testing.T) {
	s := memory.NewJournalStore()
	e := &domain.JournalEntry{ID: "j1", UserID: "u1", ActivityID: "a1"}
	require.NoError(t, s.AppendJournalEntry(e))

	err := s.AppendJournalEntry(&domain.JournalEntry{ID: "j1", UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	// mutating the caller's copy does not reach the store
	e.ActivityID = "changed"
	got, err := s.ListJournalEntriesByUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ActivityID("a1"), got[0].ActivityID)
}

func TestJournalStoreCopiesNestedValues(t *testing.T) {
	s := memory.NewJournalStore()
	started := time.Date(2026, 5, 6, 7, 0, 0, 0, time.UTC)
	e := &domain.JournalEntry{
		UserID:     "u1",
		StartedAt:  &started,
		MoodBefore: &domain.MoodSample{Valence: -0.4, Arousal: 0.7},
	}
	require.NoError(t, s.AppendJournalEntry(e))

	e.MoodBefore.Valence = 0.9
	*e.StartedAt = started.Add(time.Hour)

	got, err := s.ListJournalEntriesByUser("u1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, -0.4, got[0].MoodBefore.Valence)
	assert.True(t, got[0].StartedAt.Equal(started))

	got[0].MoodBefore.Valence = 0.1
	again, err := s.ListJournalEntriesByUser("u1", 0)
	require.NoError(t, err)
	assert.Equal(t, -0.4, again[0].MoodBefore.Valence)
}
