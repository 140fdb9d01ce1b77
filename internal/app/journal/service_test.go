package journal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/adapters/storage/memory"
	"github.com/PabloGalante/innerguide/internal/app/journal"
	"github.com/PabloGalante/innerguide/internal/domain"
)

type brokenStore struct{}

func (brokenStore) AppendJournalEntry(*domain.JournalEntry) error { return errors.New("down") }
func (brokenStore) ListJournalEntriesByUser(domain.UserID, int) ([]*domain.JournalEntry, error) {
	return nil, errors.New("down")
}

func TestGetUserJournalDefaultLimit(t *testing.T) {
	store := memory.NewJournalStore()
	for i := 0; i < 25; i++ {
		require.NoError(t, store.AppendJournalEntry(&domain.JournalEntry{
			UserID:     "u1",
			ActivityID: domain.ActivityID(fmt.Sprintf("a%d", i)),
		}))
	}

	svc := journal.NewService(store)
	got, err := svc.GetUserJournal(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, got, journal.DefaultLimit)
	assert.Equal(t, domain.ActivityID("a5"), got[0].ActivityID)

	got, err = svc.GetUserJournal(context.Background(), "u1", 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGetUserJournalWithoutStore(t *testing.T) {
	got, err := journal.NewService(nil).GetUserJournal(context.Background(), "u1", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetUserJournalStoreError(t *testing.T) {
	_, err := journal.NewService(brokenStore{}).GetUserJournal(context.Background(), "u1", 5)
	assert.Error(t, err)
}

func TestShifts(t *testing.T) {
	entries := []*domain.JournalEntry{
		{
			ActivityID: "breathing-4-7-8",
			MoodBefore: &domain.MoodSample{Valence: -0.2, Arousal: 0.8},
			MoodAfter:  domain.MoodSample{Valence: 0.3, Arousal: 0.2},
		},
		{ActivityID: "no-checkin", MoodAfter: domain.MoodSample{Valence: 0.5}},
	}

	got := journal.Shifts(entries)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ActivityID("breathing-4-7-8"), got[0].ActivityID)
	assert.InDelta(t, 0.5, got[0].Valence, 1e-9)
	assert.InDelta(t, -0.6, got[0].Arousal, 1e-9)
}
