package recommend_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/adapters/storage/memory"
	"github.com/PabloGalante/innerguide/internal/app/recommend"
	"github.com/PabloGalante/innerguide/internal/domain"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

func TestTrackerInitialRankingHasNoMood(t *testing.T) {
	tr := recommend.NewTracker("u1", testCatalog())
	snap := tr.Snapshot()

	assert.Nil(t, snap.Mood)
	assert.Equal(t, recommend.Neutral, snap.Strategy)
	assert.Len(t, snap.Activities, 5)
	require.NotNil(t, snap.Featured)
	assert.Equal(t, domain.ActivityID("breathing"), snap.Featured.ID)
}

func TestTrackerSetMoodReranks(t *testing.T) {
	tr := recommend.NewTracker("u1", testCatalog(), recommend.WithClock(fixedClock()))

	require.NoError(t, tr.SetMood(&domain.MoodSample{Valence: -0.7, Arousal: 0.2}))
	snap := tr.Snapshot()
	assert.Equal(t, recommend.Depression, snap.Strategy)
	assert.Equal(t, []string{"grounding", "movement", "creative"}, ids(snap.Activities))
	assert.False(t, snap.Mood.Timestamp.IsZero())

	f, ok := tr.Featured()
	require.True(t, ok)
	assert.Equal(t, domain.ActivityID("grounding"), f.ID)

	require.NoError(t, tr.SetMood(nil))
	assert.Nil(t, tr.Snapshot().Mood)
	assert.Len(t, tr.Snapshot().Activities, 5)
}

func TestTrackerRejectsInvalidMood(t *testing.T) {
	tr := recommend.NewTracker("u1", testCatalog())
	err := tr.SetMood(&domain.MoodSample{Valence: 2})
	assert.ErrorIs(t, err, domain.ErrInvalidMood)
	assert.Nil(t, tr.Snapshot().Mood)
}

func TestTrackerNoFeaturedWhenNothingPasses(t *testing.T) {
	tr := recommend.NewTracker("u1", []domain.Activity{act("m", domain.CategoryMindfulness, true)})
	require.NoError(t, tr.SetMood(&domain.MoodSample{Arousal: 0.9}))

	_, ok := tr.Featured()
	assert.False(t, ok)
	assert.Nil(t, tr.Snapshot().Featured)
}

func TestTrackerStartActivity(t *testing.T) {
	cat := testCatalog()
	cat[0].VREnabled = true
	tr := recommend.NewTracker("u1", cat)
	ctx := context.Background()

	out, err := tr.StartActivity(ctx, "breathing")
	require.NoError(t, err)
	assert.True(t, out.NeedsCheckIn)
	assert.True(t, out.LaunchVR)

	require.NoError(t, tr.SetMood(&domain.MoodSample{Valence: 0.1}))
	out, err = tr.StartActivity(ctx, "grounding")
	require.NoError(t, err)
	assert.False(t, out.NeedsCheckIn)
	assert.False(t, out.LaunchVR)

	_, err = tr.StartActivity(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestTrackerCompleteActivityJournalsMoods(t *testing.T) {
	journal := memory.NewJournalStore()
	tr := recommend.NewTracker("u1", testCatalog(),
		recommend.WithJournal(journal),
		recommend.WithClock(fixedClock()),
	)
	ctx := context.Background()

	before := domain.MoodSample{Valence: -0.2, Arousal: 0.9}
	require.NoError(t, tr.SetMood(&before))
	_, err := tr.StartActivity(ctx, "breathing")
	require.NoError(t, err)

	entry, err := tr.CompleteActivity(ctx, "breathing", domain.MoodSample{Valence: 0.3, Arousal: 0.1})
	require.NoError(t, err)

	require.NotNil(t, entry.MoodBefore)
	assert.InDelta(t, 0.9, entry.MoodBefore.Arousal, 1e-9)
	assert.InDelta(t, 0.3, entry.MoodAfter.Valence, 1e-9)
	require.NotNil(t, entry.StartedAt)
	assert.Equal(t, "breathing", entry.ActivityTitle)

	// post mood is now current and re-ranked as neutral
	snap := tr.Snapshot()
	require.NotNil(t, snap.Mood)
	assert.Equal(t, recommend.Neutral, snap.Strategy)
	assert.Len(t, snap.Activities, 5)

	stored, err := journal.ListJournalEntriesByUser("u1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entry.ID, stored[0].ID)
}

func TestTrackerCompleteActivityValidates(t *testing.T) {
	tr := recommend.NewTracker("u1", testCatalog())
	ctx := context.Background()

	_, err := tr.CompleteActivity(ctx, "missing", domain.MoodSample{})
	assert.ErrorIs(t, err, domain.ErrActivityNotFound)

	_, err = tr.CompleteActivity(ctx, "grounding", domain.MoodSample{Arousal: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidMood)
}
