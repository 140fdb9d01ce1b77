package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/innerguide/internal/adapters/notify"
	"github.com/PabloGalante/innerguide/internal/domain"
)

func TestNotifyAndList(t *testing.T) {
	f := notify.NewFeed()
	ctx := context.Background()
	t0 := time.Now()

	require.NoError(t, f.Notify(ctx, "u1", domain.Notification{Title: "second", CreatedAt: t0.Add(time.Millisecond)}))
	require.NoError(t, f.Notify(ctx, "u1", domain.Notification{Title: "first", CreatedAt: t0}))
	require.NoError(t, f.Notify(ctx, "u2", domain.Notification{Title: "other"}))

	got := f.List("u1")
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, notify.DefaultDuration, got[0].Duration)

	assert.True(t, f.Dismiss("u1", got[0].ID))
	assert.False(t, f.Dismiss("u1", got[0].ID))
	assert.Len(t, f.List("u1"), 1)
	assert.Len(t, f.List("u2"), 1)
}

func TestNotificationExpires(t *testing.T) {
	f := notify.NewFeed()
	require.NoError(t, f.Notify(context.Background(), "u1", domain.Notification{
		Title:    "brief",
		Duration: 20 * time.Millisecond,
	}))
	require.Len(t, f.List("u1"), 1)

	assert.Eventually(t, func() bool {
		return len(f.List("u1")) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestUsersSharingAPrefixAreSeparate(t *testing.T) {
	f := notify.NewFeed()
	ctx := context.Background()

	require.NoError(t, f.Notify(ctx, "alice/x", domain.Notification{Title: "Support Available"}))
	require.NoError(t, f.Notify(ctx, "alice", domain.Notification{Title: "Activity Completed"}))

	got := f.List("alice")
	require.Len(t, got, 1)
	assert.Equal(t, "Activity Completed", got[0].Title)

	other := f.List("alice/x")
	require.Len(t, other, 1)
	assert.Equal(t, "Support Available", other[0].Title)

	assert.False(t, f.Dismiss("alice", other[0].ID))
	assert.Len(t, f.List("alice/x"), 1)
}

func TestExpiredEntriesLeaveLiveOnesInPlace(t *testing.T) {
	f := notify.NewFeed()
	ctx := context.Background()
	require.NoError(t, f.Notify(ctx, "u1", domain.Notification{Title: "brief", Duration: 20 * time.Millisecond}))
	require.NoError(t, f.Notify(ctx, "u1", domain.Notification{Title: "long", Duration: time.Minute}))

	assert.Eventually(t, func() bool {
		got := f.List("u1")
		return len(got) == 1 && got[0].Title == "long"
	}, time.Second, 10*time.Millisecond)
}
