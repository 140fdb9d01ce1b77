// Package notify keeps short-lived advisory notifications per user until
// their display duration runs out.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// DefaultDuration applies to notifications that do not set one.
const DefaultDuration = 5 * time.Second

type entry struct {
	n       domain.Notification
	expires time.Time
}

// Feed implements domain.Notifier. Each user has one cache entry holding
// all of their notifications; it lives as long as the latest of them.
type Feed struct {
	mu    sync.Mutex
	users *cache.Cache
	now   func() time.Time
}

func NewFeed() *Feed {
	return &Feed{
		users: cache.New(DefaultDuration, time.Minute),
		now:   time.Now,
	}
}

// live returns the user's unexpired entries. Callers hold f.mu.
func (f *Feed) live(userID domain.UserID, now time.Time) []entry {
	v, ok := f.users.Get(string(userID))
	if !ok {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(v.([]entry)), func(e entry) bool {
		return !now.Before(e.expires)
	})
}

// store replaces the user's entries. Callers hold f.mu.
func (f *Feed) store(userID domain.UserID, entries []entry, now time.Time) {
	if len(entries) == 0 {
		f.users.Delete(string(userID))
		return
	}
	last := entries[0].expires
	for _, e := range entries[1:] {
		if e.expires.After(last) {
			last = e.expires
		}
	}
	f.users.Set(string(userID), entries, last.Sub(now))
}

// Notify stores n for userID. Missing id, timestamp and duration are filled in.
func (f *Feed) Notify(_ context.Context, userID domain.UserID, n domain.Notification) error {
	now := f.now()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.Duration <= 0 {
		n.Duration = DefaultDuration
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries := slices.DeleteFunc(f.live(userID, now), func(e entry) bool { return e.n.ID == n.ID })
	entries = append(entries, entry{n: n, expires: now.Add(n.Duration)})
	f.store(userID, entries, now)
	return nil
}

// List returns the user's live notifications, oldest first.
func (f *Feed) List(userID domain.UserID) []domain.Notification {
	f.mu.Lock()
	entries := f.live(userID, f.now())
	f.mu.Unlock()

	out := make([]domain.Notification, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.n)
	}
	slices.SortFunc(out, func(a, b domain.Notification) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

// Dismiss removes one notification before it expires. It reports whether
// the notification was live.
func (f *Feed) Dismiss(userID domain.UserID, id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	entries := f.live(userID, now)
	kept := slices.DeleteFunc(slices.Clone(entries), func(e entry) bool { return e.n.ID == id })
	f.store(userID, kept, now)
	return len(kept) < len(entries)
}
