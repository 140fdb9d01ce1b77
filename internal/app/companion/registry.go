// Package companion keeps one conversation and one mood tracker per user
// in memory, created on first use and dropped after an idle period.
package companion

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/PabloGalante/innerguide/internal/app/conversation"
	"github.com/PabloGalante/innerguide/internal/app/recommend"
	"github.com/PabloGalante/innerguide/internal/app/replyflow"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// Companion is everything the application holds for one user.
type Companion struct {
	UserID       domain.UserID
	Conversation *conversation.Service
	Tracker      *recommend.Tracker
}

type Deps struct {
	Activities    []domain.Activity
	Personalities []domain.Personality

	Remote   domain.MessageStore
	Local    domain.LocalMessageStore
	Journal  domain.JournalStore
	Replies  *replyflow.Chain
	Notifier domain.Notifier
	Metrics  *observability.Metrics

	HistoryLimit int
}

type Registry struct {
	deps    Deps
	items   *cache.Cache
	metrics *observability.Metrics

	// one build per user at a time; different users build concurrently
	builds singleflight.Group
}

// NewRegistry expires companions idle for longer than ttl.
func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	r := &Registry{
		deps:    deps,
		items:   cache.New(ttl, ttl/2),
		metrics: deps.Metrics,
	}
	r.items.OnEvicted(func(key string, _ interface{}) {
		observability.WithFields("user_id", key).Debug("companion evicted")
		r.metrics.SetActiveCompanions(r.items.ItemCount())
	})
	return r
}

// Get returns the user's companion, loading its history on first use.
// Every call resets the idle timer.
func (r *Registry) Get(ctx context.Context, userID domain.UserID) *Companion {
	key := string(userID)
	if v, ok := r.items.Get(key); ok {
		r.items.SetDefault(key, v)
		return v.(*Companion)
	}

	v, _, _ := r.builds.Do(key, func() (interface{}, error) {
		if v, ok := r.items.Get(key); ok {
			return v, nil
		}
		c := r.build(ctx, userID)
		r.items.SetDefault(key, c)
		r.metrics.SetActiveCompanions(r.items.ItemCount())
		return c, nil
	})
	return v.(*Companion)
}

func (r *Registry) build(ctx context.Context, userID domain.UserID) *Companion {
	conv := conversation.NewService(conversation.Deps{
		Remote:   r.deps.Remote,
		Local:    r.deps.Local,
		Replies:  r.deps.Replies,
		Notifier: r.deps.Notifier,
		Metrics:  r.deps.Metrics,
	}, r.deps.Personalities, conversation.WithHistoryLimit(r.deps.HistoryLimit))
	conv.Load(ctx, userID)

	tracker := recommend.NewTracker(userID, r.deps.Activities,
		recommend.WithJournal(r.deps.Journal),
		recommend.WithMetrics(r.deps.Metrics),
	)

	return &Companion{UserID: userID, Conversation: conv, Tracker: tracker}
}

// Forget drops a user's companion immediately.
func (r *Registry) Forget(userID domain.UserID) {
	r.items.Delete(string(userID))
}

// Len reports how many companions are held.
func (r *Registry) Len() int {
	return r.items.ItemCount()
}
