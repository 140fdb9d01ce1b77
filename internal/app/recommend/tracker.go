package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// Tracker holds the current mood of one user and the activity ranking
// derived from it. The catalog is shared and never modified.
type Tracker struct {
	userID  domain.UserID
	catalog []domain.Activity
	journal domain.JournalStore
	metrics *observability.Metrics
	now     func() time.Time

	mu       sync.RWMutex
	mood     *domain.MoodSample
	strategy StrategyKind
	ranked   []domain.RankedActivity
	started  map[domain.ActivityID]startedActivity
}

type startedActivity struct {
	at   time.Time
	mood *domain.MoodSample
}

type TrackerOption func(*Tracker)

func WithJournal(store domain.JournalStore) TrackerOption {
	return func(t *Tracker) { t.journal = store }
}

func WithMetrics(m *observability.Metrics) TrackerOption {
	return func(t *Tracker) { t.metrics = m }
}

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker ranks the catalog once with no mood.
func NewTracker(userID domain.UserID, catalog []domain.Activity, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		userID:  userID,
		catalog: catalog,
		now:     time.Now,
		started: make(map[domain.ActivityID]startedActivity),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.ranked = Rank(t.catalog, nil)
	return t
}

// SetMood replaces the current mood and re-ranks. nil clears it.
func (t *Tracker) SetMood(mood *domain.MoodSample) error {
	if mood != nil {
		if err := mood.Validate(); err != nil {
			return err
		}
		m := *mood
		if m.Timestamp.IsZero() {
			m.Timestamp = t.now()
		}
		mood = &m
	}

	s := SelectStrategy(mood)
	ranked := rankWith(s, t.catalog)

	t.mu.Lock()
	t.mood = mood
	t.strategy = s.Kind
	t.ranked = ranked
	t.mu.Unlock()

	if mood != nil {
		t.metrics.ObserveMood(s.Kind.String())
	}
	return nil
}

// Snapshot is a consistent view of the tracker state.
type Snapshot struct {
	Mood       *domain.MoodSample
	Strategy   StrategyKind
	Activities []domain.RankedActivity
	Featured   *domain.RankedActivity
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Strategy:   t.strategy,
		Activities: append([]domain.RankedActivity(nil), t.ranked...),
	}
	if t.mood != nil {
		m := *t.mood
		snap.Mood = &m
	}
	if len(snap.Activities) > 0 {
		f := snap.Activities[0]
		snap.Featured = &f
	}
	return snap
}

// Featured returns the top-ranked activity, if any.
func (t *Tracker) Featured() (domain.RankedActivity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.ranked) == 0 {
		return domain.RankedActivity{}, false
	}
	return t.ranked[0], true
}

func (t *Tracker) find(id domain.ActivityID) (domain.Activity, bool) {
	for _, a := range t.catalog {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Activity{}, false
}

type StartActivityOutput struct {
	Activity domain.Activity
	// NeedsCheckIn is set when no mood has been recorded yet; the client
	// should ask for one before the activity begins.
	NeedsCheckIn bool
	LaunchVR     bool
}

func (t *Tracker) StartActivity(ctx context.Context, id domain.ActivityID) (*StartActivityOutput, error) {
	a, ok := t.find(id)
	if !ok {
		return nil, domain.ErrActivityNotFound
	}

	t.mu.Lock()
	var before *domain.MoodSample
	if t.mood != nil {
		m := *t.mood
		before = &m
	}
	t.started[id] = startedActivity{at: t.now(), mood: before}
	t.mu.Unlock()

	observability.LoggerFromContext(ctx).Info("starting activity",
		"activity_id", a.ID,
		"vr_enabled", a.VREnabled,
		"has_mood", before != nil,
	)

	return &StartActivityOutput{
		Activity:     a,
		NeedsCheckIn: before == nil,
		LaunchVR:     a.VREnabled,
	}, nil
}

// CompleteActivity journals the activity with its before/after moods and
// makes postMood the current mood.
func (t *Tracker) CompleteActivity(ctx context.Context, id domain.ActivityID, postMood domain.MoodSample) (*domain.JournalEntry, error) {
	a, ok := t.find(id)
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	if err := postMood.Validate(); err != nil {
		return nil, err
	}
	now := t.now()
	if postMood.Timestamp.IsZero() {
		postMood.Timestamp = now
	}

	t.mu.Lock()
	st, wasStarted := t.started[id]
	delete(t.started, id)
	before := st.mood
	if before == nil && t.mood != nil {
		m := *t.mood
		before = &m
	}
	t.mu.Unlock()

	entry := &domain.JournalEntry{
		ID:            domain.JournalEntryID(uuid.NewString()),
		UserID:        t.userID,
		ActivityID:    a.ID,
		ActivityTitle: a.Title,
		CompletedAt:   now,
		MoodBefore:    before,
		MoodAfter:     postMood,
	}
	if wasStarted {
		at := st.at
		entry.StartedAt = &at
	}

	log := observability.LoggerFromContext(ctx).With("activity_id", a.ID)
	if t.journal != nil {
		if err := t.journal.AppendJournalEntry(entry); err != nil {
			log.Error("failed to append journal entry", "error", err)
		}
	}

	if err := t.SetMood(&postMood); err != nil {
		return nil, err
	}
	log.Info("activity completed", "mood_label", postMood.Label())
	return entry, nil
}
