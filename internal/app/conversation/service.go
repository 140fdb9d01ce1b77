package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/innerguide/internal/app/replyflow"
	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

// DefaultHistoryLimit is how many remote messages Load fetches.
const DefaultHistoryLimit = 50

// Deps are the collaborators of a Service. Remote and Notifier may be nil.
type Deps struct {
	Remote   domain.MessageStore
	Local    domain.LocalMessageStore
	Replies  *replyflow.Chain
	Notifier domain.Notifier
	Metrics  *observability.Metrics
}

// Service is one user's conversation: the ordered message log plus the
// active personality and crisis state. SendMessage calls are serialized, so
// messages are appended in send order.
type Service struct {
	remote   domain.MessageStore
	local    domain.LocalMessageStore
	replies  *replyflow.Chain
	notifier domain.Notifier
	metrics  *observability.Metrics
	now      func() time.Time

	historyLimit  int
	personalities []domain.Personality

	sendMu sync.Mutex

	mu             sync.RWMutex
	userID         domain.UserID
	messages       []*domain.Message
	loading        bool
	personality    domain.Personality
	crisis         bool
	crisisNotified bool
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewService builds a conversation for the given personalities. The first
// personality is the default. Without a reply chain every reply is canned.
func NewService(deps Deps, personalities []domain.Personality, opts ...Option) *Service {
	s := &Service{
		remote:        deps.Remote,
		local:         deps.Local,
		replies:       deps.Replies,
		notifier:      deps.Notifier,
		metrics:       deps.Metrics,
		now:           time.Now,
		historyLimit:  DefaultHistoryLimit,
		personalities: personalities,
		messages:      []*domain.Message{},
	}
	if s.local == nil {
		s.local = discardLocal{}
	}
	if s.replies == nil {
		s.replies = replyflow.NewChain(deps.Metrics, replyflow.NewCannedResponder())
	}
	if len(personalities) > 0 {
		s.personality = personalities[0]
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// discardLocal stands in when no local store is configured.
type discardLocal struct{}

func (discardLocal) LoadMessages(domain.UserID) ([]*domain.Message, error) { return nil, nil }
func (discardLocal) AppendMessage(*domain.Message) error                   { return nil }
func (discardLocal) DeleteMessages(domain.UserID) error                    { return nil }

// ResolveUser asks the identity provider for the current user and falls
// back to fallback when it fails or returns nothing.
func ResolveUser(ctx context.Context, p domain.IdentityProvider, fallback domain.UserID) domain.UserID {
	if p == nil {
		return fallback
	}
	id, err := p.CurrentUser(ctx)
	if err != nil || id == "" {
		observability.LoggerFromContext(ctx).Debug("identity unavailable, using fallback user",
			"fallback", fallback, "error", err)
		return fallback
	}
	return id
}

// Load binds the conversation to userID and replaces the in-memory log with
// the persisted history. A failing remote read falls back to the local store;
// a failing local read yields an empty history.
func (s *Service) Load(ctx context.Context, userID domain.UserID) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	history, err := s.loadRemote(context.WithoutCancel(ctx), userID)
	if err != nil {
		log.Warn("remote history unavailable, reading local store", "error", err)
		s.metrics.ObserveFallback("load")

		history, err = s.local.LoadMessages(userID)
		if err != nil {
			log.Error("local history unavailable", "error", err)
			history = nil
		}
	}
	if history == nil {
		history = []*domain.Message{}
	}

	s.mu.Lock()
	s.userID = userID
	s.messages = history
	s.mu.Unlock()

	log.Info("conversation loaded", "message_count", len(history))
	s.observeCrisis(ctx)
}

func (s *Service) loadRemote(ctx context.Context, userID domain.UserID) ([]*domain.Message, error) {
	if s.remote == nil {
		return nil, fmt.Errorf("no remote store configured")
	}
	return s.remote.ListMessages(ctx, userID, s.historyLimit)
}

// SendResult holds both turns produced by one SendMessage.
type SendResult struct {
	User      *domain.Message
	Assistant *domain.Message
	Source    string
}

// SendMessage appends the user's text, acquires exactly one reply and
// appends it. Persistence failures never reach the caller.
func (s *Service) SendMessage(ctx context.Context, text string) (*SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	userID := s.userID
	personality := s.personality
	s.mu.Unlock()

	log := observability.LoggerFromContext(ctx).With(
		"user_id", userID,
		"personality", personality.ID,
	)
	log.Info("sending message", "length", len(text))

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		UserID:    userID,
		Content:   text,
		Role:      domain.RoleUser,
		CreatedAt: s.now(),
	}
	history := s.append(ctx, userMsg, true)

	reply, err := s.replies.Run(ctx, replyflow.Input{
		UserID:      userID,
		Personality: personality,
		History:     history,
	})
	if err != nil {
		s.setLoading(false)
		log.Error("no reply could be produced", "error", err)
		return nil, fmt.Errorf("acquire reply: %w", err)
	}

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		UserID:    userID,
		Content:   reply.Content,
		Role:      domain.RoleAssistant,
		CreatedAt: s.now(),
	}
	s.append(ctx, assistantMsg, false)

	log.Info("send message completed", "source", reply.Source)

	return &SendResult{User: userMsg, Assistant: assistantMsg, Source: reply.Source}, nil
}

// append adds msg to the log, sets the loading flag, persists msg and runs
// the crisis observer. It returns a copy of the log including msg.
func (s *Service) append(ctx context.Context, msg *domain.Message, loading bool) []*domain.Message {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.loading = loading
	history := make([]*domain.Message, len(s.messages))
	copy(history, s.messages)
	s.mu.Unlock()

	s.metrics.ObserveMessage(string(msg.Role))
	s.persist(ctx, msg)
	s.observeCrisis(ctx)
	return history
}

// persist writes msg remotely, or locally when the remote write fails.
func (s *Service) persist(ctx context.Context, msg *domain.Message) {
	ctx = context.WithoutCancel(ctx)
	log := observability.LoggerFromContext(ctx).With("message_id", msg.ID)

	var err error
	if s.remote == nil {
		err = fmt.Errorf("no remote store configured")
	} else {
		err = s.remote.AppendMessage(ctx, msg)
	}
	if err == nil {
		return
	}

	log.Warn("remote append failed, writing local store", "error", err)
	s.metrics.ObserveFallback("append")
	if err := s.local.AppendMessage(msg); err != nil {
		log.Error("local append failed, message kept in memory only", "error", err)
	}
}

// observeCrisis inspects the newest message. When it is a user message with
// crisis content the flag is set for good and the advisory is sent once.
func (s *Service) observeCrisis(ctx context.Context) {
	s.mu.Lock()
	if len(s.messages) == 0 {
		s.mu.Unlock()
		return
	}
	last := s.messages[len(s.messages)-1]
	if last.Role != domain.RoleUser || !DetectCrisis(last.Content) {
		s.mu.Unlock()
		return
	}
	s.crisis = true
	notify := !s.crisisNotified
	s.crisisNotified = true
	userID := s.userID
	s.mu.Unlock()

	s.metrics.ObserveCrisis()
	log := observability.LoggerFromContext(ctx).With("user_id", userID)
	log.Warn("crisis content detected")

	if !notify || s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), userID, CrisisNotification()); err != nil {
		log.Error("crisis notification failed", "error", err)
	}
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// ChangePersonality selects a personality by id. Unknown ids select the
// first one.
func (s *Service) ChangePersonality(id string) domain.Personality {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.personality = domain.Personality{}
	if len(s.personalities) > 0 {
		s.personality = s.personalities[0]
	}
	for _, p := range s.personalities {
		if p.ID == id {
			s.personality = p
			break
		}
	}
	return s.personality
}

// Personalities returns the selectable personalities.
func (s *Service) Personalities() []domain.Personality {
	return append([]domain.Personality(nil), s.personalities...)
}

// Clear deletes the history remotely and locally and empties the log.
// Store failures are logged only.
func (s *Service) Clear(ctx context.Context) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	log := observability.LoggerFromContext(ctx).With("user_id", userID)

	if s.remote != nil {
		if err := s.remote.DeleteMessages(ctx, userID); err != nil {
			log.Warn("failed to clear remote chat history", "error", err)
		}
	}
	if err := s.local.DeleteMessages(userID); err != nil {
		log.Warn("failed to clear local chat history", "error", err)
	}

	s.mu.Lock()
	s.messages = []*domain.Message{}
	s.mu.Unlock()

	log.Info("conversation cleared")
}

// Snapshot is a consistent read of the conversation state.
type Snapshot struct {
	UserID         domain.UserID      `json:"user_id"`
	Messages       []*domain.Message  `json:"messages"`
	Loading        bool               `json:"loading"`
	Personality    domain.Personality `json:"personality"`
	CrisisDetected bool               `json:"crisis_detected"`
}

func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]*domain.Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		UserID:         s.userID,
		Messages:       msgs,
		Loading:        s.loading,
		Personality:    s.personality,
		CrisisDetected: s.crisis,
	}
}

func (s *Service) Messages() []*domain.Message {
	return s.Snapshot().Messages
}

func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Service) CrisisDetected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.crisis
}

func (s *Service) UserID() domain.UserID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}
