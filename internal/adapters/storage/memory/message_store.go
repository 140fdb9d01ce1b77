package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// MessageStore is an in-process stand-in for the remote message store.
// It is NOT persistent and is only suitable for development / local mode.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[domain.UserID][]*domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[domain.UserID][]*domain.Message),
	}
}

func (s *MessageStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[msg.UserID] = append(s.messages[msg.UserID], msg)
	return nil
}

func (s *MessageStore) ListMessages(_ context.Context, userID domain.UserID, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[userID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MessageStore) DeleteMessages(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, userID)
	return nil
}
