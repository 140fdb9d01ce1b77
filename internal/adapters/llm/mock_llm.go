package llm

import (
	"context"
	"sync"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// MockLLM replays scripted replies and records every request it receives.
// When the script runs out it keeps returning the last reply.
type MockLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	requests []domain.CompletionRequest
}

func NewMockLLM(replies ...string) *MockLLM {
	return &MockLLM{replies: replies}
}

// NewFailingLLM returns a client whose every call fails with err.
func NewFailingLLM(err error) *MockLLM {
	return &MockLLM{err: err}
}

func (m *MockLLM) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return EmptyReply, nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return reply, nil
}

// Requests returns a copy of the received requests.
func (m *MockLLM) Requests() []domain.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompletionRequest(nil), m.requests...)
}
