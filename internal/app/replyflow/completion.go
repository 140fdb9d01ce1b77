package replyflow

import (
	"context"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// MaxReplyTokens caps every completion reply.
const MaxReplyTokens = 500

// BuildRequest turns the personality and the full history into a
// completion request. The personality prompt becomes the system message.
func BuildRequest(p domain.Personality, history []*domain.Message) domain.CompletionRequest {
	turns := make([]domain.ChatTurn, 0, len(history))
	for _, m := range history {
		turns = append(turns, domain.ChatTurn{Role: m.Role, Content: m.Content})
	}

	return domain.CompletionRequest{
		Model:       p.ModelID,
		Temperature: p.Temperature,
		MaxTokens:   MaxReplyTokens,
		System:      p.PromptTemplate,
		History:     turns,
	}
}

// CompletionResponder asks a language model for the reply.
type CompletionResponder struct {
	client domain.CompletionClient
}

// NewCompletionResponder returns nil when client is nil, which NewChain skips.
func NewCompletionResponder(client domain.CompletionClient) Responder {
	if client == nil {
		return nil
	}
	return &CompletionResponder{client: client}
}

func (r *CompletionResponder) Name() string {
	return "completion"
}

func (r *CompletionResponder) Respond(ctx context.Context, in Input) (string, error) {
	return r.client.Complete(ctx, BuildRequest(in.Personality, in.History))
}
