// Package replyflow decides where an assistant reply comes from. Responders
// are tried in order until one produces text.
package replyflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PabloGalante/innerguide/internal/domain"
	"github.com/PabloGalante/innerguide/internal/observability"
)

var ErrNoResponders = errors.New("no responders configured")

// Input is what every responder sees. History already ends with the new
// user message.
type Input struct {
	UserID      domain.UserID
	Personality domain.Personality
	History     []*domain.Message
}

// LastUserText returns the content of the newest user message, or "".
func (in Input) LastUserText() string {
	for i := len(in.History) - 1; i >= 0; i-- {
		if in.History[i].Role == domain.RoleUser {
			return in.History[i].Content
		}
	}
	return ""
}

// Responder produces one reply or fails.
type Responder interface {
	Name() string
	Respond(ctx context.Context, in Input) (string, error)
}

// Reply is the chain's result together with the responder that produced it.
type Reply struct {
	Content string
	Source  string
}

// Chain runs responders in order and returns the first success.
type Chain struct {
	responders []Responder
	metrics    *observability.Metrics
}

// NewChain builds a chain. Nil responders are skipped, so an unconfigured
// completion client can be passed straight through.
func NewChain(metrics *observability.Metrics, responders ...Responder) *Chain {
	c := &Chain{metrics: metrics}
	for _, r := range responders {
		if r != nil {
			c.responders = append(c.responders, r)
		}
	}
	return c
}

// Run tries every responder until one succeeds. The error is returned only
// when all of them fail.
func (c *Chain) Run(ctx context.Context, in Input) (Reply, error) {
	if len(c.responders) == 0 {
		return Reply{}, ErrNoResponders
	}

	log := observability.LoggerFromContext(ctx).With("user_id", in.UserID)

	var errs []error
	for _, r := range c.responders {
		start := time.Now()
		log.Debug("responder start", "responder", r.Name())

		text, err := r.Respond(ctx, in)
		elapsed := time.Since(start)
		if err != nil {
			log.Warn("responder failed, trying next",
				"responder", r.Name(),
				"elapsed_ms", elapsed.Milliseconds(),
				"error", err)
			c.metrics.ObserveReplyFailure(r.Name())
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}

		log.Info("responder end", "responder", r.Name(), "elapsed_ms", elapsed.Milliseconds())
		c.metrics.ObserveReply(r.Name(), elapsed)
		return Reply{Content: text, Source: r.Name()}, nil
	}

	return Reply{}, errors.Join(errs...)
}
