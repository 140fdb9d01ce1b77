package replyflow

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/PabloGalante/innerguide/internal/config"
)

const (
	AnxietyReply = "I understand anxiety can be overwhelming. Deep breathing exercises can help in the moment. Try taking 4 deep breaths, counting to 4 as you inhale and 6 as you exhale. Would you like to try some grounding techniques together?"
	SadnessReply = "I'm sorry you're feeling this way. Remember that it's okay to not be okay. Sometimes small acts of self-care, like a short walk or listening to calming music, can provide some relief. You're taking a positive step by reaching out."
	StressReply  = "Stress can feel really heavy. Let's try a quick stress-relief technique: tense your shoulders for 5 seconds, then release them completely. Notice the difference. What's one small thing you could do to make today a bit easier?"
)

// GenericReplies is the pool used when no keyword matches.
var GenericReplies = []string{
	"I understand how you're feeling. It takes courage to share your thoughts.",
	"Thank you for opening up. I'm here to support you through this.",
	"That sounds challenging. You're not alone in experiencing this.",
	"I appreciate you sharing this with me. Let's explore this together.",
	"Your feelings are valid. It's okay to feel this way.",
	"I'm here to listen. Tell me more about what's on your mind.",
	"That takes self-awareness to recognize. How can I help you with this?",
	"I hear you. Let's work through this step by step together.",
}

var keywordReplies = []struct {
	terms []string
	reply string
}{
	{[]string{"anxious", "anxiety"}, AnxietyReply},
	{[]string{"sad", "depressed"}, SadnessReply},
	{[]string{"stress", "stressed"}, StressReply},
}

// DefaultDelay is the "thinking" pause before a canned reply.
var DefaultDelay = config.DelayRange{Min: time.Second, Max: 2 * time.Second}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration)

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// CannedResponder answers from fixed supportive texts. It never fails.
type CannedResponder struct {
	delay config.DelayRange
	sleep Sleeper
	// float64 returns a value in [0, 1), intN one in [0, n).
	float64 func() float64
	intN    func(n int) int
}

type CannedOption func(*CannedResponder)

func WithDelay(r config.DelayRange) CannedOption {
	return func(c *CannedResponder) { c.delay = r }
}

func WithSleeper(s Sleeper) CannedOption {
	return func(c *CannedResponder) { c.sleep = s }
}

// WithRand replaces the random source. Used by tests.
func WithRand(float64Fn func() float64, intNFn func(int) int) CannedOption {
	return func(c *CannedResponder) {
		c.float64 = float64Fn
		c.intN = intNFn
	}
}

func NewCannedResponder(opts ...CannedOption) *CannedResponder {
	c := &CannedResponder{
		delay:   DefaultDelay,
		sleep:   sleepCtx,
		float64: rand.Float64,
		intN:    rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CannedResponder) Name() string {
	return "canned"
}

// ThinkingDelay picks a duration in [Min, Max].
func (c *CannedResponder) ThinkingDelay() time.Duration {
	span := c.delay.Max - c.delay.Min
	if span <= 0 {
		return c.delay.Min
	}
	d := c.delay.Min + time.Duration(c.float64()*float64(span+1))
	return min(d, c.delay.Max)
}

func (c *CannedResponder) Respond(ctx context.Context, in Input) (string, error) {
	c.sleep(ctx, c.ThinkingDelay())
	return c.Pick(in.LastUserText()), nil
}

// Pick matches text against the keyword groups in order and falls back to a
// random generic reply.
func (c *CannedResponder) Pick(text string) string {
	lower := strings.ToLower(text)
	for _, kr := range keywordReplies {
		for _, term := range kr.terms {
			if strings.Contains(lower, term) {
				return kr.reply
			}
		}
	}
	return GenericReplies[c.intN(len(GenericReplies))]
}
