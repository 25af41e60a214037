package assistant

import (
	"context"
	"math/rand/v2"
	"time"
)

// Responder produces the assistant's answer to a trainee prompt.
type Responder interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

var cannedReplies = []string{
	"I understand your question. Let me help you with that based on the training materials.",
	"That's a great question! According to the product documentation, here's what you need to know...",
	"I can assist you with that. The key points to remember are...",
	"Based on the training video and documentation, the recommended approach is...",
}

var sampleQueries = []string{
	"What is the warrant of this product?",
	"Create a quiz for this product.",
	"Need Troubleshooting steps for error code 203...",
}

// CannedResponder answers every prompt with a random stock reply after a fixed delay.
type CannedResponder struct {
	delay   time.Duration
	replies []string
	pick    func(n int) int
}

type Option func(*CannedResponder)

// WithReplies replaces the stock replies. Empty input is ignored.
func WithReplies(replies ...string) Option {
	return func(c *CannedResponder) {
		if len(replies) > 0 {
			c.replies = append([]string(nil), replies...)
		}
	}
}

// WithPicker overrides the reply selection; pick must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(c *CannedResponder) {
		if pick != nil {
			c.pick = pick
		}
	}
}

func NewCannedResponder(delay time.Duration, opts ...Option) *CannedResponder {
	c := &CannedResponder{
		delay:   delay,
		replies: cannedReplies,
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply waits for the configured delay and returns a stock reply. It returns ctx.Err()
// if the context ends first.
func (c *CannedResponder) Reply(ctx context.Context, _ string) (string, error) {
	if c.delay > 0 {
		timer := time.NewTimer(c.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.replies[c.pick(len(c.replies))], nil
}

// SampleQueries lists the starter prompts offered to trainees.
func SampleQueries() []string {
	return append([]string(nil), sampleQueries...)
}
