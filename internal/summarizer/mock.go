package summarizer

import (
	"context"
	"time"
)

// DefaultDelay is how long Mock waits before answering.
const DefaultDelay = 2 * time.Second

// Mock answers every query with the rendered template after a fixed delay.
type Mock struct {
	tmpl  Template
	delay time.Duration
}

func NewMock(tmpl Template, delay time.Duration) *Mock {
	if delay < 0 {
		delay = 0
	}
	return &Mock{tmpl: tmpl, delay: delay}
}

// Summarize only fails when ctx ends before the delay elapses.
func (m *Mock) Summarize(ctx context.Context, query string) (string, error) {
	timer := time.NewTimer(m.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return m.tmpl.Render(query), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
