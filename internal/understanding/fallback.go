package understanding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"noteflow/internal/port"
)

// circuitState tracks rate-limit backoff for a single understander.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackUnderstander tries understanders in order, skipping those with open
// circuits. It implements port.SessionUnderstander.
type FallbackUnderstander struct {
	understanders []port.SessionUnderstander
	circuits      []*circuitState
	names         []string
}

// NewFallbackUnderstander creates a FallbackUnderstander from an ordered list
// of understanders and their names.
func NewFallbackUnderstander(understanders []port.SessionUnderstander, names []string) *FallbackUnderstander {
	circuits := make([]*circuitState, len(understanders))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackUnderstander{
		understanders: understanders,
		circuits:      circuits,
		names:         names,
	}
}

func (f *FallbackUnderstander) ExtractSessions(ctx context.Context, input port.UnderstandInput) (*port.UnderstandOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, u := range f.understanders {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			log.Printf("understanding.FallbackUnderstander: skipping %s (circuit open until %s)", f.names[i], resetAt.Format(time.RFC3339))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := u.ExtractSessions(ctx, input)
		if err == nil {
			return out, nil
		}

		log.Printf("understanding.FallbackUnderstander: %s failed: %v", f.names[i], err)
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil {
		// All understanders were skipped due to open circuits
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all understanders rate limited"), int(retryAfter.Seconds()))
	}

	if allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < 0 {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all understanders rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all understanders failed: %w", lastErr)
}
