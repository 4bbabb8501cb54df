package asset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Tiliavir/rileva/internal/log"
)

const (
	DefaultAttempts = 3
	DefaultTimeout  = 10 * time.Second
	DefaultBackoff  = 500 * time.Millisecond
)

// Retrying wraps a Source with bounded attempts. Each attempt runs under its
// own timeout; the delay before attempt n is n*Backoff. A shared Limiter, when
// set, throttles attempts across concurrent exports.
type Retrying struct {
	Source   Source
	Attempts int
	Timeout  time.Duration
	Backoff  time.Duration
	Limiter  *rate.Limiter
	Logger   log.Logger
}

// NewLimiter returns a limiter allowing perSecond fetch attempts, or nil
// when perSecond is not positive.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (r *Retrying) Fetch(ctx context.Context) ([]byte, error) {
	if r.Source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrTemplateUnavailable)
	}
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	backoff := r.Backoff
	if backoff < 0 {
		backoff = 0
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * backoff
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, ctx.Err())
			}
		}
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
			}
		}

		data, err := r.fetchOnce(ctx, timeout)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if r.Logger != nil {
			r.Logger.Warnf(ctx, "template fetch attempt %d/%d failed: %v", attempt+1, attempts, err)
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrTemplateUnavailable, attempts, lastErr)
}

func (r *Retrying) fetchOnce(ctx context.Context, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Source.Fetch(ctx)
}
