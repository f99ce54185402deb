package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider asks again after transient failures, waiting with
// exponential backoff and ±20% jitter between attempts. An off-schema
// batch is asked for once more; a truncated batch or a permanent API
// error is final.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

type retryVerdict int

const (
	giveUp retryVerdict = iota
	retryOnce
	retryAlways
)

func classify(err error) retryVerdict {
	var (
		trunc   *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		down    *ErrUnavailable
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &trunc):
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	case errors.As(err, &down) && down.Permanent():
		return giveUp
	default:
		return retryAlways
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.config.MaxAttempts, 1)
	reasked := false

	var err error
	for attempt := range attempts {
		if attempt > 0 {
			wait := r.backoff(attempt-1, err)
			if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < wait {
				return nil, err
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if reasked {
				return nil, err
			}
			reasked = true
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff is the wait after the given failed attempt. A rate limit's
// Retry-After wins over the computed wait.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var down *ErrUnavailable
	if errors.As(err, &down) && down.RetryAfter > 0 {
		return down.RetryAfter
	}

	wait := r.config.InitialWait
	for range attempt {
		if wait >= r.config.MaxWait {
			break
		}
		wait = time.Duration(float64(wait) * r.config.Multiplier)
	}
	wait = min(wait, r.config.MaxWait)

	jitter := time.Duration(float64(wait) * 0.2 * (2*rand.Float64() - 1))
	return max(wait+jitter, 0)
}
