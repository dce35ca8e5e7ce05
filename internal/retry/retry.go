// Package retry runs fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds a retried operation. The delay before attempt n+1 is
// BaseDelay * 2^(n-1), with no jitter.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy matches the reference behavior: three attempts with
// 100ms and 200ms waits between them.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Millisecond
	}
	return p
}

// Do runs op until it succeeds, the policy's attempts are exhausted, or ctx is
// done. It returns op's last result and error. The operation itself is
// arbitrary; Do knows nothing about storage.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	p = p.normalized()
	bo := &backoff.ExponentialBackOff{
		InitialInterval:     p.BaseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Minute,
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
	)
}
