package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonathan/resume-parser/internal/logging"
)

// RetryPolicy bounds how often a failed call is repeated.
// MaxAttempts counts the first call; values below 2 disable retries.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// RetryingClient wraps a Client and repeats calls that failed with a retryable CallError.
type RetryingClient struct {
	next   Client
	policy RetryPolicy
}

// WithRetry decorates next with policy. It returns next unchanged when retries are disabled.
func WithRetry(next Client, policy RetryPolicy) Client {
	if policy.MaxAttempts < 2 {
		return next
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 500 * time.Millisecond
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = 10 * time.Second
	}
	return &RetryingClient{next: next, policy: policy}
}

// Complete calls the wrapped client until it succeeds, fails permanently, or attempts run out.
func (r *RetryingClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.InitialInterval
	exp.MaxInterval = r.policy.MaxInterval
	exp.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.policy.MaxAttempts-1)), ctx)

	var text string
	operation := func() error {
		out, err := r.next.Complete(ctx, prompt)
		if err != nil {
			if !IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		text = out
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logging.Ctx(ctx).Warn().Err(err).Dur("wait", wait).Msg("retrying llm call")
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", err
	}
	return text, nil
}

// Close closes the wrapped client
func (r *RetryingClient) Close() error {
	return r.next.Close()
}
