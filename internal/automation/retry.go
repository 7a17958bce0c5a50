// SPDX-License-Identifier: MPL-2.0

package automation

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy bounds the retries of calls the automation server rejects.
type retryPolicy struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

func defaultRetryPolicy(attempts int) retryPolicy {
	return retryPolicy{attempts: attempts, initial: 200 * time.Millisecond, max: 2 * time.Second}
}

// retry runs op until it succeeds, fails with an error retryable does not
// accept, or the attempts are used up. The last error is returned.
func (p retryPolicy) retry(retryable func(error) bool, op func() error) error {
	attempts := p.attempts
	if attempts < 0 {
		attempts = 0
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.initial),
		backoff.WithMaxInterval(p.max),
		backoff.WithMaxElapsedTime(0),
	), uint64(attempts))

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
