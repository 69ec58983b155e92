package utils

import (
	"fmt"
	"time"
)

// RetryConfig holds the parameters for the retry strategy. The first
// attempt is always made; MaxRetries counts additional attempts after it.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
	Retryable  func(error) bool
	Logger     *Logger
}

// Do executes fn, re-attempting after a fixed delay as long as the failure
// is classified retryable by the Retryable predicate. A nil predicate
// retries every failure. Non-retryable errors are returned immediately;
// exhausting the budget returns the last error wrapped with the attempt
// count.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	attempts := r.MaxRetries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if r.Retryable != nil && !r.Retryable(lastErr) {
			return lastErr
		}

		if attempt < attempts {
			if r.Logger != nil {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v — retrying in %v",
					operationName, attempt, attempts, lastErr, r.Delay)
			}
			time.Sleep(r.Delay)
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, lastErr)
}
