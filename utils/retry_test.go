package utils

import (
	"errors"
	"testing"
)

var errFlaky = errors.New("flaky")

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	r := &RetryConfig{MaxRetries: 2, Delay: 0, Retryable: func(error) bool { return true }}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	r := &RetryConfig{MaxRetries: 2, Delay: 0, Retryable: func(error) bool { return true }}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		return errFlaky
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, errFlaky) {
		t.Errorf("exhaustion error should wrap the last failure, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3 (1 attempt + 2 retries)", calls)
	}
}

func TestRetryNonRetryableFailsImmediately(t *testing.T) {
	r := &RetryConfig{MaxRetries: 2, Delay: 0, Retryable: func(error) bool { return false }}

	calls := 0
	err := r.Do("op", func() error {
		calls++
		return errFlaky
	})

	if !errors.Is(err, errFlaky) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestRetryNilPredicateRetriesEverything(t *testing.T) {
	r := &RetryConfig{MaxRetries: 1, Delay: 0}

	calls := 0
	_ = r.Do("op", func() error {
		calls++
		return errFlaky
	})

	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}
