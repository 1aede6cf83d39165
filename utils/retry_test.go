package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	attempts := 0
	err := r.Do("flaky-op", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do returned %v; want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d; want 3", attempts)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger()}

	attempts := 0
	permanent := errors.New("permanent")
	err := r.Do("doomed-op", func() error {
		attempts++
		return permanent
	})

	if err == nil {
		t.Fatal("Do should return an error after exhausting attempts")
	}
	if !errors.Is(err, permanent) {
		t.Errorf("error %v should wrap the last failure", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d; want 2", attempts)
	}
}

func TestRetryFirstTrySuccess(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Second, Logger: NewLogger()}

	start := time.Now()
	attempts := 0
	if err := r.Do("quick-op", func() error {
		attempts++
		return nil
	}); err != nil {
		t.Errorf("Do returned %v; want nil", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d; want 1", attempts)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("no delay should be applied on first-try success")
	}
}
