package consolidation

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"таймаут", errors.New("request timeout"), true},
		{"сетевая ошибка", errors.New("network is unreachable"), true},
		{"5xx от реестра", errors.New("unexpected status code: 503"), true},
		{"занятая база", errors.New("database is busy"), true},
		{"ошибка валидации", errors.New("invalid framework id"), false},
		{"4xx от реестра", errors.New("unexpected status code: 404"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableError(tt.err); got != tt.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryWithContext_SucceedsAfterRetries(t *testing.T) {
	config := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2.0}

	attempts := 0
	err := RetryWithContext(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, config, "test operation")

	if err != nil {
		t.Fatalf("RetryWithContext() error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryWithContext_NonRetryableStopsImmediately(t *testing.T) {
	config := DefaultRetryConfig()

	attempts := 0
	err := RetryWithContext(context.Background(), func() error {
		attempts++
		return errors.New("invalid input")
	}, config, "test operation")

	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 for non-retryable error", attempts)
	}
}

func TestRetryWithContext_CancelledBetweenAttempts(t *testing.T) {
	config := RetryConfig{MaxAttempts: 5, InitialDelay: 50 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2.0}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := RetryWithContext(ctx, func() error {
		attempts++
		return errors.New("timeout")
	}, config, "test operation")

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 before cancellation", attempts)
	}
}
