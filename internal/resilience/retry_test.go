// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), RetryConfig{MaxRetries: 3}, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoff_RetriesOnTransientError(t *testing.T) {
	calls := 0
	transient := NewTransientError("temporary failure", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return transient
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_StopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := NewPermanentError("permanent failure", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      5,
		InitialInterval: time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		return permanent
	})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retries on permanent error), got %d", calls)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	transient := NewTransientError("always fails", nil)

	err := RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     10 * time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) error {
		calls++
		return transient
	})

	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 { // initial + 3 retries
		t.Errorf("expected 4 calls, got %d", calls)
	}
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	// Cancel immediately before the first retry delay
	err := RetryWithBackoff(ctx, RetryConfig{
		MaxRetries:      10,
		InitialInterval: 100 * time.Millisecond,
		Multiplier:      1.0,
		OnRetry: func(attempt int, err error) {
			// Cancel during the first retry callback (before the delay wait)
			cancel()
		},
	}, func(ctx context.Context) error {
		calls++
		return NewTransientError("fail", nil)
	})

	if err == nil {
		t.Fatal("expected an error")
	}
	// Should have stopped due to context cancellation
	if calls > 3 {
		t.Errorf("expected few calls before cancellation, got %d", calls)
	}
}

func TestRetryWithBackoff_OnRetryCallback(t *testing.T) {
	retryCalls := 0
	transient := NewTransientError("fail", nil)

	RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		Multiplier:      2.0,
		OnRetry: func(attempt int, err error) {
			retryCalls++
		},
	}, func(ctx context.Context) error {
		return transient
	})

	if retryCalls != 2 {
		t.Errorf("expected OnRetry called 2 times, got %d", retryCalls)
	}
}

func TestRetryWithBackoff_ExponentialDelayGrowth(t *testing.T) {
	// Verify that delays grow exponentially by measuring timing
	delays := []time.Duration{}
	transient := NewTransientError("fail", nil)
	lastTime := time.Now()

	RetryWithBackoff(context.Background(), RetryConfig{
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     1 * time.Second,
		Multiplier:      2.0,
		Jitter:          false, // disable jitter for deterministic test
		OnRetry: func(attempt int, err error) {
			now := time.Now()
			delays = append(delays, now.Sub(lastTime))
			lastTime = now
		},
	}, func(ctx context.Context) error {
		return transient
	})

	if len(delays) != 3 {
		t.Fatalf("expected 3 delays, got %d", delays)
	}
	// Each delay should be roughly double the previous (with some tolerance)
	if delays[1] < delays[0] {
		t.Errorf("delay[1] (%v) should be >= delay[0] (%v)", delays[1], delays[0])
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxRetries <= 0 {
		t.Error("MaxRetries should be positive")
	}
	if cfg.Multiplier <= 1.0 {
		t.Error("Multiplier should be > 1.0 for exponential backoff")
	}
	if cfg.InitialInterval <= 0 {
		t.Error("InitialInterval should be positive")
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		t.Error("MaxInterval should be >= InitialInterval")
	}

	sidecar := SidecarRetryConfig(2)
	if sidecar.MaxRetries != 2 {
		t.Errorf("expected MaxRetries=2, got %d", sidecar.MaxRetries)
	}
	if sidecar.MaxInterval > cfg.MaxInterval {
		t.Error("sidecar retries should not wait longer than the defaults")
	}
}

func TestRetryWithResult_ReturnsValue(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), RetryConfig{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		Multiplier:      2.0,
	}, func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, &StatusError{StatusCode: http.StatusServiceUnavailable}
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
	if !IsRetryable(NewTransientError("temp", nil)) {
		t.Error("transient error should be retryable")
	}
	if IsRetryable(NewPermanentError("perm", nil)) {
		t.Error("permanent error should not be retryable")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"rate limited", &StatusError{StatusCode: http.StatusTooManyRequests}, ErrorTypeRateLimit, true},
		{"server error", fmt.Errorf("ner: %w", &StatusError{StatusCode: http.StatusBadGateway}), ErrorTypeServiceUnavailable, true},
		{"bad request", &StatusError{StatusCode: http.StatusBadRequest, Body: "no text"}, ErrorTypeInvalidInput, false},
		{"wrong endpoint", &StatusError{StatusCode: http.StatusNotFound}, ErrorTypeResourceNotFound, false},
		{"forbidden", &StatusError{StatusCode: http.StatusForbidden}, ErrorTypePermanent, false},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ErrorTypeTimeout, true},
		{"cancelled", context.Canceled, ErrorTypePermanent, false},
		{"malformed reply", errors.New("decode: malformed json"), ErrorTypeInvalidInput, false},
		{"other", errors.New("boom"), ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("expected type %v, got %v", tt.wantType, got.Type)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, got.Retryable)
			}
		})
	}

	if ClassifyError(nil) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestCircuitBreaker_OpensAndRecovers(t *testing.T) {
	now := time.Unix(1000, 0)
	var transitions []string
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "ner",
		FailureThreshold: 2,
		Timeout:          10 * time.Second,
		OnStateChange: func(name string, from, to CircuitBreakerState) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	cb.now = func() time.Time { return now }

	failing := func(ctx context.Context) error { return NewTransientError("down", nil) }
	calls := 0
	ok := func(ctx context.Context) error { calls++; return nil }

	cb.Execute(context.Background(), failing)
	if cb.GetState() != StateClosed {
		t.Fatalf("expected CLOSED after one failure, got %v", cb.GetState())
	}
	cb.Execute(context.Background(), failing)
	if cb.GetState() != StateOpen {
		t.Fatalf("expected OPEN after two failures, got %v", cb.GetState())
	}

	err := cb.Execute(context.Background(), ok)
	var cbErr *CircuitBreakerError
	if !errors.As(err, &cbErr) {
		t.Fatalf("expected CircuitBreakerError, got %v", err)
	}
	if calls != 0 {
		t.Error("open breaker must not call the operation")
	}

	now = now.Add(11 * time.Second)
	if err := cb.Execute(context.Background(), ok); err != nil {
		t.Fatalf("expected trial request to pass, got %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Errorf("expected CLOSED after successful trial, got %v", cb.GetState())
	}

	want := []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}
	if fmt.Sprint(transitions) != fmt.Sprint(want) {
		t.Errorf("expected transitions %v, got %v", want, transitions)
	}
}

func TestCircuitBreaker_IgnoresPermanentErrors(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("ner"))
	for i := 0; i < 5; i++ {
		cb.Execute(context.Background(), func(ctx context.Context) error {
			return NewPermanentError("bad request", nil)
		})
	}
	if cb.GetState() != StateClosed {
		t.Errorf("permanent errors should not open the breaker, got %v", cb.GetState())
	}
}
