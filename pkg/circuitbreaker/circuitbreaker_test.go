package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func newTestBreaker(now *time.Time) *CircuitBreaker {
	cb := New(Config{FailureThreshold: 2, SuccessThreshold: 2, Timeout: time.Minute, HalfOpenMaxRequests: 1})
	cb.now = func() time.Time { return *now }
	return cb
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now)

	_ = cb.Execute(func() error { return errBoom })
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after one failure, got %s", cb.State())
	}
	_ = cb.Execute(func() error { return errBoom })
	if cb.State() != StateOpen {
		t.Fatalf("expected open, got %s", cb.State())
	}

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) || called {
		t.Errorf("open breaker must reject without calling, err=%v called=%v", err, called)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now)

	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errBoom })
	if cb.State() != StateClosed {
		t.Errorf("expected closed, got %s", cb.State())
	}
}

func TestHalfOpenRecovery(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now)
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })

	now = now.Add(time.Minute)
	if cb.State() != StateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", cb.State())
	}

	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return nil })
	if cb.State() != StateClosed {
		t.Errorf("expected closed after trial successes, got %s", cb.State())
	}
}

func TestHalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now)
	_ = cb.Execute(func() error { return errBoom })
	_ = cb.Execute(func() error { return errBoom })
	now = now.Add(time.Minute)

	_ = cb.Execute(func() error { return errBoom })
	if cb.State() != StateOpen {
		t.Errorf("expected open after trial failure, got %s", cb.State())
	}
}
