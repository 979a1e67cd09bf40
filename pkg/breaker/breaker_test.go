package breaker

import (
	"errors"
	"testing"
	"time"
)

func newTestRegistry() *Registry {
	return NewRegistry(nil)
}

func TestRegistry_GetReusesBreakerByName(t *testing.T) {
	r := newTestRegistry()

	first := r.Get(Settings{Name: "downstream", FailureThreshold: 0.5, MinRequests: 4, Cooldown: time.Second})
	second := r.Get(Settings{Name: "downstream", FailureThreshold: 0.9, MinRequests: 100, Cooldown: time.Minute})

	if first != second {
		t.Error("expected the same breaker instance for the same name")
	}

	other := r.Get(Settings{Name: "other", FailureThreshold: 0.5, MinRequests: 4, Cooldown: time.Second})
	if other == first {
		t.Error("expected a distinct breaker for a distinct name")
	}
}

func TestBreaker_OpensAtFailureThreshold(t *testing.T) {
	r := newTestRegistry()
	b := r.Get(Settings{Name: "flaky", FailureThreshold: 0.5, MinRequests: 4, Cooldown: time.Minute})

	boom := errors.New("downstream failure")
	for i := 0; i < 4; i++ {
		_, err := b.Execute(func() (any, error) { return nil, boom })
		if !errors.Is(err, boom) {
			t.Fatalf("call %d: expected wrapped error, got %v", i, err)
		}
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("expected breaker open after repeated failures, got %v", got)
	}
}

func TestBreaker_ShortCircuitsWithoutInvokingCall(t *testing.T) {
	r := newTestRegistry()
	b := r.Get(Settings{Name: "dead", FailureThreshold: 0.5, MinRequests: 2, Cooldown: time.Minute})

	boom := errors.New("downstream failure")
	for i := 0; i < 2; i++ {
		b.Execute(func() (any, error) { return nil, boom })
	}
	if b.State() != StateOpen {
		t.Fatal("expected breaker open")
	}

	invoked := false
	_, err := b.Execute(func() (any, error) {
		invoked = true
		return nil, nil
	})
	if invoked {
		t.Error("expected call to be short-circuited")
	}
	if !IsOpen(err) {
		t.Errorf("expected open-breaker error, got %v", err)
	}
}

func TestBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	r := newTestRegistry()
	b := r.Get(Settings{Name: "warming-up", FailureThreshold: 0.5, MinRequests: 10, Cooldown: time.Minute})

	boom := errors.New("downstream failure")
	for i := 0; i < 5; i++ {
		b.Execute(func() (any, error) { return nil, boom })
	}

	if got := b.State(); got != StateClosed {
		t.Errorf("expected breaker closed before the request floor, got %v", got)
	}
}

func TestIsOpen_PlainError(t *testing.T) {
	if IsOpen(errors.New("timeout")) {
		t.Error("plain errors must not be classified as open-breaker errors")
	}
}
