package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func trippyConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 0.5,
		MinRequests:      2,
	}
}

func TestExecute_Success(t *testing.T) {
	cb := New(DefaultConfig("test"))

	result, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
}

func TestExecute_PropagatesError(t *testing.T) {
	cb := New(DefaultConfig("test"))
	boom := errors.New("boom")

	_, err := cb.Execute(func() (interface{}, error) {
		return nil, boom
	})

	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	cb := New(trippyConfig("trippy"))

	for i := 0; i < 3; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("fail")
		})
	}

	if !cb.IsOpen() {
		t.Fatalf("breaker should be open, state = %s", cb.State())
	}

	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function must not run while open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}

func TestBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cfg := trippyConfig("patient")
	cfg.MinRequests = 10
	cb := New(cfg)

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (interface{}, error) {
			return nil, errors.New("fail")
		})
	}

	if cb.IsOpen() {
		t.Error("breaker must not trip below MinRequests")
	}
}

func TestRegistry_ReturnsSameBreakerPerBackend(t *testing.T) {
	reg := NewRegistry(nil)

	a := reg.Get("model-2.0-pro")
	b := reg.Get("model-2.0-pro")
	c := reg.Get("model-2.0-flash")

	if a != b {
		t.Error("same backend must share one breaker")
	}
	if a == c {
		t.Error("different backends must get distinct breakers")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistry_UsesConfigFunction(t *testing.T) {
	reg := NewRegistry(func(id string) Config {
		return DefaultConfig("custom:" + id)
	})

	if got := reg.Get("m").Name(); got != "custom:m" {
		t.Errorf("Name() = %q, want custom:m", got)
	}
}

func TestBackendConfig_NamesBreakerAfterBackend(t *testing.T) {
	cfg := BackendConfig("model-2.0-pro")
	if cfg.Name != "backend:model-2.0-pro" {
		t.Errorf("Name = %q", cfg.Name)
	}
}
