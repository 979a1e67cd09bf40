// Package breaker keeps a process-wide registry of named circuit breakers.
// Each breaker is created once and shared by every call site using its name,
// so failure tracking is per downstream resource rather than per call.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"parkade/pkg/logger"
)

type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// Settings configures one named breaker. FailureThreshold is the failure
// ratio that trips the breaker once at least MinRequests calls were
// observed; Cooldown is how long the breaker stays open before a half-open
// probe is allowed.
type Settings struct {
	Name             string
	FailureThreshold float64
	MinRequests      uint32
	Cooldown         time.Duration
}

// Breaker wraps a gobreaker instance behind an any-typed Execute so one
// registry can serve call sites with different result types.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	return b.cb.Execute(fn)
}

func (b *Breaker) State() State {
	return b.cb.State()
}

func (b *Breaker) Name() string {
	return b.cb.Name()
}

type Registry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	log      *logger.Logger
}

func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		breakers: make(map[string]*Breaker),
		log:      log,
	}
}

// Get returns the breaker registered under s.Name, creating it on first
// use. Later calls with the same name reuse the existing breaker and ignore
// the settings.
func (r *Registry) Get(s Settings) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, exists := r.breakers[s.Name]; exists {
		return b
	}

	threshold := s.FailureThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	minRequests := s.MinRequests
	if minRequests == 0 {
		minRequests = 4
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    s.Name,
		Timeout: s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= threshold
		},
		OnStateChange: func(name string, from State, to State) {
			if r.log != nil {
				r.log.Warn("Circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	})

	b := &Breaker{cb: cb}
	r.breakers[s.Name] = b
	return b
}

// IsOpen reports whether err was produced by an open or saturated breaker
// rather than by the wrapped call itself.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
