package circuitbreaker

import "sync"

// Registry manages one circuit breaker per backend. The catalog changes as
// upstreams add and retire models, so breakers are created lazily on first
// use and kept for the life of the process.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	config   func(backendID string) Config
}

// NewRegistry creates a registry that builds breakers with the given config
// function. A nil config function uses BackendConfig.
func NewRegistry(config func(backendID string) Config) *Registry {
	if config == nil {
		config = BackendConfig
	}
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		config:   config,
	}
}

// Get returns the circuit breaker for the given backend, creating it on
// first use.
func (r *Registry) Get(backendID string) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[backendID]; ok {
		return cb
	}
	cb := New(r.config(backendID))
	r.breakers[backendID] = cb
	return cb
}

// Len returns the number of registered breakers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.breakers)
}
