// Package resilience provides reliability and fault tolerance patterns for
// the routing service. It includes circuit breakers around individual
// generation backends and retry logic with backoff for transient failures.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.BackendConfig("model-2.0-pro"))
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callBackend()
//	})
//
//	err := retry.WithBackoff(ctx, retry.GenerationConfig(), func() error {
//	    return performAttempt()
//	})
package resilience
