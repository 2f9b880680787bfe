package summarizer

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

var errCircuitOpen = errors.New("circuit breaker open")

// newBreaker returns a breaker that opens after failures consecutive errors.
// A non-positive value disables it.
func newBreaker(failures int) *gobreaker.CircuitBreaker {
	if failures <= 0 {
		return nil
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
	})
}

// execute runs fn once through cb. It never retries.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	if cb == nil {
		return fn()
	}

	result, err := cb.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return zero, err
	}

	v, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return v, nil
}
