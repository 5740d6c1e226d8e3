package semaphore

import (
	"runtime"
	"time"
)

// WaitStrategy decides what an acquiring goroutine does between a failed
// acquisition attempt and the next one. It is purely advisory: a strategy
// never retries the acquisition itself, it only burns time. The blocking
// acquire loop re-attempts after every call.
//
// Strategies make no ordering promise. Goroutines backing off here race for
// the next freed permit, so acquisition order under contention need not match
// request order.
type WaitStrategy interface {
	// WaitOnce is called after each failed attempt with the number of failed
	// attempts made so far, starting at 1. Strategies typically escalate from
	// cheap spinning to yielding as the count grows.
	WaitOnce(attempts int)
}

// WaitFunc adapts a plain function to a WaitStrategy.
type WaitFunc func(attempts int)

// WaitOnce calls f(attempts).
func (f WaitFunc) WaitOnce(attempts int) { f(attempts) }

// Escalation thresholds for the default strategy. Tight spins cover permits
// freed within a few instructions, yields cover permits freed within a
// scheduler quantum, and sleeps cap the busy-wait cost of long holds.
const (
	spinAttempts  = 4
	yieldAttempts = 32
	sleepInterval = 50 * time.Microsecond
)

// defaultWait spins briefly, then yields the processor, then sleeps in short
// fixed intervals.
var defaultWait WaitStrategy = WaitFunc(func(attempts int) {
	switch {
	case attempts <= spinAttempts:
		// Stay hot: the permit may already be back.
	case attempts <= yieldAttempts:
		runtime.Gosched()
	default:
		time.Sleep(sleepInterval)
	}
})

// Option configures a Semaphore at construction time.
type Option func(*options)

type options struct {
	wait WaitStrategy
}

// WithWaitStrategy replaces the default spin/yield/sleep backoff used by the
// blocking acquire methods. Passing nil restores the default.
//
// A custom strategy is the hook for environments with different idle
// facilities: a hardware relax instruction, a cooperative scheduler's yield,
// or an OS-level park. Swapping the strategy never changes the acquisition
// contract, only how time passes between attempts.
func WithWaitStrategy(w WaitStrategy) Option {
	return func(o *options) {
		o.wait = w
	}
}
