package semaphore

import "sync/atomic"

// exclusiveHeld is the counter state in which a single exclusive holder owns
// every permit. It is reserved: no valid free-permit count can reach it, since
// free permits are bounded by the capacity.
const exclusiveHeld = ^uint64(0)

// counter is the permit-accounting state machine. A single atomic word holds
// either the number of free permits, in [0, cap], or the exclusiveHeld
// sentinel. The counter is itself the synchronization primitive, so no lock
// guards it; every transition is a compare-and-swap retry loop that rereads
// the state on conflict.
//
// Invariant: permits held by live shared guards plus the free count equals
// cap, and the sentinel state coexists with no held shared permits.
type counter struct {
	cap   uint64
	state atomic.Uint64
}

// tryAcquireShared takes one permit if any are free and no exclusive holder
// exists. It reports whether the permit was taken.
func (c *counter) tryAcquireShared() bool {
	for {
		s := c.state.Load()
		if s == exclusiveHeld || s == 0 {
			return false
		}
		if c.state.CompareAndSwap(s, s-1) {
			return true
		}
	}
}

// tryAcquireExclusive transitions from "all permits free" to the exclusive
// sentinel. It fails if any permit is held, shared or exclusive.
func (c *counter) tryAcquireExclusive() bool {
	for {
		s := c.state.Load()
		if s != c.cap {
			return false
		}
		if c.state.CompareAndSwap(s, exclusiveHeld) {
			return true
		}
	}
}

// releaseShared returns one shared permit. Releasing a permit that was never
// acquired would corrupt the accounting for every later caller, so it is
// fatal rather than ignored.
func (c *counter) releaseShared() {
	for {
		s := c.state.Load()
		if s == exclusiveHeld || s >= c.cap {
			panic("semaphore: shared release without a matching acquire")
		}
		if c.state.CompareAndSwap(s, s+1) {
			return
		}
	}
}

// releaseExclusive resets the counter from the exclusive sentinel to all
// permits free. Fatal if the counter is not exclusively held.
func (c *counter) releaseExclusive() {
	if !c.state.CompareAndSwap(exclusiveHeld, c.cap) {
		panic("semaphore: exclusive release without a matching acquire")
	}
}

// free returns the number of unheld permits; zero while exclusively held.
func (c *counter) free() uint64 {
	if s := c.state.Load(); s != exclusiveHeld {
		return s
	}
	return 0
}

// exclusive reports whether the counter is in the exclusively-held state.
func (c *counter) exclusive() bool {
	return c.state.Load() == exclusiveHeld
}
