// Package semaphore provides a counting semaphore that owns the value it
// guards, combining classic permit accounting with the data-access ergonomics
// of a read/write lock.
//
// # Why This Package Exists
//
// Most Go semaphores hand out anonymous tokens and leave the association
// between "holding a token" and "being allowed to touch the data" entirely to
// caller discipline. This package closes that gap: the Semaphore owns exactly
// one value, and the only way to reach that value is through a guard returned
// by a successful acquisition. Up to N goroutines may read the value through
// SharedGuards at once; a single ExclusiveGuard grants read/write access and
// excludes every other holder. With N = 1 the semaphore degenerates to a
// mutual-exclusion lock; with N > 1 it behaves like an RwLock whose read side
// is capped at N concurrent readers.
//
// The permit state is a single atomic word driven by compare-and-swap retry
// loops. There is no mutex underneath, no internal heap allocation for the
// accounting, and no hidden reference counting: a Semaphore is a plain value
// that callers share by placing it behind whatever pointer or container suits
// their environment. Guards hold a back-pointer to the semaphore and do not
// extend its lifetime.
//
// # When NOT to Use This Package
//
// This package implements one very specific semaphore variant. If you need ANY
// functionality beyond what's provided here, you should use alternatives:
//
//   - Weighted acquisition (multiple permits at once): use golang.org/x/sync/semaphore
//   - Context cancellation or timeouts on acquire: use a buffered channel with select
//   - FIFO fairness between waiters: use a buffered channel without TryAcquire
//   - Plain mutual exclusion with no guarded value: use sync.Mutex or sync.RWMutex
//
// The blocking acquire methods spin (with escalating backoff) rather than
// parking the goroutine in the runtime. That is the right trade for short
// critical sections and for environments where a parking facility is not an
// option; it is the wrong trade for permits held across long waits or I/O.
//
// # Design Trade-offs
//
//   - No cancellation: a blocking acquire that can never succeed never returns.
//     Bounded waiting must be layered on top by racing the acquire externally.
//   - No fairness: waiters race for freed permits; under contention the
//     acquisition order need not match the request order.
//   - Fatal misuse: releasing a guard twice, using a guard after release, or
//     constructing with zero permits panics. Silently absorbing any of those
//     would corrupt the permit accounting for every later caller.
//   - Read-only shared access is a documented contract, not a compiler
//     guarantee: SharedGuard.Value returns a pointer because copying the
//     guarded value would defeat the point of guarding it.
//
// # Implementation
//
// The counter packs the whole state machine into one atomic word: values in
// [0, N] count free permits, and a reserved sentinel marks the exclusively-held
// state. Shared acquisition decrements the free count; exclusive acquisition
// swaps "all N free" for the sentinel; releases invert those transitions. Every
// transition is a compare-and-swap loop, so the semaphore itself is the only
// synchronization layer involved.
package semaphore
