package semaphore

import "fmt"

// Semaphore owns one value of type T and mediates all access to it through
// permit-counted guards. Up to Cap goroutines may hold SharedGuards
// concurrently; an ExclusiveGuard is the sole holder and excludes everything
// else.
//
// A Semaphore must not be copied after first use, and it holds no internal
// sharing mechanism: to use one from several goroutines, place it behind a
// pointer (or any externally shared container) chosen by the caller. All
// methods are safe for concurrent use through such a shared reference.
//
// The zero value is not usable; construct with New.
type Semaphore[T any] struct {
	noCopy  noCopy
	permits counter
	wait    WaitStrategy
	value   T
}

// New constructs a Semaphore guarding value with the given permit capacity,
// all permits initially free.
//
// permits must be at least 1: a zero-permit semaphore could never grant
// access, so New panics rather than constructing one that blocks forever.
func New[T any](value T, permits int, opts ...Option) *Semaphore[T] {
	if permits < 1 {
		panic("semaphore: permit count must be at least 1")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.wait == nil {
		o.wait = defaultWait
	}

	s := &Semaphore[T]{wait: o.wait, value: value}
	s.permits.cap = uint64(permits)
	s.permits.state.Store(uint64(permits))
	return s
}

// AcquireShared blocks until a permit is free, takes it, and returns a guard
// granting read access to the value. If permits never free up, AcquireShared
// never returns; bounded waiting must be layered externally.
//
// Typical usage:
//
//	g := s.AcquireShared()
//	defer g.Release()
//	// ... read through g.Value() ...
func (s *Semaphore[T]) AcquireShared() *SharedGuard[T] {
	for attempts := 1; ; attempts++ {
		if g, ok := s.TryAcquireShared(); ok {
			return g
		}
		s.wait.WaitOnce(attempts)
	}
}

// AcquireExclusive blocks until every permit is free, claims them all, and
// returns a guard granting read/write access to the value. Like
// AcquireShared, it has no timeout.
func (s *Semaphore[T]) AcquireExclusive() *ExclusiveGuard[T] {
	for attempts := 1; ; attempts++ {
		if g, ok := s.TryAcquireExclusive(); ok {
			return g
		}
		s.wait.WaitOnce(attempts)
	}
}

// TryAcquireShared attempts to take one permit without blocking. On
// contention it returns (nil, false) immediately; that is the only way
// contention is ever surfaced, never as an error.
func (s *Semaphore[T]) TryAcquireShared() (*SharedGuard[T], bool) {
	if !s.permits.tryAcquireShared() {
		return nil, false
	}
	return &SharedGuard[T]{sem: s}, true
}

// TryAcquireExclusive attempts to claim all permits without blocking. It
// fails if any permit is held, shared or exclusive.
func (s *Semaphore[T]) TryAcquireExclusive() (*ExclusiveGuard[T], bool) {
	if !s.permits.tryAcquireExclusive() {
		return nil, false
	}
	return &ExclusiveGuard[T]{sem: s}, true
}

// Cap returns the total permit capacity fixed at construction.
func (s *Semaphore[T]) Cap() int {
	return int(s.permits.cap)
}

// Free returns the number of currently unheld permits: zero while an
// exclusive guard is live, Cap when nothing is held. The value is a snapshot
// and may be stale by the time the caller acts on it; use the Try methods for
// a decision that has to be atomic.
func (s *Semaphore[T]) Free() int {
	return int(s.permits.free())
}

// AtCapacity reports whether no permit is currently free, either because Cap
// shared guards are live or because an exclusive guard is.
func (s *Semaphore[T]) AtCapacity() bool {
	return s.permits.free() == 0
}

// String returns a human-readable snapshot of the semaphore's state, in
// "Semaphore(held/capacity)" form, with "exclusive" in place of the held
// count while an exclusive guard is live. This method enables direct printing
// of semaphores in fmt operations.
func (s *Semaphore[T]) String() string {
	if s.permits.exclusive() {
		return fmt.Sprintf("Semaphore(exclusive/%d)", s.Cap())
	}
	return fmt.Sprintf("Semaphore(%d/%d)", s.Cap()-s.Free(), s.Cap())
}

// noCopy makes `go vet -copylocks` flag values copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
