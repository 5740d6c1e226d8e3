package semaphore

import "sync/atomic"

// SharedGuard is a scoped access token for one shared permit. It is created
// only by a successful shared acquisition and grants read access to the
// guarded value until released.
//
// Guards are deliberately not duplicable: there is no Clone, and copying one
// is flagged by go vet. The only way to obtain a second handle is a fresh
// acquisition, which keeps the permit count exactly synchronized with the
// number of live guards.
type SharedGuard[T any] struct {
	noCopy   noCopy
	sem      *Semaphore[T]
	released atomic.Bool
}

// Value returns the guarded value for reading. Many shared holders may be
// reading concurrently, so the caller must not mutate through the returned
// pointer; mutation requires an ExclusiveGuard.
//
// Value panics if the guard has already been released: the value is reachable
// only through a live guard.
func (g *SharedGuard[T]) Value() *T {
	if g.released.Load() {
		panic("semaphore: SharedGuard used after release")
	}
	return &g.sem.value
}

// Release returns the guard's permit to the semaphore. It must be called
// exactly once on every exit path; defer it immediately after acquiring.
// A second Release panics, since absorbing it silently would hand the
// semaphore a permit nobody holds.
func (g *SharedGuard[T]) Release() {
	if !g.released.CompareAndSwap(false, true) {
		panic("semaphore: SharedGuard released twice")
	}
	g.sem.permits.releaseShared()
}

// ExclusiveGuard is a scoped access token for the whole semaphore. It is
// created only by a successful exclusive acquisition; while it is live no
// other guard of either kind exists, so it grants read/write access to the
// guarded value.
//
// Like SharedGuard, it cannot be duplicated; a second handle requires a new
// acquisition.
type ExclusiveGuard[T any] struct {
	noCopy   noCopy
	sem      *Semaphore[T]
	released atomic.Bool
}

// Value returns the guarded value. The holder is the sole accessor, so
// reading and writing through the returned pointer are both permitted until
// Release.
//
// Value panics if the guard has already been released.
func (g *ExclusiveGuard[T]) Value() *T {
	if g.released.Load() {
		panic("semaphore: ExclusiveGuard used after release")
	}
	return &g.sem.value
}

// Set replaces the guarded value. It is shorthand for assigning through
// Value and follows the same lifecycle rules.
func (g *ExclusiveGuard[T]) Set(value T) {
	*g.Value() = value
}

// Release returns every permit to the semaphore, making it fully free again.
// It must be called exactly once; a second call panics.
func (g *ExclusiveGuard[T]) Release() {
	if !g.released.CompareAndSwap(false, true) {
		panic("semaphore: ExclusiveGuard released twice")
	}
	g.sem.permits.releaseExclusive()
}
