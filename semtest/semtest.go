// Package semtest provides utilities for testing permit-guarded concurrent
// code. The package offers a tracker for verifying that concurrent holders of
// a counting semaphore respect its accounting invariants: never more shared
// holders than permits, and never an exclusive holder overlapping any other
// holder.
//
// # Overview
//
// The primary type [Tracker] is fed by the goroutines under test, which call
// the Enter/Exit methods while they hold a guard. The tracker observes every
// interleaving that actually happened and records any state the semaphore
// contract forbids. After the goroutines finish, [Tracker.Check] reports the
// violations to the test.
//
// # Example Usage
//
// Wrap the guarded section of each worker with matching Enter/Exit calls:
//
//	tracker := semtest.NewTracker(permits)
//	go func() {
//		g := sem.AcquireShared()
//		tracker.EnterShared("reader-1")
//		// ... read through the guard ...
//		tracker.ExitShared("reader-1")
//		g.Release()
//	}()
//	// ... wait for the workers ...
//	tracker.Check(t)
//
// The tracker also keeps an append-only log of the order in which holders
// entered. The log exists to make the ABSENCE of ordering guarantees
// testable: assertions about it should check membership, not sequence.
package semtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// Tracker records entries and exits of shared and exclusive holders and
// collects every violation of the permit-accounting invariants it witnesses.
//
// A Tracker is safe for concurrent use; every method takes an internal lock,
// so the tracker itself serializes its bookkeeping even when the holders it
// observes do not.
type Tracker struct {
	permits int

	mu         sync.Mutex
	shared     int
	exclusive  bool
	peakShared int
	order      []string
	violations []string
}

// NewTracker creates a Tracker for a semaphore with the given permit
// capacity.
func NewTracker(permits int) *Tracker {
	return &Tracker{permits: permits}
}

// EnterShared records that the holder identified by token has entered a
// shared section. Call it immediately after a shared acquisition succeeds,
// while the guard is held.
func (tr *Tracker) EnterShared(token string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.exclusive {
		tr.violate("shared holder %q entered while an exclusive holder is live", token)
	}
	tr.shared++
	if tr.shared > tr.permits {
		tr.violate("%d concurrent shared holders exceed the %d-permit capacity", tr.shared, tr.permits)
	}
	if tr.shared > tr.peakShared {
		tr.peakShared = tr.shared
	}
	tr.order = append(tr.order, token)
}

// ExitShared records that the holder identified by token has left its shared
// section. Call it before releasing the guard.
func (tr *Tracker) ExitShared(token string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.shared == 0 {
		tr.violate("shared holder %q exited without a matching enter", token)
		return
	}
	tr.shared--
}

// EnterExclusive records that the holder identified by token has entered an
// exclusive section.
func (tr *Tracker) EnterExclusive(token string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.exclusive {
		tr.violate("exclusive holder %q entered while another exclusive holder is live", token)
	}
	if tr.shared > 0 {
		tr.violate("exclusive holder %q entered alongside %d shared holders", token, tr.shared)
	}
	tr.exclusive = true
	tr.order = append(tr.order, token)
}

// ExitExclusive records that the holder identified by token has left its
// exclusive section.
func (tr *Tracker) ExitExclusive(token string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if !tr.exclusive {
		tr.violate("exclusive holder %q exited without a matching enter", token)
		return
	}
	tr.exclusive = false
}

// PeakShared returns the highest number of concurrent shared holders the
// tracker has observed. Useful for asserting that a workload actually
// saturated the semaphore, not just that it stayed within bounds.
func (tr *Tracker) PeakShared() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.peakShared
}

// Order returns the tokens of all holders in the order they entered. The
// sequence reflects whatever order the contending acquisitions happened to
// land in; a correct semaphore promises nothing about it.
func (tr *Tracker) Order() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	order := make([]string, len(tr.order))
	copy(order, tr.order)
	return order
}

// Err returns an error describing every violation witnessed so far, or nil
// if the observed interleavings all satisfied the semaphore contract.
func (tr *Tracker) Err() error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if len(tr.violations) == 0 {
		return nil
	}
	return errors.New("semtest: " + strings.Join(tr.violations, "; "))
}

// Check fails the test with every violation witnessed so far. It is the
// testing-flavoured form of Err.
func (tr *Tracker) Check(t testing.TB) {
	t.Helper()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	for _, v := range tr.violations {
		t.Errorf("semtest: %s", v)
	}
}

// violate appends a formatted violation. Callers hold tr.mu.
func (tr *Tracker) violate(format string, args ...any) {
	tr.violations = append(tr.violations, fmt.Sprintf(format, args...))
}
