package semaphore

import "testing"

func newTestCounter(capacity uint64) *counter {
	c := &counter{cap: capacity}
	c.state.Store(capacity)
	return c
}

func TestCounterSharedTransitions(t *testing.T) {
	t.Parallel()

	c := newTestCounter(2)
	if !c.tryAcquireShared() || !c.tryAcquireShared() {
		t.Fatal("shared acquisition failed with permits free")
	}
	if c.tryAcquireShared() {
		t.Fatal("shared acquisition succeeded at zero free permits")
	}

	c.releaseShared()
	if got := c.free(); got != 1 {
		t.Fatalf("expected 1 free permit after release, got %d", got)
	}
	c.releaseShared()
	if got := c.free(); got != 2 {
		t.Fatalf("expected 2 free permits after release, got %d", got)
	}
}

func TestCounterExclusiveTransitions(t *testing.T) {
	t.Parallel()

	c := newTestCounter(2)
	if !c.tryAcquireExclusive() {
		t.Fatal("exclusive acquisition failed with all permits free")
	}
	if !c.exclusive() {
		t.Fatal("counter does not report the exclusive state")
	}
	if got := c.free(); got != 0 {
		t.Fatalf("exclusive state should expose 0 free permits, got %d", got)
	}
	if c.tryAcquireShared() {
		t.Fatal("shared acquisition succeeded against the exclusive sentinel")
	}
	if c.tryAcquireExclusive() {
		t.Fatal("second exclusive acquisition succeeded")
	}

	c.releaseExclusive()
	if got := c.free(); got != 2 {
		t.Fatalf("expected all permits back after exclusive release, got %d", got)
	}
}

func TestCounterExclusiveRequiresFullCount(t *testing.T) {
	t.Parallel()

	c := newTestCounter(3)
	if !c.tryAcquireShared() {
		t.Fatal("shared acquisition failed")
	}
	if c.tryAcquireExclusive() {
		t.Fatal("exclusive acquisition succeeded with a shared permit out")
	}
}

func TestCounterReleaseMisuseIsFatal(t *testing.T) {
	t.Parallel()

	t.Run("shared overflow", func(t *testing.T) {
		c := newTestCounter(1)
		defer func() {
			if recover() == nil {
				t.Fatal("releasing an unheld shared permit did not panic")
			}
		}()
		c.releaseShared()
	})

	t.Run("shared release while exclusive", func(t *testing.T) {
		c := newTestCounter(1)
		c.tryAcquireExclusive()
		defer func() {
			if recover() == nil {
				t.Fatal("shared release against the exclusive sentinel did not panic")
			}
		}()
		c.releaseShared()
	})

	t.Run("exclusive release without hold", func(t *testing.T) {
		c := newTestCounter(1)
		defer func() {
			if recover() == nil {
				t.Fatal("exclusive release without a hold did not panic")
			}
		}()
		c.releaseExclusive()
	})
}

func TestDefaultWaitEscalation(t *testing.T) {
	t.Parallel()

	// The strategy is advisory, so all that can be pinned down is that every
	// stage returns. Attempt counts straddle the spin, yield, and sleep bands.
	for _, attempts := range []int{1, spinAttempts, spinAttempts + 1, yieldAttempts, yieldAttempts + 1} {
		defaultWait.WaitOnce(attempts)
	}
}
