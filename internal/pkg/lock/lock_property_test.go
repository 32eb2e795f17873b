// Property-based tests for concurrent ledger safety.
package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestConcurrentCherrySafetyProperty checks that concurrent cherry updates on
// the same user end with the same balance as running them one after another.
func TestConcurrentCherrySafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.Int64Range(0, 1000).Draw(t, "initialCherries")
		numOps := rapid.IntRange(2, 30).Draw(t, "numOps")
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")

		amounts := make([]int64, numOps)
		expected := initial
		for i := range amounts {
			// wins add 1 cherry, card purchases take 30
			amounts[i] = rapid.SampledFrom([]int64{1, -30}).Draw(t, "amount")
			expected += amounts[i]
		}

		ul := NewUserLock()
		cherries := initial

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(amount int64) {
				defer wg.Done()
				_ = ul.WithLockContext(context.Background(), userID, time.Minute, func() error {
					cherries += amount
					return nil
				})
			}(amount)
		}
		wg.Wait()

		if cherries != expected {
			t.Fatalf("cherries mismatch: expected %d, got %d", expected, cherries)
		}
	})
}

// TestMultipleUsersIndependentLocksProperty checks that locks for different
// users are independent.
func TestMultipleUsersIndependentLocksProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		numUsers := rapid.IntRange(2, 10).Draw(t, "numUsers")
		opsPerUser := rapid.IntRange(5, 20).Draw(t, "opsPerUser")

		ul := NewUserLock()
		counters := make([]int, numUsers)

		var wg sync.WaitGroup
		wg.Add(numUsers * opsPerUser)
		for u := 0; u < numUsers; u++ {
			for j := 0; j < opsPerUser; j++ {
				go func(u int) {
					defer wg.Done()
					_ = ul.WithLockContext(context.Background(), int64(u), time.Minute, func() error {
						counters[u]++
						return nil
					})
				}(u)
			}
		}
		wg.Wait()

		for u, n := range counters {
			if n != opsPerUser {
				t.Fatalf("user %d: expected %d ops, got %d", u, opsPerUser, n)
			}
		}
	})
}

// TestLockReleasedProperty checks that the lock is free again after fn
// returns, whether fn succeeded or failed.
func TestLockReleasedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		userID := rapid.Int64Range(1, 1000000).Draw(t, "userID")
		numCalls := rapid.IntRange(5, 20).Draw(t, "numCalls")

		ul := NewUserLock()
		var ran atomic.Int32
		var wg sync.WaitGroup
		wg.Add(numCalls)
		for i := 0; i < numCalls; i++ {
			go func(i int) {
				defer wg.Done()
				_ = ul.WithLockContext(context.Background(), userID, time.Minute, func() error {
					ran.Add(1)
					if i%2 == 0 {
						return errors.New("ledger failure")
					}
					return nil
				})
			}(i)
		}
		wg.Wait()

		if int(ran.Load()) != numCalls {
			t.Fatalf("expected %d calls, got %d", numCalls, ran.Load())
		}
		if !ul.mutex(userID).TryLock() {
			t.Fatal("lock should be available after all operations complete")
		}
	})
}

func TestWithLockContext_Timeout(t *testing.T) {
	ul := NewUserLock()
	ul.mutex(1).Lock()
	defer ul.mutex(1).Unlock()

	err := ul.WithLockContext(context.Background(), 1, 30*time.Millisecond, func() error {
		t.Fatal("fn must not run without the lock")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockTimeout)

	ran := false
	err = ul.WithLockContext(context.Background(), 2, time.Second, func() error {
		ran = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, ran)
}

func TestWithLockContext_Cancelled(t *testing.T) {
	ul := NewUserLock()
	ul.mutex(1).Lock()
	defer ul.mutex(1).Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ul.WithLockContext(ctx, 1, time.Second, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
