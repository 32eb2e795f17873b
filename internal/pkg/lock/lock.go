// Package lock serializes ledger read-modify-write sequences per user.
package lock

import (
	"context"
	"sync"
	"time"
)

// UserLock hands out one mutex per user ID, so a card purchase and a game win
// for the same player never interleave while different players proceed in parallel.
type UserLock struct {
	locks sync.Map // map[int64]*sync.Mutex
}

// NewUserLock creates a new UserLock instance.
func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) mutex(userID int64) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	actual, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// WithLockContext executes fn while holding the user's lock, giving up with
// ErrLockTimeout if the lock is not acquired within timeout.
func (ul *UserLock) WithLockContext(ctx context.Context, userID int64, timeout time.Duration, fn func() error) error {
	m := ul.mutex(userID)

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for !m.TryLock() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return ErrLockTimeout
		case <-time.After(5 * time.Millisecond):
		}
	}
	defer m.Unlock()

	return fn()
}
