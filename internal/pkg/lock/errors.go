package lock

import "errors"

// ErrLockTimeout is returned when a user's ledger lock cannot be acquired in time.
var ErrLockTimeout = errors.New("ledger lock acquisition timeout")
