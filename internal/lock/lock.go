// Package lock serializes mutations per key. Every write for a customer runs
// under the lock "customer:<id>", so two requests for the same customer never
// interleave their read-validate-write cycles.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when a lock could not be acquired before the
// context ended.
var ErrTimeout = errors.New("lock: timed out waiting for lock")

// Locker acquires an exclusive lock on a key. The returned function releases
// it and must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// CustomerKey is the lock key for all mutations of one customer.
func CustomerKey(customerID string) string {
	return "customer:" + customerID
}
