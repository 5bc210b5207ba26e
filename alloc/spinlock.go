package alloc

import "sync/atomic"

// SpinLock guards a single value of type T. Lock busy-waits until the flag
// moves from unlocked to locked; there is no timeout and no queueing.
//
// The zero value is unlocked and holds the zero T.
type SpinLock[T any] struct {
	locked atomic.Bool
	value  T
}

// Lock spins until the lock is acquired and returns the guarded value. The
// pointer must not be used after the matching Unlock.
func (l *SpinLock[T]) Lock() *T {
	for !l.locked.CompareAndSwap(false, true) {
	}
	return &l.value
}

// TryLock makes a single acquisition attempt.
func (l *SpinLock[T]) TryLock() (*T, bool) {
	if !l.locked.CompareAndSwap(false, true) {
		return nil, false
	}
	return &l.value, true
}

// Unlock releases the lock. Releasing an unlocked lock panics.
func (l *SpinLock[T]) Unlock() {
	if !l.locked.CompareAndSwap(true, false) {
		panic("alloc: unlock of unlocked spinlock")
	}
}

// unguarded returns the value without taking the lock. Only valid when the
// caller knows no other goroutine can reach the lock, e.g. during teardown.
func (l *SpinLock[T]) unguarded() *T {
	return &l.value
}
