// internal/pkg/keylock/keylock.go
package keylock

import (
	"sync"

	"github.com/moby/locker"
)

// Locker hands out one mutex per key. Idle keys are dropped by the
// underlying locker once nobody holds or waits on them.
type Locker struct {
	locks *locker.Locker
}

// New creates an empty Locker
func New() *Locker {
	return &Locker{locks: locker.New()}
}

// Lock blocks until key is free and returns the matching unlock func
func (l *Locker) Lock(key string) func() {
	l.locks.Lock(key)

	var once sync.Once
	return func() {
		once.Do(func() {
			// Unlock only fails for a key that is not held, which once rules out
			_ = l.locks.Unlock(key)
		})
	}
}
