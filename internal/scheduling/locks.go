package scheduling

import "sync"

// UserLocks serializes scheduling mutations per user within this process.
// Concurrent mutations against the same calendar would otherwise interleave
// their capacity reads and over-allocate a day.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLocks constructs the lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the user's scheduling lock and returns its release function.
func (l *UserLocks) Lock(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
