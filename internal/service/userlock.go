package service

import (
	"sync"

	"github.com/google/uuid"
)

// UserLocker serializes work per user within this process. Score runs,
// stats updates, and daily selections for one user take the same lock;
// different users proceed in parallel. Cross-process safety comes from the
// database constraints, so the lock only needs to cover the sub-second
// read-modify-write of a single run.
type UserLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewUserLocker creates an empty locker.
func NewUserLocker() *UserLocker {
	return &UserLocker{locks: make(map[uuid.UUID]*userLock)}
}

// Lock acquires the lock for the given user and returns the release
// function. Entries are reference-counted and removed once the last holder
// releases, so the map does not grow with the user population.
func (l *UserLocker) Lock(userID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
