// Package keylock serializes writers that touch the same record.
//
// Keys are plain strings such as "student:7". A MemoryLocker is enough for a
// single process; RedisLocker extends the guarantee across replicas that share
// a Redis instance.
package keylock

import (
	"context"
	"fmt"
	"sync"
)

// Locker acquires an exclusive lock on a key. The returned unlock func must
// be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// FacultyKey is the lock key of a faculty record
func FacultyKey(id int64) string { return fmt.Sprintf("faculty:%d", id) }

// StudentKey is the lock key of a student record
func StudentKey(id int64) string { return fmt.Sprintf("student:%d", id) }

// AvatarKey is the lock key of the avatar of a student
func AvatarKey(studentID int64) string { return fmt.Sprintf("avatar:%d", studentID) }

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker keeps one lock per key and forgets it when nobody holds or waits for it.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewMemoryLocker creates an empty MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*lockEntry)}
}

// Lock blocks until key is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry)
		return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			l.release(key, entry)
		})
	}, nil
}

func (l *MemoryLocker) release(key string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
}

// size reports how many keys are currently tracked
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
