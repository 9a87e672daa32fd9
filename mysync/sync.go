package mysync

import (
	"sync"
)

// Mutex guards a value of type T. The value can only be reached through Lock and RLock, which makes it hard to
// forget taking the lock.
type Mutex[T any] struct {
	mu sync.RWMutex
	v  T
}

type MutexUnlock struct {
	mu *sync.RWMutex
}

type MutexRUnlock struct {
	mu *sync.RWMutex
}

func NewMutex[T any](v T) *Mutex[T] {
	return &Mutex[T]{v: v}
}

// Lock locks mu and returns a pointer to the guarded value. The pointer must not be used after calling Unlock.
func (mu *Mutex[T]) Lock() (*T, MutexUnlock) {
	mu.mu.Lock()
	return &mu.v, MutexUnlock{&mu.mu}
}

// RLock read-locks mu and returns a copy of the guarded value.
func (mu *Mutex[T]) RLock() (T, MutexRUnlock) {
	mu.mu.RLock()
	return mu.v, MutexRUnlock{&mu.mu}
}

// Do calls fn with the guarded value while holding the lock.
func (mu *Mutex[T]) Do(fn func(v *T)) {
	v, u := mu.Lock()
	defer u.Unlock()
	fn(v)
}

func (u MutexUnlock) Unlock()   { u.mu.Unlock() }
func (u MutexRUnlock) RUnlock() { u.mu.RUnlock() }
