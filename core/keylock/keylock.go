package keylock

import "sync"

// KeyLock provides mutual exclusion per key rather than globally. Locks are
// created on first use and retained for the process lifetime; cardinality is
// bounded by the number of distinct keys (warehouse × product pairs).
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for key and returns the matching unlock func.
//
//	unlock := locks.Lock(key)
//	defer unlock()
func (k *KeyLock) Lock(key string) func() {
	m := k.get(key)
	m.Lock()
	return m.Unlock
}
