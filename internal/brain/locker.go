package brain

import "sync"

// lockKey identifies a named lock or task: a (category, name) pair.
type lockKey struct {
	category string
	name     string
}

// lockerRegistry hands out process-wide reader/writer locks keyed by
// (category, name). Locks are created on first use and never removed; only
// the create-if-absent step takes the registry's own lock.
type lockerRegistry struct {
	mu    sync.Mutex
	locks map[lockKey]*sync.RWMutex
}

func newLockerRegistry() *lockerRegistry {
	return &lockerRegistry{locks: make(map[lockKey]*sync.RWMutex)}
}

func (r *lockerRegistry) get(category, name string) *sync.RWMutex {
	key := lockKey{category, name}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[key]; ok {
		return l
	}
	l := &sync.RWMutex{}
	r.locks[key] = l
	return l
}

// Locker returns the shared reader/writer lock registered under
// (category, name), creating it on first use.
func (b *Brain) Locker(category, name string) *sync.RWMutex {
	return b.lockers.get(category, name)
}
