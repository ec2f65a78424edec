package storefakes

import (
	"errors"
	"sync"

	"github.com/jrsteele09/dental-session-client/sessions"
)

var _ sessions.Store = (*MemoryStore)(nil)

// ErrInjected is returned by a MemoryStore whose failure switch is on.
var ErrInjected = errors.New("injected store failure")

// MemoryStore is an in-process sessions.Store. It does not survive restarts.
type MemoryStore struct {
	values     map[string]string
	failReads  bool
	failWrites bool
	writes     int
	lock       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]string),
	}
}

// NewMemoryStoreWith returns a store pre-populated with values.
func NewMemoryStoreWith(values map[string]string) *MemoryStore {
	ms := NewMemoryStore()
	for k, v := range values {
		ms.values[k] = v
	}
	return ms
}

func (ms *MemoryStore) Get(key string) (string, bool, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	if ms.failReads {
		return "", false, ErrInjected
	}
	v, ok := ms.values[key]
	return v, ok, nil
}

func (ms *MemoryStore) SetMany(values map[string]string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	if ms.failWrites {
		return ErrInjected
	}
	ms.writes++
	for k, v := range values {
		ms.values[k] = v
	}
	return nil
}

func (ms *MemoryStore) Replace(values map[string]string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	if ms.failWrites {
		return ErrInjected
	}
	ms.writes++
	ms.values = make(map[string]string, len(values))
	for k, v := range values {
		ms.values[k] = v
	}
	return nil
}

func (ms *MemoryStore) Clear() error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	// Clearing always succeeds so teardown can be observed in tests.
	ms.values = make(map[string]string)
	return nil
}

// Snapshot returns a copy of every stored key.
func (ms *MemoryStore) Snapshot() map[string]string {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	out := make(map[string]string, len(ms.values))
	for k, v := range ms.values {
		out[k] = v
	}
	return out
}

// Writes counts successful SetMany and Replace calls.
func (ms *MemoryStore) Writes() int {
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	return ms.writes
}

func (ms *MemoryStore) FailReads(fail bool) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.failReads = fail
}

func (ms *MemoryStore) FailWrites(fail bool) {
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.failWrites = fail
}
