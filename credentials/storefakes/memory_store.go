package storefakes

import (
	"sync"

	"github.com/eventpass/eventpass-go/credentials"
)

var _ credentials.Store = (*MemoryStore)(nil)

// MemoryStore is an in-process credential store for tests and for callers
// that opt out of persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	held  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) Get() (string, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.token, ms.held
}

func (ms *MemoryStore) Set(token string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = token
	ms.held = true
}

func (ms *MemoryStore) Clear() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.token = ""
	ms.held = false
}
