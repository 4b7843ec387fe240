package component

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/store"
)

// MemoryPayloadStore is an in-memory PayloadStore for tests and self-test
// runs. Safe for concurrent use.
type MemoryPayloadStore struct {
	mu       sync.Mutex
	payloads map[uuid.UUID][]byte
}

var _ PayloadStore = (*MemoryPayloadStore)(nil)

// NewMemoryPayloadStore creates an empty MemoryPayloadStore.
func NewMemoryPayloadStore() *MemoryPayloadStore {
	return &MemoryPayloadStore{payloads: make(map[uuid.UUID][]byte)}
}

// Insert implements PayloadStore.
func (m *MemoryPayloadStore) Insert(_ context.Context, key uuid.UUID, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.payloads[key]; exists {
		return store.ErrDuplicate
	}
	m.payloads[key] = payload
	return nil
}

// Get implements PayloadStore. A stored nil payload comes back as nil with
// no error; a key never stored returns store.ErrComponentNotFound.
func (m *MemoryPayloadStore) Get(_ context.Context, key uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.payloads[key]
	if !ok {
		return nil, store.ErrComponentNotFound
	}
	return payload, nil
}

// Len reports the number of stored keys.
func (m *MemoryPayloadStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payloads)
}
