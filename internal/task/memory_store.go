package task

import (
	"context"
	"sync"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
)

// MemoryTaskStore implements TaskStore in memory for tests and for any
// sandboxed use that does not need durability. Safe for concurrent use.
type MemoryTaskStore struct {
	mu      sync.RWMutex
	nextID  domain.RecordID
	records map[domain.RecordID]Record

	// Optional overrides let tests inject failures.
	EnqueueFn      func(ctx context.Context, payload []byte) (domain.RecordID, error)
	GetPendingFn   func(ctx context.Context) ([]Record, error)
	MarkCompleteFn func(ctx context.Context, id domain.RecordID, status Status) error
	CountByStateFn func(ctx context.Context) (map[State]int, error)
}

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		records: make(map[domain.RecordID]Record),
	}
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// Enqueue implements TaskStore.
func (s *MemoryTaskStore) Enqueue(ctx context.Context, payload []byte) (domain.RecordID, error) {
	if s.EnqueueFn != nil {
		return s.EnqueueFn(ctx, payload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	now := time.Now().UTC()
	raw := make([]byte, len(payload))
	copy(raw, payload)

	s.records[id] = Record{
		ID:        id,
		Payload:   raw,
		Status:    Pending(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

// GetPending implements TaskStore.
func (s *MemoryTaskStore) GetPending(ctx context.Context) ([]Record, error) {
	if s.GetPendingFn != nil {
		return s.GetPendingFn(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []Record
	for _, record := range s.records {
		if record.Status.State == StatePending {
			pending = append(pending, record)
		}
	}
	return pending, nil
}

// GetStatus implements TaskStore.
func (s *MemoryTaskStore) GetStatus(ctx context.Context, id domain.RecordID) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return Status{}, store.ErrTaskNotFound
	}
	return record.Status, nil
}

// MarkComplete implements TaskStore, enforcing the one-way pending→terminal
// transition the way the conditional UPDATE does in postgres.
func (s *MemoryTaskStore) MarkComplete(ctx context.Context, id domain.RecordID, status Status) error {
	if s.MarkCompleteFn != nil {
		return s.MarkCompleteFn(ctx, id, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if record.Status.State != StatePending {
		return store.ErrStaleStatus
	}

	record.Status = status
	record.UpdatedAt = time.Now().UTC()
	s.records[id] = record
	return nil
}

// CountByState implements TaskStore.
func (s *MemoryTaskStore) CountByState(ctx context.Context) (map[State]int, error) {
	if s.CountByStateFn != nil {
		return s.CountByStateFn(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[State]int)
	for _, record := range s.records {
		counts[record.Status.State]++
	}
	return counts, nil
}
