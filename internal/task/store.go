package task

import (
	"context"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// Record is the durable representation of one enqueued task. Records are
// never deleted in normal operation; terminal rows stay behind as an audit
// trail.
type Record struct {
	ID        domain.RecordID
	Payload   []byte // tagged envelope, see MarshalPayload
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskStore is the persistence contract for task records, implemented by
// the postgres package and by MemoryTaskStore for tests.
type TaskStore interface {
	// Enqueue inserts a record with pending status and returns the
	// storage-assigned id.
	Enqueue(ctx context.Context, payload []byte) (domain.RecordID, error)

	// GetPending returns every record currently pending. No ordering is
	// guaranteed to callers.
	GetPending(ctx context.Context) ([]Record, error)

	// GetStatus returns the current status of one record.
	// Returns store.ErrTaskNotFound if the record does not exist.
	GetStatus(ctx context.Context, id domain.RecordID) (Status, error)

	// MarkComplete transitions a record from pending to the given terminal
	// status. The transition is conditional: if the record already left
	// pending the store returns store.ErrStaleStatus and leaves the row
	// untouched, so two runners can never overwrite each other's result.
	MarkComplete(ctx context.Context, id domain.RecordID, status Status) error

	// CountByState returns the number of records in each state, for the
	// ops endpoints.
	CountByState(ctx context.Context) (map[State]int, error)
}
