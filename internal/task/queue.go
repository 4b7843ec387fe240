package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// DefaultWaitPollInterval is how often WaitForCompletion re-reads a record's
// status when no interval is configured.
const DefaultWaitPollInterval = 500 * time.Millisecond

// Queue is the durable-queue handle shared by every caller that enqueues
// effects: the serialization boundary over a TaskStore plus the blocking
// wait protocol. Queue values are cheap to copy by pointer and safe for
// concurrent use.
type Queue struct {
	store        TaskStore
	pollInterval time.Duration
	logger       *slog.Logger
}

// NewQueue creates a Queue over the given store. A non-positive pollInterval
// falls back to DefaultWaitPollInterval. If logger is nil, the default
// logger is used.
func NewQueue(store TaskStore, pollInterval time.Duration, logger *slog.Logger) *Queue {
	if pollInterval <= 0 {
		pollInterval = DefaultWaitPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		store:        store,
		pollInterval: pollInterval,
		logger:       logger.With(slog.String("component", "task_queue")),
	}
}

// Enqueue serializes the payload and inserts a pending record, returning the
// storage-assigned id.
func (q *Queue) Enqueue(ctx context.Context, p Payload) (domain.RecordID, error) {
	raw, err := MarshalPayload(p)
	if err != nil {
		return 0, err
	}

	id, err := q.store.Enqueue(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue %s task: %w", p.PayloadKind(), err)
	}

	q.logger.Debug("task enqueued",
		slog.String("task_id", id.String()),
		slog.String("task_kind", string(p.PayloadKind())))
	return id, nil
}

// WaitForCompletion polls the record's status until it is terminal and
// returns it. Only the calling goroutine is parked between polls. There is
// no deadline: a task never picked up by the runner suspends the caller
// until the context is canceled, so bound the wait with a context.
func (q *Queue) WaitForCompletion(ctx context.Context, id domain.RecordID) (Status, error) {
	ticker := time.NewTicker(q.pollInterval)
	defer ticker.Stop()

	for {
		status, err := q.store.GetStatus(ctx, id)
		if err != nil {
			return Status{}, fmt.Errorf("failed to poll task %s: %w", id, err)
		}
		if status.Terminal() {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return Status{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// EnqueueAndWait is the primary entry point for callers that need a
// synchronous-looking effect: enqueue the payload, then block until the
// runner has executed it and return the terminal status.
func (q *Queue) EnqueueAndWait(ctx context.Context, p Payload) (Status, error) {
	id, err := q.Enqueue(ctx, p)
	if err != nil {
		return Status{}, err
	}
	return q.WaitForCompletion(ctx, id)
}
