package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/platform/logger"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// TaskStore implements task.TaskStore over PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

var _ task.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore over the given connection or transaction.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// WithTx returns a TaskStore running its statements on tx.
func (s *TaskStore) WithTx(tx *sql.Tx) *TaskStore {
	return &TaskStore{db: tx}
}

// Enqueue inserts a pending record and returns the assigned id.
func (s *TaskStore) Enqueue(ctx context.Context, payload []byte) (domain.RecordID, error) {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id
	`

	now := time.Now().UTC()

	var id domain.RecordID
	if err := s.db.QueryRowContext(ctx, query, payload, task.StatePending, now).Scan(&id); err != nil {
		log.Error("failed to enqueue task", "error", err)
		return 0, fmt.Errorf("failed to enqueue task: %w", MapError(err))
	}
	return id, nil
}

// GetPending returns every pending record, oldest first. Callers must not
// rely on the ordering.
func (s *TaskStore) GetPending(ctx context.Context) ([]task.Record, error) {
	query := `
		SELECT id, payload, status, result, error_message, created_at, updated_at
		FROM tasks
		WHERE status = $1
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, task.StatePending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var records []task.Record
	for rows.Next() {
		var (
			record    task.Record
			state     task.State
			result    []byte
			message   string
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&record.ID, &record.Payload, &state, &result, &message, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", MapError(err))
		}

		status, err := statusFromColumns(state, result, message)
		if err != nil {
			return nil, err
		}
		record.Status = status
		record.CreatedAt = createdAt
		record.UpdatedAt = updatedAt
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", MapError(err))
	}
	return records, nil
}

// GetStatus returns the current status of one record.
func (s *TaskStore) GetStatus(ctx context.Context, id domain.RecordID) (task.Status, error) {
	query := `
		SELECT status, result, error_message
		FROM tasks
		WHERE id = $1
	`

	var (
		state   task.State
		result  []byte
		message string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&state, &result, &message)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Status{}, fmt.Errorf("%w: task %s", store.ErrTaskNotFound, id)
	}
	if err != nil {
		return task.Status{}, fmt.Errorf("failed to get task status: %w", MapError(err))
	}
	return statusFromColumns(state, result, message)
}

// MarkComplete records a terminal status. The transition is conditional on
// the record still being pending: a record already terminal returns
// store.ErrStaleStatus, a missing record store.ErrTaskNotFound.
func (s *TaskStore) MarkComplete(ctx context.Context, id domain.RecordID, status task.Status) error {
	log := logger.FromContext(ctx)

	var result []byte
	if status.Result != nil {
		var err error
		result, err = json.Marshal(status.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal task result: %w", err)
		}
	}

	query := `
		UPDATE tasks
		SET status = $1, result = $2, error_message = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		status.State, result, status.Message, time.Now().UTC(), id, task.StatePending)
	if err != nil {
		log.Error("failed to mark task complete",
			"task_id", id,
			"state", status.State,
			"error", err)
		return fmt.Errorf("failed to mark task complete: %w", MapError(err))
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Zero rows: the record is either gone or already terminal.
	if _, err := s.GetStatus(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: task %s", store.ErrStaleStatus, id)
}

// CountByState returns the number of records in each state.
func (s *TaskStore) CountByState(ctx context.Context) (map[task.State]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM tasks
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[task.State]int)
	for rows.Next() {
		var (
			state task.State
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", MapError(err))
		}
		counts[state] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task counts: %w", MapError(err))
	}
	return counts, nil
}

// statusFromColumns reassembles a task.Status from its three columns.
func statusFromColumns(state task.State, result []byte, message string) (task.Status, error) {
	status := task.Status{State: state, Message: message}
	if len(result) > 0 {
		status.Result = &task.Result{}
		if err := json.Unmarshal(result, status.Result); err != nil {
			return task.Status{}, fmt.Errorf("failed to decode task result: %w", err)
		}
	}
	return status, nil
}
