package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestQueue_EnqueueAndPoll(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	queue := NewQueue(taskStore, 10*time.Millisecond, testLogger())

	payload := &ChannelPayload{
		GuildID: 345993194322001923,
		Op:      ChannelOpCreate,
		Name:    "general",
		Kind:    ChannelKindText,
	}

	id, err := queue.Enqueue(context.Background(), payload)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	// Immediately after enqueue, before any runner tick, a poll must see
	// the record with an equal payload.
	pending, err := taskStore.GetPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)

	decoded, err := UnmarshalPayload(pending[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestQueue_Enqueue_StoreError(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	taskStore.EnqueueFn = func(ctx context.Context, payload []byte) (domain.RecordID, error) {
		return 0, errors.New("connection refused")
	}
	queue := NewQueue(taskStore, 10*time.Millisecond, testLogger())

	_, err := queue.Enqueue(context.Background(), &CategoryPayload{Op: CategoryOpCreate, Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to enqueue")
}

func TestQueue_WaitForCompletion(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	queue := NewQueue(taskStore, 10*time.Millisecond, testLogger())

	id, err := queue.Enqueue(context.Background(), &CategoryPayload{Op: CategoryOpCreate, Name: "ops"})
	require.NoError(t, err)

	done := make(chan Status, 1)
	go func() {
		status, waitErr := queue.WaitForCompletion(context.Background(), id)
		if waitErr == nil {
			done <- status
		}
	}()

	// The caller stays suspended while the record is pending.
	select {
	case <-done:
		t.Fatal("wait returned before the task completed")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, taskStore.MarkComplete(context.Background(), id, Completed(NoneResult())))

	// It returns within one additional poll interval once terminal.
	select {
	case status := <-done:
		assert.Equal(t, StateCompleted, status.State)
	case <-time.After(time.Second):
		t.Fatal("wait did not observe the completed status")
	}
}

func TestQueue_WaitForCompletion_ContextCancel(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	queue := NewQueue(taskStore, 10*time.Millisecond, testLogger())

	id, err := queue.Enqueue(context.Background(), &CategoryPayload{Op: CategoryOpCreate, Name: "ops"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = queue.WaitForCompletion(ctx, id)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_EnqueueAndWait(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	queue := NewQueue(taskStore, 10*time.Millisecond, testLogger())
	deps, _, _ := testDeps()
	runner := NewRunner(taskStore, deps, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = runner.Run(ctx) }()

	status, err := queue.EnqueueAndWait(ctx, &CategoryPayload{
		GuildID: 345993194322001923,
		Op:      CategoryOpCreate,
		Name:    "fleet-ops",
	})
	require.NoError(t, err)
	require.Equal(t, StateCompleted, status.State)
	require.NotNil(t, status.Result)
	require.NotNil(t, status.Result.Category)
	assert.Equal(t, "fleet-ops", status.Result.Category.Name)
}

func TestTaskStore_StatusMonotonic(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	id, err := taskStore.Enqueue(context.Background(), []byte(`{"kind":"category","task":{}}`))
	require.NoError(t, err)

	require.NoError(t, taskStore.MarkComplete(context.Background(), id, Completed(NoneResult())))

	// Once terminal, no writer can transition the record again, not even
	// back to pending.
	err = taskStore.MarkComplete(context.Background(), id, Failed("late writer"))
	assert.ErrorIs(t, err, store.ErrStaleStatus)

	status, err := taskStore.GetStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, status.State)
}

func TestTaskStore_GetStatus_NotFound(t *testing.T) {
	t.Parallel()

	taskStore := NewMemoryTaskStore()
	_, err := taskStore.GetStatus(context.Background(), domain.RecordID(99))
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}
