package task

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/skirmish-bot/skirmish/internal/store"
)

// DefaultTickInterval is how long the runner sleeps between polls when no
// interval is configured.
const DefaultTickInterval = 100 * time.Millisecond

// Runner is the scheduler loop that drains pending task records. Exactly one
// runner runs per deployment; two would race on poll-then-process, and only
// the store's conditional MarkComplete keeps a double execution from
// double-recording.
type Runner struct {
	store  TaskStore
	deps   Deps
	tick   time.Duration
	logger *slog.Logger
}

// NewRunner creates a Runner over the given store and collaborators. A
// non-positive tick falls back to DefaultTickInterval.
func NewRunner(taskStore TaskStore, deps Deps, tick time.Duration, logger *slog.Logger) *Runner {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:  taskStore,
		deps:   deps,
		tick:   tick,
		logger: logger.With(slog.String("component", "task_runner")),
	}
}

// Run executes the tick loop until the context is canceled. One record's
// failure (malformed payload, storage error, handler error) never halts
// processing of the remaining records or of future ticks.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("task runner started", slog.Duration("tick", r.tick))

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		r.Tick(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("task runner stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick polls for pending records and processes them sequentially in
// poll-order. Exported so the self-test harness and tests can drive the
// runner one tick at a time.
func (r *Runner) Tick(ctx context.Context) {
	pending, err := r.store.GetPending(ctx)
	if err != nil {
		r.logger.Error("failed to poll pending tasks", slog.String("error", err.Error()))
		return
	}

	if len(pending) > 0 {
		r.logger.Debug("processing pending tasks", slog.Int("count", len(pending)))
	}

	for _, record := range pending {
		r.process(ctx, record)
	}
}

// process executes a single record and persists its terminal status.
func (r *Runner) process(ctx context.Context, record Record) {
	log := r.logger.With(slog.String("task_id", record.ID.String()))

	payload, err := UnmarshalPayload(record.Payload)
	if err != nil {
		// A payload this build cannot decode will never become decodable;
		// mark the record errored instead of poisoning every future tick.
		log.Error("failed to decode task payload", slog.String("error", err.Error()))
		r.persist(ctx, log, record, Failed("malformed payload: %v", err))
		return
	}

	log = log.With(slog.String("task_kind", string(payload.PayloadKind())))

	handler := Route(payload)
	if handler == nil {
		log.Error("no handler routed for task kind")
		r.persist(ctx, log, record, Failed("no handler for kind %q", payload.PayloadKind()))
		return
	}

	log.Info("processing task")

	result, err := handler.Handle(ctx, r.deps)
	if err != nil {
		log.Error("task execution failed", slog.String("error", err.Error()))
		r.persist(ctx, log, record, Failed("%v", err))
		return
	}

	log.Info("task completed", slog.String("result_kind", string(result.Kind)))
	r.persist(ctx, log, record, Completed(result))
}

// persist records the terminal status, tolerating a lost race with another
// writer.
func (r *Runner) persist(ctx context.Context, log *slog.Logger, record Record, status Status) {
	err := r.store.MarkComplete(ctx, record.ID, status)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrStaleStatus):
		log.Warn("task already completed by another writer, keeping first result")
	default:
		log.Error("failed to persist task status", slog.String("error", err.Error()))
	}
}
