package component

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/mechanic"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// PayloadStore is the persistence boundary for deferred component payloads.
// A nil payload slice is meaningful: it stores a deliberately inert key.
type PayloadStore interface {
	// Insert stores payload under key. Payload may be nil.
	Insert(ctx context.Context, key uuid.UUID, payload []byte) error

	// Get returns the stored payload, nil for an inert key, or
	// store.ErrComponentNotFound when the key was never stored.
	Get(ctx context.Context, key uuid.UUID) ([]byte, error)
}

// Store mints component keys and resolves them back to their payloads. It is
// the mechanic.Components implementation handed to mechanics building UI.
type Store struct {
	payloads PayloadStore
	logger   *slog.Logger
}

var _ mechanic.Components = (*Store)(nil)

// NewStore creates a Store over the given payload persistence. If logger is
// nil, the default logger is used.
func NewStore(payloads PayloadStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		payloads: payloads,
		logger:   logger.With(slog.String("component", "component_store")),
	}
}

// Create stores data under a fresh key and returns it. A nil data stores an
// inert key. Keys are never deduplicated: two components deferring identical
// behavior still get distinct keys.
func (s *Store) Create(ctx context.Context, data *Data) (uuid.UUID, error) {
	key := uuid.New()

	var raw []byte
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return uuid.Nil, err
		}
	}

	if err := s.payloads.Insert(ctx, key, raw); err != nil {
		return uuid.Nil, store.NewStoreError("component payload", "insert", "key "+key.String(), err)
	}

	s.logger.Debug("component payload stored",
		slog.String("key", key.String()),
		slog.Bool("inert", data == nil))
	return key, nil
}

// Lookup resolves a key to its payload. It returns (nil, nil) for an inert
// key and store.ErrComponentNotFound (wrapped) when the key was never stored.
func (s *Store) Lookup(ctx context.Context, key uuid.UUID) (*Data, error) {
	raw, err := s.payloads.Get(ctx, key)
	if err != nil {
		return nil, store.NewStoreError("component payload", "lookup", "key "+key.String(), err)
	}
	if raw == nil {
		return nil, nil
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode component payload %s: %w", key, err)
	}
	return &data, nil
}

// TaskKey implements mechanic.Components.
func (s *Store) TaskKey(ctx context.Context, p task.Payload) (uuid.UUID, error) {
	return s.Create(ctx, TaskData(p))
}

// MechanicKey implements mechanic.Components.
func (s *Store) MechanicKey(ctx context.Context, inv mechanic.Invocation) (uuid.UUID, error) {
	return s.Create(ctx, MechanicData(inv))
}

// InertKey implements mechanic.Components.
func (s *Store) InertKey(ctx context.Context) (uuid.UUID, error) {
	return s.Create(ctx, nil)
}
