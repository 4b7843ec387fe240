package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/component"
	"github.com/skirmish-bot/skirmish/internal/store"
)

// ComponentStore implements component.PayloadStore over PostgreSQL. Payloads
// are JSONB; a NULL payload marks a deliberately inert key.
type ComponentStore struct {
	db store.DBTX
}

var _ component.PayloadStore = (*ComponentStore)(nil)

// NewComponentStore creates a ComponentStore over the given connection or
// transaction.
func NewComponentStore(db store.DBTX) *ComponentStore {
	return &ComponentStore{db: db}
}

// Insert stores payload under key. A nil payload is stored as NULL.
func (s *ComponentStore) Insert(ctx context.Context, key uuid.UUID, payload []byte) error {
	query := `
		INSERT INTO message_components (id, payload, created_at)
		VALUES ($1, $2, $3)
	`

	var value any
	if payload != nil {
		value = payload
	}

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert component payload: %w", MapError(err))
	}
	return nil
}

// Get returns the stored payload, nil for an inert key, or
// store.ErrComponentNotFound when the key was never stored.
func (s *ComponentStore) Get(ctx context.Context, key uuid.UUID) ([]byte, error) {
	query := `
		SELECT payload
		FROM message_components
		WHERE id = $1
	`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", store.ErrComponentNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get component payload: %w", MapError(err))
	}
	return payload, nil
}
