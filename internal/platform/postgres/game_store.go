package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// GameStore implements task.GameStore over PostgreSQL: the guild read model
// plus the rows mirroring platform entities the bot created.
type GameStore struct {
	db store.DBTX
}

var _ task.GameStore = (*GameStore)(nil)

// NewGameStore creates a GameStore over the given connection or transaction.
func NewGameStore(db store.DBTX) *GameStore {
	return &GameStore{db: db}
}

// WithTx returns a GameStore running its statements on tx.
func (s *GameStore) WithTx(tx *sql.Tx) *GameStore {
	return &GameStore{db: tx}
}

// GetOrCreateGuild returns the guild row for a platform guild, creating it
// on first contact. The upsert also refreshes the stored name.
func (s *GameStore) GetOrCreateGuild(ctx context.Context, discordID domain.PlatformID, name string) (domain.Guild, error) {
	query := `
		INSERT INTO guilds (discord_id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, discord_id, name, created_at
	`

	var (
		guild       domain.Guild
		discordID64 int64
	)
	err := s.db.QueryRowContext(ctx, query, discordID.Int64(), name, time.Now().UTC()).
		Scan(&guild.ID, &discordID64, &guild.Name, &guild.CreatedAt)
	if err != nil {
		return domain.Guild{}, fmt.Errorf("failed to get or create guild: %w", MapError(err))
	}
	guild.DiscordID = domain.PlatformIDFromInt64(discordID64)
	return guild, nil
}

// InsertCategory records a category the bot created.
func (s *GameStore) InsertCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	query := `
		INSERT INTO categories (discord_id, guild_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, c.DiscordID.Int64(), c.GuildID, c.Name, time.Now().UTC()).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to insert category: %w", MapError(err))
	}
	return c, nil
}

// GetCategoryByDiscordID resolves a mirrored category row by its platform id.
func (s *GameStore) GetCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) (domain.Category, error) {
	query := `
		SELECT id, discord_id, guild_id, name, created_at
		FROM categories
		WHERE discord_id = $1
	`

	var (
		c           domain.Category
		discordID64 int64
	)
	err := s.db.QueryRowContext(ctx, query, discordID.Int64()).
		Scan(&c.ID, &discordID64, &c.GuildID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, fmt.Errorf("category %s: %w", discordID, store.ErrNotFound)
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("failed to get category: %w", MapError(err))
	}
	c.DiscordID = domain.PlatformIDFromInt64(discordID64)
	return c, nil
}

// DeleteCategoryByDiscordID removes the row mirroring a deleted category.
func (s *GameStore) DeleteCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE discord_id = $1`, discordID.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", MapError(err))
	}
	return CheckRowsAffected(res, "category")
}

// ListCategories returns the categories recorded for a guild.
func (s *GameStore) ListCategories(ctx context.Context, guildID domain.RecordID) ([]domain.Category, error) {
	query := `
		SELECT id, discord_id, guild_id, name, created_at
		FROM categories
		WHERE guild_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var categories []domain.Category
	for rows.Next() {
		var (
			c           domain.Category
			discordID64 int64
		)
		if err := rows.Scan(&c.ID, &discordID64, &c.GuildID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", MapError(err))
		}
		c.DiscordID = domain.PlatformIDFromInt64(discordID64)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category rows: %w", MapError(err))
	}
	return categories, nil
}

// InsertChannel records a channel the bot created.
func (s *GameStore) InsertChannel(ctx context.Context, c domain.Channel) (domain.Channel, error) {
	query := `
		INSERT INTO channels (discord_id, guild_id, category_id, kind, name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var categoryID any
	if !c.CategoryID.IsZero() {
		categoryID = c.CategoryID
	}

	err := s.db.QueryRowContext(ctx, query,
		c.DiscordID.Int64(), c.GuildID, categoryID, c.Kind, c.Name, time.Now().UTC()).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("failed to insert channel: %w", MapError(err))
	}
	return c, nil
}

// DeleteChannelByDiscordID removes the row mirroring a deleted channel.
func (s *GameStore) DeleteChannelByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE discord_id = $1`, discordID.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", MapError(err))
	}
	return CheckRowsAffected(res, "channel")
}

// ListChannels returns the channels recorded for a guild.
func (s *GameStore) ListChannels(ctx context.Context, guildID domain.RecordID) ([]domain.Channel, error) {
	query := `
		SELECT id, discord_id, guild_id, category_id, kind, name, created_at
		FROM channels
		WHERE guild_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var channels []domain.Channel
	for rows.Next() {
		var (
			c           domain.Channel
			discordID64 int64
			categoryID  sql.NullInt32
		)
		if err := rows.Scan(&c.ID, &discordID64, &c.GuildID, &categoryID, &c.Kind, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", MapError(err))
		}
		c.DiscordID = domain.PlatformIDFromInt64(discordID64)
		if categoryID.Valid {
			c.CategoryID = domain.RecordID(categoryID.Int32)
		}
		channels = append(channels, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate channel rows: %w", MapError(err))
	}
	return channels, nil
}

// InsertRole records a role the bot created.
func (s *GameStore) InsertRole(ctx context.Context, r domain.Role) (domain.Role, error) {
	query := `
		INSERT INTO roles (discord_id, guild_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		r.DiscordID.Int64(), r.GuildID, r.Name, r.Color, time.Now().UTC()).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return domain.Role{}, fmt.Errorf("failed to insert role: %w", MapError(err))
	}
	return r, nil
}

// DeleteRoleByDiscordID removes the row mirroring a deleted role.
func (s *GameStore) DeleteRoleByDiscordID(ctx context.Context, discordID domain.PlatformID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE discord_id = $1`, discordID.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete role: %w", MapError(err))
	}
	return CheckRowsAffected(res, "role")
}

// ListRoles returns the roles recorded for a guild.
func (s *GameStore) ListRoles(ctx context.Context, guildID domain.RecordID) ([]domain.Role, error) {
	query := `
		SELECT id, discord_id, guild_id, name, color, created_at
		FROM roles
		WHERE guild_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var roles []domain.Role
	for rows.Next() {
		var (
			r           domain.Role
			discordID64 int64
		)
		if err := rows.Scan(&r.ID, &discordID64, &r.GuildID, &r.Name, &r.Color, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", MapError(err))
		}
		r.DiscordID = domain.PlatformIDFromInt64(discordID64)
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role rows: %w", MapError(err))
	}
	return roles, nil
}
