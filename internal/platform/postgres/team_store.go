package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/mechanic"
	"github.com/skirmish-bot/skirmish/internal/store"
)

// TeamStore implements mechanic.TeamStore and mechanic.PlayerStore over
// PostgreSQL. Platform guild ids are resolved to guild rows internally.
type TeamStore struct {
	db store.DBTX
}

var (
	_ mechanic.TeamStore   = (*TeamStore)(nil)
	_ mechanic.PlayerStore = (*TeamStore)(nil)
)

// NewTeamStore creates a TeamStore over the given connection or transaction.
func NewTeamStore(db store.DBTX) *TeamStore {
	return &TeamStore{db: db}
}

// WithTx returns a TeamStore running its statements on tx.
func (s *TeamStore) WithTx(tx *sql.Tx) *TeamStore {
	return &TeamStore{db: tx}
}

// guildIDByDiscordID resolves a platform guild id to its row id. The guild
// row always exists by the time a team or player is written: the task
// handlers create it on first contact.
func (s *TeamStore) guildIDByDiscordID(ctx context.Context, discordID domain.PlatformID) (domain.RecordID, error) {
	var id domain.RecordID
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM guilds WHERE discord_id = $1`, discordID.Int64()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: guild %s", store.ErrGuildNotFound, discordID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve guild: %w", MapError(err))
	}
	return id, nil
}

// InsertTeam records a team and its platform entity ids.
func (s *TeamStore) InsertTeam(ctx context.Context, guildID domain.PlatformID, team domain.Team) (domain.Team, error) {
	rowGuildID, err := s.guildIDByDiscordID(ctx, guildID)
	if err != nil {
		return domain.Team{}, err
	}

	query := `
		INSERT INTO teams (guild_id, name, role_id, category_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	team.GuildID = rowGuildID
	err = s.db.QueryRowContext(ctx, query,
		team.GuildID, team.Name,
		team.RoleID.Int64(), team.CategoryID.Int64(), team.ChannelID.Int64(),
		time.Now().UTC()).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return domain.Team{}, fmt.Errorf("failed to insert team: %w", MapError(err))
	}
	return team, nil
}

// GetTeam returns one team by row id.
func (s *TeamStore) GetTeam(ctx context.Context, id domain.RecordID) (domain.Team, error) {
	query := `
		SELECT id, guild_id, name, role_id, category_id, channel_id, created_at
		FROM teams
		WHERE id = $1
	`

	team, err := scanTeam(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Team{}, fmt.Errorf("%w: team %s", store.ErrTeamNotFound, id)
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("failed to get team: %w", MapError(err))
	}
	return team, nil
}

// ListTeams returns every team in a guild, oldest first.
func (s *TeamStore) ListTeams(ctx context.Context, guildID domain.PlatformID) ([]domain.Team, error) {
	query := `
		SELECT t.id, t.guild_id, t.name, t.role_id, t.category_id, t.channel_id, t.created_at
		FROM teams t
		JOIN guilds g ON g.id = t.guild_id
		WHERE g.discord_id = $1
		ORDER BY t.id
	`

	rows, err := s.db.QueryContext(ctx, query, guildID.Int64())
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var teams []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", MapError(err))
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team rows: %w", MapError(err))
	}
	return teams, nil
}

// DeleteTeam removes a team row. Players on the team are detached by the
// ON DELETE SET NULL constraint.
func (s *TeamStore) DeleteTeam(ctx context.Context, id domain.RecordID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", MapError(err))
	}
	if err := CheckRowsAffected(res, "team"); err != nil {
		return fmt.Errorf("%w: team %s", store.ErrTeamNotFound, id)
	}
	return nil
}

// GetOrCreatePlayer returns the player row for a platform user, creating it
// on first contact. A non-empty name refreshes the stored one.
func (s *TeamStore) GetOrCreatePlayer(ctx context.Context, guildID, discordID domain.PlatformID, name string) (domain.Player, error) {
	rowGuildID, err := s.guildIDByDiscordID(ctx, guildID)
	if err != nil {
		return domain.Player{}, err
	}

	query := `
		INSERT INTO players (guild_id, discord_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id, discord_id)
		DO UPDATE SET name = COALESCE(NULLIF(EXCLUDED.name, ''), players.name)
		RETURNING id, discord_id, guild_id, team_id, name, created_at
	`

	var (
		player      domain.Player
		discordID64 int64
		teamID      sql.NullInt32
	)
	err = s.db.QueryRowContext(ctx, query, rowGuildID, discordID.Int64(), name, time.Now().UTC()).
		Scan(&player.ID, &discordID64, &player.GuildID, &teamID, &player.Name, &player.CreatedAt)
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to get or create player: %w", MapError(err))
	}
	player.DiscordID = domain.PlatformIDFromInt64(discordID64)
	if teamID.Valid {
		player.TeamID = domain.RecordID(teamID.Int32)
	}
	return player, nil
}

// SetPlayerTeam puts a player on a team.
func (s *TeamStore) SetPlayerTeam(ctx context.Context, playerID, teamID domain.RecordID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET team_id = $1 WHERE id = $2`, teamID, playerID)
	if err != nil {
		return fmt.Errorf("failed to set player team: %w", MapError(err))
	}
	if err := CheckRowsAffected(res, "player"); err != nil {
		return fmt.Errorf("%w: player %s", store.ErrPlayerNotFound, playerID)
	}
	return nil
}

// ClearPlayerTeam takes a player off their team.
func (s *TeamStore) ClearPlayerTeam(ctx context.Context, playerID domain.RecordID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET team_id = NULL WHERE id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to clear player team: %w", MapError(err))
	}
	if err := CheckRowsAffected(res, "player"); err != nil {
		return fmt.Errorf("%w: player %s", store.ErrPlayerNotFound, playerID)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (domain.Team, error) {
	var (
		team       domain.Team
		roleID     int64
		categoryID int64
		channelID  int64
	)
	err := row.Scan(&team.ID, &team.GuildID, &team.Name, &roleID, &categoryID, &channelID, &team.CreatedAt)
	if err != nil {
		return domain.Team{}, err
	}
	team.RoleID = domain.PlatformIDFromInt64(roleID)
	team.CategoryID = domain.PlatformIDFromInt64(categoryID)
	team.ChannelID = domain.PlatformIDFromInt64(channelID)
	return team, nil
}
