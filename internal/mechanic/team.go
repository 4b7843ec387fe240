package mechanic

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// TeamJob selects the workflow a TeamInvocation runs.
type TeamJob string

// Team jobs.
const (
	TeamJobCreate       TeamJob = "create_team"
	TeamJobAddPlayer    TeamJob = "add_player"
	TeamJobRemovePlayer TeamJob = "remove_player"
	TeamJobDelete       TeamJob = "delete_team"
)

// teamRoleColor is the default color for team roles.
const teamRoleColor = 0x2E86C1

// TeamInvocation runs the team lifecycle workflows.
type TeamInvocation struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Job     TeamJob           `json:"job"`

	// Name is the team name; create only.
	Name string `json:"name,omitempty"`

	// TeamID names an existing team; add/remove/delete.
	TeamID domain.RecordID `json:"team_id,omitempty"`

	// PlayerID optionally names the member acted on. Zero means "the user
	// behind the current interaction", the Join Team button path.
	PlayerID domain.PlatformID `json:"player_id,omitempty"`
}

// MechanicKind implements Invocation.
func (m *TeamInvocation) MechanicKind() Kind {
	return KindTeam
}

// Handle implements Invocation.
func (m *TeamInvocation) Handle(ctx context.Context, deps Deps) error {
	switch m.Job {
	case TeamJobCreate:
		return m.createTeam(ctx, deps)
	case TeamJobAddPlayer:
		return m.addPlayer(ctx, deps)
	case TeamJobRemovePlayer:
		return m.removePlayer(ctx, deps)
	case TeamJobDelete:
		return m.deleteTeam(ctx, deps)
	default:
		return fmt.Errorf("unknown team job %q", m.Job)
	}
}

// createTeam provisions everything a team needs: role, category, text and
// voice channels, then the welcome message carrying the Join Team button.
// Each step blocks on the runner so later steps can reference the platform
// ids the earlier ones produced.
func (m *TeamInvocation) createTeam(ctx context.Context, deps Deps) error {
	roleResult, err := awaitTask(ctx, deps.Queue, &task.RolePayload{
		GuildID: m.GuildID,
		Op:      task.RoleOpCreate,
		Name:    m.Name,
		Color:   teamRoleColor,
	})
	if err != nil {
		return err
	}

	categoryResult, err := awaitTask(ctx, deps.Queue, &task.CategoryPayload{
		GuildID: m.GuildID,
		Op:      task.CategoryOpCreate,
		Name:    m.Name,
	})
	if err != nil {
		return err
	}

	textResult, err := awaitTask(ctx, deps.Queue, &task.ChannelPayload{
		GuildID:  m.GuildID,
		Op:       task.ChannelOpCreate,
		Name:     m.Name,
		Kind:     task.ChannelKindText,
		ParentID: categoryResult.Category.DiscordID,
	})
	if err != nil {
		return err
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.ChannelPayload{
		GuildID:  m.GuildID,
		Op:       task.ChannelOpCreate,
		Name:     m.Name + "-voice",
		Kind:     task.ChannelKindVoice,
		ParentID: categoryResult.Category.DiscordID,
	}); err != nil {
		return err
	}

	team, err := deps.Teams.InsertTeam(ctx, m.GuildID, domain.Team{
		Name:       m.Name,
		RoleID:     roleResult.Role.DiscordID,
		CategoryID: categoryResult.Category.DiscordID,
		ChannelID:  textResult.Channel.DiscordID,
	})
	if err != nil {
		return fmt.Errorf("failed to save team %q: %w", m.Name, err)
	}

	joinKey, err := deps.Components.MechanicKey(ctx, &TeamInvocation{
		GuildID: m.GuildID,
		Job:     TeamJobAddPlayer,
		TeamID:  team.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to store join button payload: %w", err)
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.MessagePayload{
		GuildID:   m.GuildID,
		Op:        task.MessageOpSendChannel,
		ChannelID: textResult.Channel.DiscordID,
		Content:   fmt.Sprintf("Welcome aboard the %s!", m.Name),
		Buttons: []task.Button{
			{Label: "Join Team", CustomID: joinKey.String()},
		},
	}); err != nil {
		return err
	}

	return nil
}

// addPlayer puts the interacting user (or an explicitly named one) on the
// team: assigns the team role and records the membership. This runs
// in-process rather than through the queue because it reads the interaction.
func (m *TeamInvocation) addPlayer(ctx context.Context, deps Deps) error {
	team, err := deps.Teams.GetTeam(ctx, m.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load team %s: %w", m.TeamID, err)
	}

	userID, username := m.PlayerID, ""
	if userID.IsZero() {
		userID, username, err = deps.interactionUser()
		if err != nil {
			return err
		}
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.RolePayload{
		GuildID: m.GuildID,
		Op:      task.RoleOpAssign,
		RoleID:  team.RoleID,
		UserID:  userID,
	}); err != nil {
		return err
	}

	player, err := deps.Players.GetOrCreatePlayer(ctx, m.GuildID, userID, username)
	if err != nil {
		return fmt.Errorf("failed to resolve player %s: %w", userID, err)
	}

	if err := deps.Players.SetPlayerTeam(ctx, player.ID, team.ID); err != nil {
		return fmt.Errorf("failed to assign player %s to team %s: %w", player.ID, team.ID, err)
	}
	return nil
}

// removePlayer is the inverse of addPlayer.
func (m *TeamInvocation) removePlayer(ctx context.Context, deps Deps) error {
	team, err := deps.Teams.GetTeam(ctx, m.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load team %s: %w", m.TeamID, err)
	}

	userID, username := m.PlayerID, ""
	if userID.IsZero() {
		userID, username, err = deps.interactionUser()
		if err != nil {
			return err
		}
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.RolePayload{
		GuildID: m.GuildID,
		Op:      task.RoleOpUnassign,
		RoleID:  team.RoleID,
		UserID:  userID,
	}); err != nil {
		return err
	}

	player, err := deps.Players.GetOrCreatePlayer(ctx, m.GuildID, userID, username)
	if err != nil {
		return fmt.Errorf("failed to resolve player %s: %w", userID, err)
	}

	if err := deps.Players.ClearPlayerTeam(ctx, player.ID); err != nil {
		return fmt.Errorf("failed to remove player %s from team: %w", player.ID, err)
	}
	return nil
}

// deleteTeam tears down the team's platform entities in reverse creation
// order, then drops the row.
func (m *TeamInvocation) deleteTeam(ctx context.Context, deps Deps) error {
	team, err := deps.Teams.GetTeam(ctx, m.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load team %s: %w", m.TeamID, err)
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.ChannelPayload{
		GuildID:   m.GuildID,
		Op:        task.ChannelOpDelete,
		ChannelID: team.ChannelID,
	}); err != nil {
		return err
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.CategoryPayload{
		GuildID:    m.GuildID,
		Op:         task.CategoryOpDelete,
		CategoryID: team.CategoryID,
	}); err != nil {
		return err
	}

	if _, err := awaitTask(ctx, deps.Queue, &task.RolePayload{
		GuildID: m.GuildID,
		Op:      task.RoleOpDelete,
		RoleID:  team.RoleID,
	}); err != nil {
		return err
	}

	if err := deps.Teams.DeleteTeam(ctx, team.ID); err != nil {
		return fmt.Errorf("failed to delete team row %s: %w", team.ID, err)
	}
	return nil
}
