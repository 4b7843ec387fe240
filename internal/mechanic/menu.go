package mechanic

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// MenuJob selects the workflow a MenuInvocation runs.
type MenuJob string

// Menu jobs.
const (
	MenuJobStartTrade     MenuJob = "start_trade"
	MenuJobOpenComms      MenuJob = "open_comms"
	MenuJobRoleChangeMenu MenuJob = "role_change_menu"
)

// MenuInvocation runs the message-menu workflows: posting the trade and
// comms prompts and the team-picker message.
type MenuInvocation struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Job     MenuJob           `json:"job"`

	// ChannelID is the destination channel; trade and comms.
	ChannelID domain.PlatformID `json:"channel_id,omitempty"`
}

// MechanicKind implements Invocation.
func (m *MenuInvocation) MechanicKind() Kind {
	return KindMenu
}

// Handle implements Invocation.
func (m *MenuInvocation) Handle(ctx context.Context, deps Deps) error {
	switch m.Job {
	case MenuJobStartTrade:
		return m.startTrade(ctx, deps)
	case MenuJobOpenComms:
		return m.openComms(ctx, deps)
	case MenuJobRoleChangeMenu:
		return m.roleChangeMenu(ctx, deps)
	default:
		return fmt.Errorf("unknown menu job %q", m.Job)
	}
}

func (m *MenuInvocation) startTrade(ctx context.Context, deps Deps) error {
	_, err := awaitTask(ctx, deps.Queue, &task.MessagePayload{
		GuildID:   m.GuildID,
		Op:        task.MessageOpSendChannel,
		ChannelID: m.ChannelID,
		Content:   "Trade started!",
	})
	return err
}

// openComms posts the comms prompt on behalf of the clicking player, so it
// needs the interaction context to know who opened the line.
func (m *MenuInvocation) openComms(ctx context.Context, deps Deps) error {
	userID, username, err := deps.interactionUser()
	if err != nil {
		return err
	}

	player, err := deps.Players.GetOrCreatePlayer(ctx, m.GuildID, userID, username)
	if err != nil {
		return fmt.Errorf("failed to resolve player %s: %w", userID, err)
	}

	_, err = awaitTask(ctx, deps.Queue, &task.MessagePayload{
		GuildID:   m.GuildID,
		Op:        task.MessageOpSendChannel,
		ChannelID: m.ChannelID,
		Content:   fmt.Sprintf("Comms opened by %s!", player.Name),
	})
	return err
}

// roleChangeMenu posts the team-picker: one select menu whose options each
// reference a stored AddPlayer invocation for their team. Every option gets
// its own key even when teams repeat across messages; no deduplication.
func (m *MenuInvocation) roleChangeMenu(ctx context.Context, deps Deps) error {
	teams, err := deps.Teams.ListTeams(ctx, m.GuildID)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return fmt.Errorf("no teams to offer in guild %s", m.GuildID)
	}

	options := make([]task.SelectOption, 0, len(teams))
	for _, team := range teams {
		key, err := deps.Components.MechanicKey(ctx, &TeamInvocation{
			GuildID: m.GuildID,
			Job:     TeamJobAddPlayer,
			TeamID:  team.ID,
		})
		if err != nil {
			return fmt.Errorf("failed to store menu option payload: %w", err)
		}
		options = append(options, task.SelectOption{
			Label: team.Name,
			Value: key.String(),
		})
	}

	menuKey, err := deps.Components.InertKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to store menu payload: %w", err)
	}

	_, err = awaitTask(ctx, deps.Queue, &task.MessagePayload{
		GuildID:   m.GuildID,
		Op:        task.MessageOpSendChannel,
		ChannelID: m.ChannelID,
		Content:   "Pick your crew:",
		Menu: &task.SelectMenu{
			CustomID:    menuKey.String(),
			Placeholder: "No crew selected",
			Options:     options,
		},
	})
	return err
}
