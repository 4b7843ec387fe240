package bot

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/bwmarrin/discordgo"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/mechanic"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// Slash command names.
const (
	commandTrade      = "trade"
	commandInitialize = "initialize"
	commandReset      = "reset"
)

// startingTeams are created by /initialize, each with a random suffix so the
// command can run repeatedly in one guild.
var startingTeams = []string{"Airship", "Galleon", "Submarine"}

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        commandTrade,
			Description: "Start a test trade",
		},
		{
			Name:        commandInitialize,
			Description: "Initialize the game",
		},
		{
			Name:        commandReset,
			Description: "Tear down everything the game created",
		},
	}
}

// runTrade pushes a single category-create task through the queue, proving
// the whole pipeline end to end.
func (h *Handler) runTrade(ctx context.Context, guildID domain.PlatformID) string {
	status, err := h.queue.EnqueueAndWait(ctx, &task.CategoryPayload{
		GuildID: guildID,
		Op:      task.CategoryOpCreate,
		Name:    "test",
	})
	if err != nil {
		h.logger.Error("trade task failed", slog.Any("error", err))
		return "Something went wrong."
	}
	if status.State == task.StateError {
		return "That didn't work: " + status.Message
	}
	return "Hey, I'm alive!"
}

// runInitialize creates the starting teams and posts the team-picker menu in
// the channel the command was used from.
func (h *Handler) runInitialize(ctx context.Context, interaction *discordgo.InteractionCreate, guildID domain.PlatformID) string {
	deps := mechanic.Deps{
		Queue:      h.queue,
		Components: h.components,
		Teams:      h.teams,
		Players:    h.players,
	}

	for _, base := range startingTeams {
		name := fmt.Sprintf("%s-%d", base, rand.Intn(1<<16))
		create := &mechanic.TeamInvocation{
			GuildID: guildID,
			Job:     mechanic.TeamJobCreate,
			Name:    name,
		}
		if err := create.Handle(ctx, deps); err != nil {
			h.logger.Error("failed to create team",
				slog.String("team", name),
				slog.Any("error", err))
			return "That didn't work: " + err.Error()
		}
	}

	channelID, err := domain.ParsePlatformID(interaction.ChannelID)
	if err != nil {
		h.logger.Error("unparseable interaction channel", slog.Any("error", err))
		return "Teams created, but I couldn't post the team picker."
	}

	menu := &mechanic.MenuInvocation{
		GuildID:   guildID,
		Job:       mechanic.MenuJobRoleChangeMenu,
		ChannelID: channelID,
	}
	if err := menu.Handle(ctx, deps); err != nil {
		h.logger.Error("failed to post team picker", slog.Any("error", err))
		return "Teams created, but I couldn't post the team picker."
	}

	return "Game initialized!"
}

// runReset queues a delete for everything the bot created in the guild,
// then waits for all of them. Failures are tolerated per entity: a row whose
// platform counterpart is already gone must not block the rest.
func (h *Handler) runReset(ctx context.Context, s *discordgo.Session, guildID domain.PlatformID) string {
	guildName := ""
	if guild, err := s.State.Guild(guildID.String()); err == nil {
		guildName = guild.Name
	}

	guild, err := h.games.GetOrCreateGuild(ctx, guildID, guildName)
	if err != nil {
		h.logger.Error("failed to resolve guild", slog.Any("error", err))
		return "Something went wrong."
	}

	var payloads []task.Payload

	channels, err := h.games.ListChannels(ctx, guild.ID)
	if err != nil {
		h.logger.Error("failed to list channels", slog.Any("error", err))
		return "Something went wrong."
	}
	for _, channel := range channels {
		payloads = append(payloads, &task.ChannelPayload{
			GuildID:   guildID,
			Op:        task.ChannelOpDelete,
			ChannelID: channel.DiscordID,
		})
	}

	categories, err := h.games.ListCategories(ctx, guild.ID)
	if err != nil {
		h.logger.Error("failed to list categories", slog.Any("error", err))
		return "Something went wrong."
	}
	for _, category := range categories {
		payloads = append(payloads, &task.CategoryPayload{
			GuildID:    guildID,
			Op:         task.CategoryOpDelete,
			CategoryID: category.DiscordID,
		})
	}

	roles, err := h.games.ListRoles(ctx, guild.ID)
	if err != nil {
		h.logger.Error("failed to list roles", slog.Any("error", err))
		return "Something went wrong."
	}
	for _, role := range roles {
		payloads = append(payloads, &task.RolePayload{
			GuildID: guildID,
			Op:      task.RoleOpDelete,
			RoleID:  role.DiscordID,
		})
	}

	// Queue everything first, then wait, so deletions run back to back.
	ids := make([]domain.RecordID, 0, len(payloads))
	for _, payload := range payloads {
		id, err := h.queue.Enqueue(ctx, payload)
		if err != nil {
			h.logger.Error("failed to queue deletion", slog.Any("error", err))
			return "Something went wrong."
		}
		ids = append(ids, id)
	}

	failed := 0
	for _, id := range ids {
		status, err := h.queue.WaitForCompletion(ctx, id)
		if err != nil {
			h.logger.Error("failed waiting for deletion", slog.Any("error", err))
			return "Something went wrong."
		}
		if status.State == task.StateError {
			failed++
			h.logger.Warn("deletion task failed",
				slog.String("task_id", id.String()),
				slog.String("message", status.Message))
		}
	}

	if failed > 0 {
		return fmt.Sprintf("Nuked the server! (%d of %d deletions failed)", failed, len(ids))
	}
	return "Nuked the server!"
}
