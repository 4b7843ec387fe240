// Package bot is the gateway surface: slash command registration and
// dispatch, plus activation of deferred message components.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/skirmish-bot/skirmish/internal/component"
	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/mechanic"
	"github.com/skirmish-bot/skirmish/internal/store"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// Handler owns the discordgo callbacks. Every event arrives on its own
// goroutine; the handler only composes replies and hands real work to the
// queue and mechanics.
type Handler struct {
	queue      *task.Queue
	components *component.Store
	games      task.GameStore
	teams      mechanic.TeamStore
	players    mechanic.PlayerStore
	logger     *slog.Logger
}

// NewHandler creates a Handler. If logger is nil, the default logger is used.
func NewHandler(
	queue *task.Queue,
	components *component.Store,
	games task.GameStore,
	teams mechanic.TeamStore,
	players mechanic.PlayerStore,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		queue:      queue,
		components: components,
		games:      games,
		teams:      teams,
		players:    players,
		logger:     logger.With(slog.String("component", "bot_handler")),
	}
}

// Register attaches the gateway callbacks to the session. Call before Open.
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onReady)
	session.AddHandler(h.onInteractionCreate)
}

// onReady registers the slash commands in every guild the bot is in.
func (h *Handler) onReady(s *discordgo.Session, ready *discordgo.Ready) {
	h.logger.Info("gateway session ready",
		slog.String("username", ready.User.Username),
		slog.Int("guilds", len(ready.Guilds)))

	for _, guild := range ready.Guilds {
		if _, err := s.ApplicationCommandBulkOverwrite(ready.Application.ID, guild.ID, commandDefinitions()); err != nil {
			h.logger.Error("failed to register commands",
				slog.String("guild_id", guild.ID),
				slog.Any("error", err))
		}
	}
}

// onInteractionCreate dispatches slash commands and component activations.
func (h *Handler) onInteractionCreate(s *discordgo.Session, interaction *discordgo.InteractionCreate) {
	ctx := context.Background()

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(ctx, s, interaction)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(ctx, s, interaction)
	}
}

func (h *Handler) handleCommand(ctx context.Context, s *discordgo.Session, interaction *discordgo.InteractionCreate) {
	name := interaction.ApplicationCommandData().Name
	log := h.logger.With(slog.String("command", name))

	guildID, err := domain.ParsePlatformID(interaction.GuildID)
	if err != nil {
		log.Error("command outside a guild", slog.Any("error", err))
		h.respond(s, interaction, "This command only works in a server.")
		return
	}

	// Ack immediately; command work runs through the queue and can outlive
	// the three second interaction deadline.
	if err := s.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Error("failed to defer interaction", slog.Any("error", err))
		return
	}

	var reply string
	switch name {
	case commandTrade:
		reply = h.runTrade(ctx, guildID)
	case commandInitialize:
		reply = h.runInitialize(ctx, interaction, guildID)
	case commandReset:
		reply = h.runReset(ctx, s, guildID)
	default:
		reply = fmt.Sprintf("Unknown command %q.", name)
	}

	if _, err := s.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Content: reply,
	}); err != nil {
		log.Error("failed to send command reply", slog.Any("error", err))
	}
}

// handleComponent resolves the activated control's key and runs whatever was
// deferred behind it. Stored payloads are retained, so shared controls keep
// working across activations.
func (h *Handler) handleComponent(ctx context.Context, s *discordgo.Session, interaction *discordgo.InteractionCreate) {
	data := interaction.MessageComponentData()

	// Select menus carry the chosen payload key in the option value; the
	// menu's own custom id is an inert key.
	rawKey := data.CustomID
	if len(data.Values) > 0 {
		rawKey = data.Values[0]
	}

	key, err := uuid.Parse(rawKey)
	if err != nil {
		h.logger.Warn("component with unparseable key", slog.String("custom_id", rawKey))
		h.respond(s, interaction, "This control is no longer valid.")
		return
	}

	log := h.logger.With(slog.String("component_key", key.String()))

	payload, err := h.components.Lookup(ctx, key)
	if err != nil {
		if store.IsNotFoundError(err) {
			h.respond(s, interaction, "This control is no longer valid.")
			return
		}
		log.Error("failed to resolve component payload", slog.Any("error", err))
		h.respond(s, interaction, "Something went wrong.")
		return
	}
	if payload == nil {
		h.respond(s, interaction, "That interaction is empty!")
		return
	}

	if err := s.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Error("failed to defer interaction", slog.Any("error", err))
		return
	}

	var reply string
	switch payload.Kind() {
	case component.KindTask:
		reply = h.activateTask(ctx, log, payload.Task)
	case component.KindMechanic:
		reply = h.activateMechanic(ctx, log, payload.Mechanic, interaction)
	}

	if _, err := s.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Content: reply,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		log.Error("failed to send component reply", slog.Any("error", err))
	}
}

func (h *Handler) activateTask(ctx context.Context, log *slog.Logger, payload task.Payload) string {
	status, err := h.queue.EnqueueAndWait(ctx, payload)
	if err != nil {
		log.Error("failed to run component task", slog.Any("error", err))
		return "Something went wrong."
	}
	if status.State == task.StateError {
		log.Warn("component task failed", slog.String("message", status.Message))
		return "That didn't work: " + status.Message
	}
	return "Done!"
}

func (h *Handler) activateMechanic(ctx context.Context, log *slog.Logger, inv mechanic.Invocation, interaction *discordgo.InteractionCreate) string {
	deps := mechanic.Deps{
		Queue:       h.queue,
		Components:  h.components,
		Teams:       h.teams,
		Players:     h.players,
		Interaction: interaction,
	}
	if err := inv.Handle(ctx, deps); err != nil {
		log.Error("component mechanic failed", slog.Any("error", err))
		return "That didn't work: " + err.Error()
	}
	return "Done!"
}

// respond sends an immediate ephemeral reply. Used for the paths that never
// reach the deferred flow.
func (h *Handler) respond(s *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("failed to respond to interaction", slog.Any("error", err))
	}
}
