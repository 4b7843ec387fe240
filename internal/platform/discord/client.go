// Package discord implements the platform collaborator over a discordgo
// session. Contexts are forwarded to the Discord REST layer through request
// options.
package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// Client implements task.PlatformClient over a discordgo session.
type Client struct {
	session *discordgo.Session
	logger  *slog.Logger
}

var _ task.PlatformClient = (*Client)(nil)

// NewClient creates a Client over an opened session. If logger is nil, the
// default logger is used.
func NewClient(session *discordgo.Session, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		session: session,
		logger:  logger.With(slog.String("component", "discord_client")),
	}
}

// CreateCategory implements task.PlatformClient.
func (c *Client) CreateCategory(ctx context.Context, guildID domain.PlatformID, name string) (task.PlatformChannel, error) {
	created, err := c.session.GuildChannelCreateComplex(guildID.String(), discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return task.PlatformChannel{}, fmt.Errorf("failed to create category %q: %w", name, err)
	}
	return platformChannel(created)
}

// CreateChannel implements task.PlatformClient.
func (c *Client) CreateChannel(ctx context.Context, guildID domain.PlatformID, name string, kind task.ChannelKind, parentID domain.PlatformID) (task.PlatformChannel, error) {
	channelType := discordgo.ChannelTypeGuildText
	if kind == task.ChannelKindVoice {
		channelType = discordgo.ChannelTypeGuildVoice
	}

	data := discordgo.GuildChannelCreateData{
		Name: name,
		Type: channelType,
	}
	if !parentID.IsZero() {
		data.ParentID = parentID.String()
	}

	created, err := c.session.GuildChannelCreateComplex(guildID.String(), data, discordgo.WithContext(ctx))
	if err != nil {
		return task.PlatformChannel{}, fmt.Errorf("failed to create %s channel %q: %w", kind, name, err)
	}
	return platformChannel(created)
}

// DeleteChannel implements task.PlatformClient. Categories and threads are
// channels to Discord, so this covers all three.
func (c *Client) DeleteChannel(ctx context.Context, channelID domain.PlatformID) error {
	if _, err := c.session.ChannelDelete(channelID.String(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete channel %s: %w", channelID, err)
	}
	return nil
}

// CreateRole implements task.PlatformClient.
func (c *Client) CreateRole(ctx context.Context, guildID domain.PlatformID, name string, color int) (task.PlatformRole, error) {
	created, err := c.session.GuildRoleCreate(guildID.String(), &discordgo.RoleParams{
		Name:  name,
		Color: &color,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return task.PlatformRole{}, fmt.Errorf("failed to create role %q: %w", name, err)
	}

	id, err := domain.ParsePlatformID(created.ID)
	if err != nil {
		return task.PlatformRole{}, fmt.Errorf("unparseable role id %q: %w", created.ID, err)
	}
	return task.PlatformRole{ID: id, Name: created.Name}, nil
}

// DeleteRole implements task.PlatformClient.
func (c *Client) DeleteRole(ctx context.Context, guildID, roleID domain.PlatformID) error {
	if err := c.session.GuildRoleDelete(guildID.String(), roleID.String(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleID, err)
	}
	return nil
}

// AddRoleToMember implements task.PlatformClient.
func (c *Client) AddRoleToMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error {
	if err := c.session.GuildMemberRoleAdd(guildID.String(), userID.String(), roleID.String(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %s to member %s: %w", roleID, userID, err)
	}
	return nil
}

// RemoveRoleFromMember implements task.PlatformClient.
func (c *Client) RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error {
	if err := c.session.GuildMemberRoleRemove(guildID.String(), userID.String(), roleID.String(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to remove role %s from member %s: %w", roleID, userID, err)
	}
	return nil
}

// SendChannelMessage implements task.PlatformClient.
func (c *Client) SendChannelMessage(ctx context.Context, channelID domain.PlatformID, content string, buttons []task.Button, menu *task.SelectMenu) (domain.PlatformID, error) {
	send := &discordgo.MessageSend{
		Content:    content,
		Components: messageComponents(buttons, menu),
	}

	sent, err := c.session.ChannelMessageSendComplex(channelID.String(), send, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}

	id, err := domain.ParsePlatformID(sent.ID)
	if err != nil {
		return 0, fmt.Errorf("unparseable message id %q: %w", sent.ID, err)
	}
	return id, nil
}

// SendDirectMessage implements task.PlatformClient.
func (c *Client) SendDirectMessage(ctx context.Context, userID domain.PlatformID, content string) (domain.PlatformID, error) {
	dm, err := c.session.UserChannelCreate(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to open DM channel to %s: %w", userID, err)
	}

	sent, err := c.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to send DM to %s: %w", userID, err)
	}

	id, err := domain.ParsePlatformID(sent.ID)
	if err != nil {
		return 0, fmt.Errorf("unparseable message id %q: %w", sent.ID, err)
	}
	return id, nil
}

// CreateThread implements task.PlatformClient.
func (c *Client) CreateThread(ctx context.Context, channelID domain.PlatformID, name string) (task.PlatformChannel, error) {
	created, err := c.session.ThreadStartComplex(channelID.String(), &discordgo.ThreadStart{
		Name:                name,
		Type:                discordgo.ChannelTypeGuildPublicThread,
		AutoArchiveDuration: 60,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return task.PlatformChannel{}, fmt.Errorf("failed to start thread %q: %w", name, err)
	}
	return platformChannel(created)
}

// DeleteThread implements task.PlatformClient.
func (c *Client) DeleteThread(ctx context.Context, threadID domain.PlatformID) error {
	return c.DeleteChannel(ctx, threadID)
}

// GuildName implements task.PlatformClient. The gateway state cache usually
// answers without a REST call.
func (c *Client) GuildName(ctx context.Context, guildID domain.PlatformID) (string, error) {
	if guild, err := c.session.State.Guild(guildID.String()); err == nil {
		return guild.Name, nil
	}
	c.logger.DebugContext(ctx, "guild not in state cache, fetching", slog.String("guild_id", guildID.String()))

	guild, err := c.session.Guild(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch guild %s: %w", guildID, err)
	}
	return guild.Name, nil
}

func platformChannel(ch *discordgo.Channel) (task.PlatformChannel, error) {
	id, err := domain.ParsePlatformID(ch.ID)
	if err != nil {
		return task.PlatformChannel{}, fmt.Errorf("unparseable channel id %q: %w", ch.ID, err)
	}
	return task.PlatformChannel{ID: id, Name: ch.Name}, nil
}

// messageComponents assembles the component rows for a message: one row of
// buttons, one row for the select menu.
func messageComponents(buttons []task.Button, menu *task.SelectMenu) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent

	if len(buttons) > 0 {
		row := discordgo.ActionsRow{}
		for _, b := range buttons {
			row.Components = append(row.Components, discordgo.Button{
				Label:    b.Label,
				Style:    discordgo.PrimaryButton,
				CustomID: b.CustomID,
			})
		}
		rows = append(rows, row)
	}

	if menu != nil {
		options := make([]discordgo.SelectMenuOption, 0, len(menu.Options))
		for _, opt := range menu.Options {
			options = append(options, discordgo.SelectMenuOption{
				Label: opt.Label,
				Value: opt.Value,
			})
		}
		rows = append(rows, discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    menu.CustomID,
					Placeholder: menu.Placeholder,
					Options:     options,
				},
			},
		})
	}

	return rows
}
