package task

import (
	"context"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// ChannelKind selects the flavor of channel a ChannelPayload creates.
type ChannelKind string

// Supported channel kinds. Categories are their own payload family.
const (
	ChannelKindText  ChannelKind = "text"
	ChannelKindVoice ChannelKind = "voice"
)

// PlatformChannel is the platform's view of a created channel or category.
type PlatformChannel struct {
	ID   domain.PlatformID
	Name string
}

// PlatformRole is the platform's view of a created role.
type PlatformRole struct {
	ID   domain.PlatformID
	Name string
}

// Button is a clickable message component. CustomID carries the opaque key
// generated by the deferred component payload store.
type Button struct {
	Label    string `json:"label"`
	CustomID string `json:"custom_id"`
}

// SelectOption is one entry of a select menu.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SelectMenu is a dropdown message component. CustomID carries the opaque
// key generated by the deferred component payload store.
type SelectMenu struct {
	CustomID    string         `json:"custom_id"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []SelectOption `json:"options"`
}

// PlatformClient is the chat-platform collaborator the handlers perform
// their effects against. All calls are fallible, possibly-slow remote calls.
type PlatformClient interface {
	CreateCategory(ctx context.Context, guildID domain.PlatformID, name string) (PlatformChannel, error)
	CreateChannel(ctx context.Context, guildID domain.PlatformID, name string, kind ChannelKind, parentID domain.PlatformID) (PlatformChannel, error)
	DeleteChannel(ctx context.Context, channelID domain.PlatformID) error

	CreateRole(ctx context.Context, guildID domain.PlatformID, name string, color int) (PlatformRole, error)
	DeleteRole(ctx context.Context, guildID, roleID domain.PlatformID) error
	AddRoleToMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error
	RemoveRoleFromMember(ctx context.Context, guildID, userID, roleID domain.PlatformID) error

	SendChannelMessage(ctx context.Context, channelID domain.PlatformID, content string, buttons []Button, menu *SelectMenu) (domain.PlatformID, error)
	SendDirectMessage(ctx context.Context, userID domain.PlatformID, content string) (domain.PlatformID, error)

	CreateThread(ctx context.Context, channelID domain.PlatformID, name string) (PlatformChannel, error)
	DeleteThread(ctx context.Context, threadID domain.PlatformID) error

	GuildName(ctx context.Context, guildID domain.PlatformID) (string, error)
}

// GameStore is the slice of the relational store the handlers need: the
// guild read model plus the rows mirroring platform entities the bot created.
type GameStore interface {
	// GetOrCreateGuild returns the guild row for a platform guild,
	// creating it on first contact.
	GetOrCreateGuild(ctx context.Context, discordID domain.PlatformID, name string) (domain.Guild, error)

	InsertCategory(ctx context.Context, c domain.Category) (domain.Category, error)
	// GetCategoryByDiscordID resolves a mirrored category row by its
	// platform id. Returns store.ErrNotFound when the bot never created it.
	GetCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) (domain.Category, error)
	DeleteCategoryByDiscordID(ctx context.Context, discordID domain.PlatformID) error
	ListCategories(ctx context.Context, guildID domain.RecordID) ([]domain.Category, error)

	InsertChannel(ctx context.Context, c domain.Channel) (domain.Channel, error)
	DeleteChannelByDiscordID(ctx context.Context, discordID domain.PlatformID) error
	ListChannels(ctx context.Context, guildID domain.RecordID) ([]domain.Channel, error)

	InsertRole(ctx context.Context, r domain.Role) (domain.Role, error)
	DeleteRoleByDiscordID(ctx context.Context, discordID domain.PlatformID) error
	ListRoles(ctx context.Context, guildID domain.RecordID) ([]domain.Role, error)
}

// Deps bundles the external collaborators a handler executes against. A
// fresh Deps value is passed into every Handle call; handlers hold no state
// of their own beyond the payload fields.
type Deps struct {
	Platform PlatformClient
	Games    GameStore
}

// Handler executes one payload against the collaborators and returns a typed
// result. Implementations perform at most one platform mutation per
// invocation so each task stays atomic and independently retryable.
type Handler interface {
	Handle(ctx context.Context, deps Deps) (Result, error)
}
