package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/store"
)

// ChannelOp selects the effect a ChannelPayload performs.
type ChannelOp string

// Channel operations.
const (
	ChannelOpCreate ChannelOp = "create"
	ChannelOpDelete ChannelOp = "delete"
)

// ChannelPayload creates or deletes a text or voice channel in a guild.
type ChannelPayload struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Op      ChannelOp         `json:"op"`

	// Create fields.
	Name string      `json:"name,omitempty"`
	Kind ChannelKind `json:"channel_kind,omitempty"`
	// ParentID optionally nests the channel under a category.
	ParentID domain.PlatformID `json:"parent_id,omitempty"`

	// ChannelID is the platform id of the channel to remove; delete only.
	ChannelID domain.PlatformID `json:"channel_id,omitempty"`
}

// PayloadKind implements Payload.
func (p *ChannelPayload) PayloadKind() Kind {
	return KindChannel
}

// Handle implements Handler.
func (p *ChannelPayload) Handle(ctx context.Context, deps Deps) (Result, error) {
	switch p.Op {
	case ChannelOpCreate:
		return p.handleCreate(ctx, deps)
	case ChannelOpDelete:
		return p.handleDelete(ctx, deps)
	default:
		return Result{}, fmt.Errorf("unknown channel op %q", p.Op)
	}
}

func (p *ChannelPayload) handleCreate(ctx context.Context, deps Deps) (Result, error) {
	guild, err := getOrCreateGuild(ctx, deps, p.GuildID)
	if err != nil {
		return Result{}, err
	}

	kind := p.Kind
	if kind == "" {
		kind = ChannelKindText
	}

	// Resolve the parent's mirror row so the nesting survives in the
	// database. A parent the bot never created leaves the row unnested.
	var categoryID domain.RecordID
	if !p.ParentID.IsZero() {
		category, err := deps.Games.GetCategoryByDiscordID(ctx, p.ParentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return Result{}, fmt.Errorf("failed to resolve parent category %s: %w", p.ParentID, err)
		}
		categoryID = category.ID
	}

	created, err := deps.Platform.CreateChannel(ctx, p.GuildID, p.Name, kind, p.ParentID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create channel %q: %w", p.Name, err)
	}

	row, err := deps.Games.InsertChannel(ctx, domain.Channel{
		DiscordID:  created.ID,
		GuildID:    guild.ID,
		CategoryID: categoryID,
		Name:       created.Name,
		Kind:       string(kind),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to save channel %q: %w", p.Name, err)
	}

	return ChannelResult(row), nil
}

func (p *ChannelPayload) handleDelete(ctx context.Context, deps Deps) (Result, error) {
	if err := deps.Platform.DeleteChannel(ctx, p.ChannelID); err != nil {
		return Result{}, fmt.Errorf("failed to delete channel %s: %w", p.ChannelID, err)
	}

	if err := deps.Games.DeleteChannelByDiscordID(ctx, p.ChannelID); err != nil {
		return Result{}, fmt.Errorf("failed to delete channel row %s: %w", p.ChannelID, err)
	}

	return NoneResult(), nil
}
