package task

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// CategoryOp selects the effect a CategoryPayload performs.
type CategoryOp string

// Category operations.
const (
	CategoryOpCreate CategoryOp = "create"
	CategoryOpDelete CategoryOp = "delete"
)

// CategoryPayload creates or deletes a channel category in a guild.
type CategoryPayload struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Op      CategoryOp        `json:"op"`

	// Name is the category name; create only.
	Name string `json:"name,omitempty"`

	// CategoryID is the platform id of the category to remove; delete only.
	CategoryID domain.PlatformID `json:"category_id,omitempty"`
}

// PayloadKind implements Payload.
func (p *CategoryPayload) PayloadKind() Kind {
	return KindCategory
}

// Handle implements Handler.
func (p *CategoryPayload) Handle(ctx context.Context, deps Deps) (Result, error) {
	switch p.Op {
	case CategoryOpCreate:
		return p.handleCreate(ctx, deps)
	case CategoryOpDelete:
		return p.handleDelete(ctx, deps)
	default:
		return Result{}, fmt.Errorf("unknown category op %q", p.Op)
	}
}

func (p *CategoryPayload) handleCreate(ctx context.Context, deps Deps) (Result, error) {
	guild, err := getOrCreateGuild(ctx, deps, p.GuildID)
	if err != nil {
		return Result{}, err
	}

	created, err := deps.Platform.CreateCategory(ctx, p.GuildID, p.Name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create category %q: %w", p.Name, err)
	}

	row, err := deps.Games.InsertCategory(ctx, domain.Category{
		DiscordID: created.ID,
		GuildID:   guild.ID,
		Name:      created.Name,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to save category %q: %w", p.Name, err)
	}

	return CategoryResult(row), nil
}

func (p *CategoryPayload) handleDelete(ctx context.Context, deps Deps) (Result, error) {
	if err := deps.Platform.DeleteChannel(ctx, p.CategoryID); err != nil {
		return Result{}, fmt.Errorf("failed to delete category %s: %w", p.CategoryID, err)
	}

	if err := deps.Games.DeleteCategoryByDiscordID(ctx, p.CategoryID); err != nil {
		return Result{}, fmt.Errorf("failed to delete category row %s: %w", p.CategoryID, err)
	}

	return NoneResult(), nil
}

// getOrCreateGuild resolves the guild row tasks hang their records off,
// creating it the first time any task touches the guild.
func getOrCreateGuild(ctx context.Context, deps Deps, guildID domain.PlatformID) (domain.Guild, error) {
	name, err := deps.Platform.GuildName(ctx, guildID)
	if err != nil {
		return domain.Guild{}, fmt.Errorf("failed to look up guild %s: %w", guildID, err)
	}

	guild, err := deps.Games.GetOrCreateGuild(ctx, guildID, name)
	if err != nil {
		return domain.Guild{}, fmt.Errorf("failed to resolve guild row for %s: %w", guildID, err)
	}
	return guild, nil
}
