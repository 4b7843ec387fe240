package task

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// RoleOp selects the effect a RolePayload performs.
type RoleOp string

// Role operations.
const (
	RoleOpCreate   RoleOp = "create"
	RoleOpDelete   RoleOp = "delete"
	RoleOpAssign   RoleOp = "assign"
	RoleOpUnassign RoleOp = "unassign"
)

// RolePayload creates or deletes a guild role, or assigns/removes it on a
// member.
type RolePayload struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Op      RoleOp            `json:"op"`

	// Create fields.
	Name  string `json:"name,omitempty"`
	Color int    `json:"color,omitempty"`

	// RoleID names an existing role; delete/assign/unassign.
	RoleID domain.PlatformID `json:"role_id,omitempty"`

	// UserID is the member acted on; assign/unassign only.
	UserID domain.PlatformID `json:"user_id,omitempty"`
}

// PayloadKind implements Payload.
func (p *RolePayload) PayloadKind() Kind {
	return KindRole
}

// Handle implements Handler.
func (p *RolePayload) Handle(ctx context.Context, deps Deps) (Result, error) {
	switch p.Op {
	case RoleOpCreate:
		return p.handleCreate(ctx, deps)
	case RoleOpDelete:
		return p.handleDelete(ctx, deps)
	case RoleOpAssign:
		if err := deps.Platform.AddRoleToMember(ctx, p.GuildID, p.UserID, p.RoleID); err != nil {
			return Result{}, fmt.Errorf("failed to assign role %s to %s: %w", p.RoleID, p.UserID, err)
		}
		return NoneResult(), nil
	case RoleOpUnassign:
		if err := deps.Platform.RemoveRoleFromMember(ctx, p.GuildID, p.UserID, p.RoleID); err != nil {
			return Result{}, fmt.Errorf("failed to remove role %s from %s: %w", p.RoleID, p.UserID, err)
		}
		return NoneResult(), nil
	default:
		return Result{}, fmt.Errorf("unknown role op %q", p.Op)
	}
}

func (p *RolePayload) handleCreate(ctx context.Context, deps Deps) (Result, error) {
	guild, err := getOrCreateGuild(ctx, deps, p.GuildID)
	if err != nil {
		return Result{}, err
	}

	created, err := deps.Platform.CreateRole(ctx, p.GuildID, p.Name, p.Color)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create role %q: %w", p.Name, err)
	}

	row, err := deps.Games.InsertRole(ctx, domain.Role{
		DiscordID: created.ID,
		GuildID:   guild.ID,
		Name:      created.Name,
		Color:     p.Color,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to save role %q: %w", p.Name, err)
	}

	return RoleResult(row), nil
}

func (p *RolePayload) handleDelete(ctx context.Context, deps Deps) (Result, error) {
	if err := deps.Platform.DeleteRole(ctx, p.GuildID, p.RoleID); err != nil {
		return Result{}, fmt.Errorf("failed to delete role %s: %w", p.RoleID, err)
	}

	if err := deps.Games.DeleteRoleByDiscordID(ctx, p.RoleID); err != nil {
		return Result{}, fmt.Errorf("failed to delete role row %s: %w", p.RoleID, err)
	}

	return NoneResult(), nil
}
