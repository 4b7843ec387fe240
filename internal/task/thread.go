package task

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// ThreadOp selects the effect a ThreadPayload performs.
type ThreadOp string

// Thread operations.
const (
	ThreadOpCreate ThreadOp = "create"
	ThreadOpDelete ThreadOp = "delete"
)

// ThreadPayload creates or deletes a thread under an existing channel.
type ThreadPayload struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Op      ThreadOp          `json:"op"`

	// Create fields.
	ChannelID domain.PlatformID `json:"channel_id,omitempty"`
	Name      string            `json:"name,omitempty"`

	// ThreadID is the thread to remove; delete only.
	ThreadID domain.PlatformID `json:"thread_id,omitempty"`
}

// PayloadKind implements Payload.
func (p *ThreadPayload) PayloadKind() Kind {
	return KindThread
}

// Handle implements Handler.
func (p *ThreadPayload) Handle(ctx context.Context, deps Deps) (Result, error) {
	switch p.Op {
	case ThreadOpCreate:
		if _, err := deps.Platform.CreateThread(ctx, p.ChannelID, p.Name); err != nil {
			return Result{}, fmt.Errorf("failed to create thread %q: %w", p.Name, err)
		}
		return NoneResult(), nil
	case ThreadOpDelete:
		if err := deps.Platform.DeleteThread(ctx, p.ThreadID); err != nil {
			return Result{}, fmt.Errorf("failed to delete thread %s: %w", p.ThreadID, err)
		}
		return NoneResult(), nil
	default:
		return Result{}, fmt.Errorf("unknown thread op %q", p.Op)
	}
}
