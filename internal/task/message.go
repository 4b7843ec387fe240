package task

import (
	"context"
	"fmt"

	"github.com/skirmish-bot/skirmish/internal/domain"
)

// MessageOp selects the effect a MessagePayload performs.
type MessageOp string

// Message operations.
const (
	MessageOpSendChannel MessageOp = "send_channel"
	MessageOpSendDirect  MessageOp = "send_direct"
)

// MessagePayload sends a message to a channel, optionally carrying UI
// components, or direct-messages a user.
type MessagePayload struct {
	GuildID domain.PlatformID `json:"guild_id"`
	Op      MessageOp         `json:"op"`

	Content string `json:"content"`

	// ChannelID is the destination; send_channel only.
	ChannelID domain.PlatformID `json:"channel_id,omitempty"`

	// UserID is the recipient; send_direct only.
	UserID domain.PlatformID `json:"user_id,omitempty"`

	// Components attached to a channel message. The custom ids reference
	// deferred component payloads, never inline data.
	Buttons []Button    `json:"buttons,omitempty"`
	Menu    *SelectMenu `json:"menu,omitempty"`
}

// PayloadKind implements Payload.
func (p *MessagePayload) PayloadKind() Kind {
	return KindMessage
}

// Handle implements Handler.
func (p *MessagePayload) Handle(ctx context.Context, deps Deps) (Result, error) {
	switch p.Op {
	case MessageOpSendChannel:
		id, err := deps.Platform.SendChannelMessage(ctx, p.ChannelID, p.Content, p.Buttons, p.Menu)
		if err != nil {
			return Result{}, fmt.Errorf("failed to send message to channel %s: %w", p.ChannelID, err)
		}
		return MessageResult(id), nil
	case MessageOpSendDirect:
		id, err := deps.Platform.SendDirectMessage(ctx, p.UserID, p.Content)
		if err != nil {
			return Result{}, fmt.Errorf("failed to message user %s: %w", p.UserID, err)
		}
		return MessageResult(id), nil
	default:
		return Result{}, fmt.Errorf("unknown message op %q", p.Op)
	}
}
