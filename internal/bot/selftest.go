package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/task"
)

// SelfTest pushes one live round-trip per task family through the queue
// against the test guild: create something, then delete it again. It needs a
// running runner and an open gateway session, and it leaves the guild the
// way it found it.
func SelfTest(ctx context.Context, queue *task.Queue, guildID domain.PlatformID, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "self_test"))

	run := func(name string, p task.Payload) (task.Result, error) {
		log.Info("self-test step", slog.String("step", name))
		status, err := queue.EnqueueAndWait(ctx, p)
		if err != nil {
			return task.Result{}, fmt.Errorf("self-test %s: %w", name, err)
		}
		if status.State != task.StateCompleted {
			return task.Result{}, fmt.Errorf("self-test %s: task failed: %s", name, status.Message)
		}
		if status.Result == nil {
			return task.NoneResult(), nil
		}
		return *status.Result, nil
	}

	categoryResult, err := run("create category", &task.CategoryPayload{
		GuildID: guildID, Op: task.CategoryOpCreate, Name: "self-test",
	})
	if err != nil {
		return err
	}

	channelResult, err := run("create channel", &task.ChannelPayload{
		GuildID:  guildID,
		Op:       task.ChannelOpCreate,
		Name:     "self-test",
		Kind:     task.ChannelKindText,
		ParentID: categoryResult.Category.DiscordID,
	})
	if err != nil {
		return err
	}

	if _, err := run("send message", &task.MessagePayload{
		GuildID:   guildID,
		Op:        task.MessageOpSendChannel,
		ChannelID: channelResult.Channel.DiscordID,
		Content:   "self-test: hello from the task runner",
	}); err != nil {
		return err
	}

	roleResult, err := run("create role", &task.RolePayload{
		GuildID: guildID, Op: task.RoleOpCreate, Name: "self-test", Color: 0x95A5A6,
	})
	if err != nil {
		return err
	}

	if _, err := run("delete role", &task.RolePayload{
		GuildID: guildID, Op: task.RoleOpDelete, RoleID: roleResult.Role.DiscordID,
	}); err != nil {
		return err
	}

	if _, err := run("delete channel", &task.ChannelPayload{
		GuildID: guildID, Op: task.ChannelOpDelete, ChannelID: channelResult.Channel.DiscordID,
	}); err != nil {
		return err
	}

	if _, err := run("delete category", &task.CategoryPayload{
		GuildID: guildID, Op: task.CategoryOpDelete, CategoryID: categoryResult.Category.DiscordID,
	}); err != nil {
		return err
	}

	log.Info("self-test passed")
	return nil
}
