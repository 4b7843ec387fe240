package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skirmish-bot/skirmish/internal/api"
	"github.com/skirmish-bot/skirmish/internal/bot"
	"github.com/skirmish-bot/skirmish/internal/component"
	"github.com/skirmish-bot/skirmish/internal/config"
	"github.com/skirmish-bot/skirmish/internal/domain"
	"github.com/skirmish-bot/skirmish/internal/platform/discord"
	"github.com/skirmish-bot/skirmish/internal/platform/logger"
	"github.com/skirmish-bot/skirmish/internal/platform/postgres"
	"github.com/skirmish-bot/skirmish/internal/task"
)

var selfTest bool

func init() {
	serveCmd.Flags().BoolVar(&selfTest, "self-test", false,
		"run live task round-trips against the configured test guild after startup")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot, task runner and ops server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	// Stores.
	taskStore := postgres.NewTaskStore(db)
	gameStore := postgres.NewGameStore(db)
	teamStore := postgres.NewTeamStore(db)
	components := component.NewStore(postgres.NewComponentStore(db), log)

	queue := task.NewQueue(taskStore,
		time.Duration(cfg.Runner.WaitPollIntervalMS)*time.Millisecond, log)

	// Gateway session.
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	handler := bot.NewHandler(queue, components, gameStore, teamStore, teamStore, log)
	handler.Register(session)

	if err := session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer func() { _ = session.Close() }()

	platform := discord.NewClient(session, log)
	runner := task.NewRunner(taskStore, task.Deps{Platform: platform, Games: gameStore},
		time.Duration(cfg.Runner.TickIntervalMS)*time.Millisecond, log)

	opsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewServer(db, taskStore, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("task runner starting",
			slog.Int("tick_interval_ms", cfg.Runner.TickIntervalMS))
		return runner.Run(groupCtx)
	})

	group.Go(func() error {
		log.Info("ops server listening", slog.Int("port", cfg.Server.Port))
		if err := opsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return opsServer.Shutdown(shutdownCtx)
	})

	if selfTest {
		group.Go(func() error {
			guildID, err := domain.ParsePlatformID(cfg.Discord.TestGuildID)
			if err != nil {
				return fmt.Errorf("self-test needs a valid test guild id: %w", err)
			}
			return bot.SelfTest(groupCtx, queue, guildID, log)
		})
	}

	log.Info("skirmish started")

	err = group.Wait()
	if errors.Is(err, context.Canceled) {
		log.Info("shutting down")
		return nil
	}
	return err
}
