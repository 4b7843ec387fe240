package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Discord  DiscordConfig  `mapstructure:"discord" validate:"required"`
	Runner   RunnerConfig   `mapstructure:"runner" validate:"required"`
}

// ServerConfig contains the ops HTTP server and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// DiscordConfig contains the gateway credentials and the application
// identity registered with Discord.
type DiscordConfig struct {
	// Token is the bot token. It is read from the conventional
	// DISCORD_TOKEN environment variable rather than the SKIRMISH_ prefix.
	Token string `mapstructure:"token" validate:"required"`

	// ApplicationID is the Discord application the slash commands are
	// registered under.
	ApplicationID string `mapstructure:"application_id" validate:"required"`

	// TestGuildID optionally names the guild the self-test suite runs
	// against. Required only when self-test mode is enabled.
	TestGuildID string `mapstructure:"test_guild_id"`
}

// RunnerConfig contains the task runner loop settings.
type RunnerConfig struct {
	// TickIntervalMS is how long the runner sleeps between polls for
	// pending tasks.
	TickIntervalMS int `mapstructure:"tick_interval_ms" validate:"required,gt=0"`

	// WaitPollIntervalMS is how often a blocked EnqueueAndWait caller
	// re-reads the task status.
	WaitPollIntervalMS int `mapstructure:"wait_poll_interval_ms" validate:"required,gt=0"`
}
