package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables, applies defaults and
// validates the result. Environment variables use the SKIRMISH_ prefix with
// underscores separating nested keys (e.g. SKIRMISH_SERVER_PORT), except the
// bot token which is read from the conventional DISCORD_TOKEN variable.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for everything that has a sensible one. The database URL,
	// token and application id have no defaults and must be provided.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("runner.tick_interval_ms", 100)
	v.SetDefault("runner.wait_poll_interval_ms", 500)

	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The token deliberately bypasses the prefix: DISCORD_TOKEN is what
	// every hosting guide and the Discord developer portal call it.
	if err := v.BindEnv("discord.token", "DISCORD_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind DISCORD_TOKEN: %w", err)
	}

	// Explicit binds so AutomaticEnv sees nested keys that were never
	// touched through SetDefault.
	for _, key := range []string{
		"database.url",
		"discord.application_id",
		"discord.test_guild_id",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
