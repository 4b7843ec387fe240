package domain

import "time"

// Guild mirrors a Discord guild the bot is installed in. The row is created
// lazily the first time a task touches the guild.
type Guild struct {
	ID        RecordID   `json:"id"`
	DiscordID PlatformID `json:"discord_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// Category mirrors a Discord channel category created by the bot.
type Category struct {
	ID        RecordID   `json:"id"`
	DiscordID PlatformID `json:"discord_id"`
	GuildID   RecordID   `json:"guild_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}

// Channel mirrors a Discord text or voice channel created by the bot.
type Channel struct {
	ID         RecordID   `json:"id"`
	DiscordID  PlatformID `json:"discord_id"`
	GuildID    RecordID   `json:"guild_id"`
	CategoryID RecordID   `json:"category_id,omitempty"`
	Name       string     `json:"name"`
	Kind       string     `json:"kind"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Role mirrors a Discord role created by the bot.
type Role struct {
	ID        RecordID   `json:"id"`
	DiscordID PlatformID `json:"discord_id"`
	GuildID   RecordID   `json:"guild_id"`
	Name      string     `json:"name"`
	Color     int        `json:"color"`
	CreatedAt time.Time  `json:"created_at"`
}
