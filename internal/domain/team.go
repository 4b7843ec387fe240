package domain

import "time"

// Team is a game entity: a named crew with its own role, category and
// channels on the platform side.
type Team struct {
	ID         RecordID   `json:"id"`
	GuildID    RecordID   `json:"guild_id"`
	Name       string     `json:"name"`
	RoleID     PlatformID `json:"role_id"`
	CategoryID PlatformID `json:"category_id"`
	ChannelID  PlatformID `json:"channel_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Player links a Discord user to the game, optionally as a member of a team.
type Player struct {
	ID        RecordID   `json:"id"`
	DiscordID PlatformID `json:"discord_id"`
	GuildID   RecordID   `json:"guild_id"`
	TeamID    RecordID   `json:"team_id,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
}
