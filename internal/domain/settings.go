package domain

// GuildSettings holds per-community review configuration. WelcomeTemplate, if
// set, overrides the default welcome layout; tokens like {user} and {server}
// are substituted at render time.
type GuildSettings struct {
	GuildID          string  `json:"guild_id"`
	GuildName        string  `json:"guild_name"`
	WelcomeChannelID *string `json:"welcome_channel_id,omitempty"`
	WelcomeTemplate  *string `json:"welcome_template,omitempty"`
}
