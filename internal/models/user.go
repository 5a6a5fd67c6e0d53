package models

import "time"

// User is a player profile. Mana and moon shards are the two currencies:
// mana is spent on spells inside game sessions, moon shards in the shop.
type User struct {
	UID             string    `json:"uid"`
	Pseudo          string    `json:"pseudo"`
	Email           string    `json:"email"`
	Mana            int       `json:"mana"`
	ManaMax         int       `json:"mana_max"`
	MoonShards      int       `json:"moon_shards"`
	TotalExperience int       `json:"total_experience"`
	WizardLevel     int       `json:"wizard_level"`
	GuildID         string    `json:"guild_id,omitempty"`
	CurrentStreak   int       `json:"current_streak"`
	LastStreakAt    *time.Time `json:"last_streak_at,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session maps an opaque bearer token to a user. Identity verification proper
// is delegated to the identity provider; sessions only carry the resolved uid.
type Session struct {
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}
