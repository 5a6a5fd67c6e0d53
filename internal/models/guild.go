package models

import "time"

// Guild roles.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// Guild is a social group. MemberCount mirrors the number of GuildMember rows
// and must stay equal to it after every mutation.
type Guild struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tag         string    `json:"tag"`
	Description string    `json:"description"`
	LeaderID    string    `json:"leader_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// GuildMember is one user's membership. A user belongs to at most one guild;
// User.GuildID mirrors this row and inconsistencies trigger repair writes.
type GuildMember struct {
	GuildID     string    `json:"guild_id"`
	UID         string    `json:"uid"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}
