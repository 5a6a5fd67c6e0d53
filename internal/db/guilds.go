package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

const guildColumns = `id, name, tag, description, leader_id, member_count, created_at`

// GetGuild loads one guild.
func GetGuild(ctx context.Context, q Querier, id string) (*models.Guild, error) {
	var g models.Guild
	err := q.QueryRowContext(ctx, `SELECT `+guildColumns+` FROM guilds WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &g.Tag, &g.Description, &g.LeaderID, &g.MemberCount, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GuildNameOrTagTaken checks the uniqueness constraints before a create.
func GuildNameOrTagTaken(ctx context.Context, q Querier, name, tag string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM guilds WHERE name = ? OR tag = ? LIMIT 1`, name, tag).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// InsertGuild creates a guild row.
func InsertGuild(ctx context.Context, q Querier, g models.Guild) error {
	log := logger.FromContext(ctx).WithPrefix("guild_repo")
	log.Debug("inserting guild: id=%s name=%s tag=%s", g.ID, g.Name, g.Tag)

	_, err := q.ExecContext(ctx, `
INSERT INTO guilds (id, name, tag, description, leader_id, member_count)
VALUES (?, ?, ?, ?, ?, ?)
`, g.ID, g.Name, g.Tag, g.Description, g.LeaderID, g.MemberCount)
	if err != nil {
		log.Error("failed to insert guild: %v", err)
	}
	return err
}

// UpdateGuildLeadership overwrites the leader and member count together: the
// two always change as a unit.
func UpdateGuildLeadership(ctx context.Context, q Querier, guildID, leaderID string, memberCount int) error {
	_, err := q.ExecContext(ctx, `UPDATE guilds SET leader_id = ?, member_count = ? WHERE id = ?`, leaderID, memberCount, guildID)
	return err
}

// DeleteGuild removes a guild; member rows cascade.
func DeleteGuild(ctx context.Context, q Querier, guildID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM guilds WHERE id = ?`, guildID)
	return err
}

// GetGuildMember loads one membership row, if present.
func GetGuildMember(ctx context.Context, q Querier, guildID, uid string) (*models.GuildMember, error) {
	var m models.GuildMember
	err := q.QueryRowContext(ctx, `
SELECT guild_id, uid, role, display_name, joined_at FROM guild_members WHERE guild_id = ? AND uid = ?
`, guildID, uid).Scan(&m.GuildID, &m.UID, &m.Role, &m.DisplayName, &m.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GuildMembers lists a guild's members ordered by join time, earliest first.
func GuildMembers(ctx context.Context, q Querier, guildID string) ([]models.GuildMember, error) {
	rows, err := q.QueryContext(ctx, `
SELECT guild_id, uid, role, display_name, joined_at FROM guild_members WHERE guild_id = ? ORDER BY joined_at ASC, uid ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.GuildMember
	for rows.Next() {
		var m models.GuildMember
		if err := rows.Scan(&m.GuildID, &m.UID, &m.Role, &m.DisplayName, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// InsertGuildMember adds a membership row.
func InsertGuildMember(ctx context.Context, q Querier, m models.GuildMember) error {
	_, err := q.ExecContext(ctx, `
INSERT INTO guild_members (guild_id, uid, role, display_name, joined_at) VALUES (?, ?, ?, ?, ?)
`, m.GuildID, m.UID, m.Role, m.DisplayName, m.JoinedAt)
	return err
}

// DeleteGuildMember removes a membership row.
func DeleteGuildMember(ctx context.Context, q Querier, guildID, uid string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM guild_members WHERE guild_id = ? AND uid = ?`, guildID, uid)
	return err
}

// UpdateGuildMemberRole changes one member's role.
func UpdateGuildMemberRole(ctx context.Context, q Querier, guildID, uid, role string) error {
	_, err := q.ExecContext(ctx, `UPDATE guild_members SET role = ? WHERE guild_id = ? AND uid = ?`, role, guildID, uid)
	return err
}

// CountGuildMembers returns |members| for the invariant check against
// guilds.member_count.
func CountGuildMembers(ctx context.Context, q Querier, guildID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM guild_members WHERE guild_id = ?`, guildID).Scan(&n)
	return n, err
}
