package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var lastStreak sql.NullTime
	err := row.Scan(&u.UID, &u.Pseudo, &u.Email, &u.Mana, &u.ManaMax, &u.MoonShards,
		&u.TotalExperience, &u.WizardLevel, &u.GuildID, &u.CurrentStreak, &lastStreak, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastStreak.Valid {
		t := lastStreak.Time
		u.LastStreakAt = &t
	}
	return &u, nil
}

const userColumns = `uid, pseudo, email, mana, mana_max, moon_shards, total_experience, wizard_level, guild_id, current_streak, last_streak_at, created_at`

// GetUser loads one user profile.
func GetUser(ctx context.Context, q Querier, uid string) (*models.User, error) {
	return scanUser(q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = ?`, uid))
}

// InsertUser creates a user profile.
func InsertUser(ctx context.Context, q Querier, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: uid=%s pseudo=%s", u.UID, u.Pseudo)

	_, err := q.ExecContext(ctx, `
INSERT INTO users (uid, pseudo, email, mana, mana_max, moon_shards, total_experience, wizard_level, guild_id, current_streak)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, u.UID, u.Pseudo, u.Email, u.Mana, u.ManaMax, u.MoonShards, u.TotalExperience, u.WizardLevel, u.GuildID, u.CurrentStreak)
	if err != nil {
		log.Error("failed to insert user: %v", err)
	}
	return err
}

// UpdateUserPseudo renames a user.
func UpdateUserPseudo(ctx context.Context, q Querier, uid, pseudo string) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET pseudo = ? WHERE uid = ?`, pseudo, uid)
	return err
}

// UpdateUserCurrency overwrites a user's full currency state. Callers compute
// the new balances from rows read in the same transaction.
func UpdateUserCurrency(ctx context.Context, q Querier, uid string, mana, moonShards int) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET mana = ?, moon_shards = ? WHERE uid = ?`, mana, moonShards, uid)
	return err
}

// UpdateUserExperience overwrites the aggregated experience fields.
func UpdateUserExperience(ctx context.Context, q Querier, uid string, totalXP, wizardLevel int) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET total_experience = ?, wizard_level = ? WHERE uid = ?`, totalXP, wizardLevel, uid)
	return err
}

// UpdateUserGuild overwrites the guild back-reference ('' when guildless).
func UpdateUserGuild(ctx context.Context, q Querier, uid, guildID string) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET guild_id = ? WHERE uid = ?`, guildID, uid)
	return err
}

// UpdateUserStreak overwrites the daily streak state.
func UpdateUserStreak(ctx context.Context, q Querier, uid string, streak int, at time.Time) error {
	_, err := q.ExecContext(ctx, `UPDATE users SET current_streak = ?, last_streak_at = ? WHERE uid = ?`, streak, at, uid)
	return err
}

// InsertSession stores a bearer token for a user.
func InsertSession(ctx context.Context, q Querier, token, uid string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO sessions (token, uid) VALUES (?, ?)`, token, uid)
	return err
}

// UserIDForToken resolves a bearer token to a uid.
func UserIDForToken(ctx context.Context, q Querier, token string) (string, error) {
	var uid string
	err := q.QueryRowContext(ctx, `SELECT uid FROM sessions WHERE token = ?`, token).Scan(&uid)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return uid, err
}

// OwnedCosmetics returns the IDs of the cosmetics a user owns.
func OwnedCosmetics(ctx context.Context, q Querier, uid string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT item_id FROM user_cosmetics WHERE uid = ? ORDER BY purchased_at`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	return items, rows.Err()
}

// InsertCosmetic appends an item to a user's owned set.
func InsertCosmetic(ctx context.Context, q Querier, uid, itemID string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO user_cosmetics (uid, item_id) VALUES (?, ?)`, uid, itemID)
	return err
}
