package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const masteryColumns = `uid, item_id, status, mastery_level, ease_factor, interval_days, correct_streak, reviews, lapses, last_reviewed_at, next_review_at`

func scanMastery(s interface{ Scan(...any) error }) (models.MasteryRecord, error) {
	var m models.MasteryRecord
	err := s.Scan(&m.UID, &m.ItemID, &m.Status, &m.MasteryLevel, &m.EaseFactor, &m.IntervalDays,
		&m.CorrectStreak, &m.Reviews, &m.Lapses, &m.LastReviewedAt, &m.NextReviewAt)
	return m, err
}

// GetMasteryRecord loads the record for one learner/item pair.
func GetMasteryRecord(ctx context.Context, q Querier, uid, itemID string) (*models.MasteryRecord, error) {
	row := q.QueryRowContext(ctx, `SELECT `+masteryColumns+` FROM mastery_records WHERE uid = ? AND item_id = ?`, uid, itemID)
	m, err := scanMastery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertMasteryRecord writes the full record state.
func UpsertMasteryRecord(ctx context.Context, q Querier, m models.MasteryRecord) error {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("upserting mastery record: uid=%s item=%s interval=%d ease=%.2f", m.UID, m.ItemID, m.IntervalDays, m.EaseFactor)

	_, err := q.ExecContext(ctx, `
INSERT INTO mastery_records (`+masteryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (uid, item_id) DO UPDATE SET
    status = excluded.status,
    mastery_level = excluded.mastery_level,
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    correct_streak = excluded.correct_streak,
    reviews = excluded.reviews,
    lapses = excluded.lapses,
    last_reviewed_at = excluded.last_reviewed_at,
    next_review_at = excluded.next_review_at
`, m.UID, m.ItemID, m.Status, m.MasteryLevel, m.EaseFactor, m.IntervalDays,
		m.CorrectStreak, m.Reviews, m.Lapses, m.LastReviewedAt, m.NextReviewAt)
	if err != nil {
		log.Error("failed to upsert mastery record: %v", err)
	}
	return err
}

// MasteryRecordExists reports whether a record already exists for the pair.
func MasteryRecordExists(ctx context.Context, q Querier, uid, itemID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM mastery_records WHERE uid = ? AND item_id = ?`, uid, itemID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// DueMasteryRecords returns the records due at `now`, oldest-due first,
// capped at limit. The optional status narrows the queue to one lifecycle
// stage.
func DueMasteryRecords(ctx context.Context, q Querier, uid string, now time.Time, status models.MasteryStatus, limit int) ([]models.MasteryRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("mastery_repo")
	log.Debug("fetching due records: uid=%s limit=%d status=%s", uid, limit, status)

	query := sqlBuilder.
		Select(masteryColumns).
		From("mastery_records").
		Where(squirrel.Eq{"uid": uid}).
		Where(squirrel.LtOrEq{"next_review_at": now}).
		OrderBy("next_review_at ASC").
		Limit(uint64(limit))
	if status != "" {
		query = query.Where(squirrel.Eq{"status": status})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build due-records query: %v", err)
		return nil, err
	}

	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query due records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.MasteryRecord
	for rows.Next() {
		m, err := scanMastery(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, m)
	}
	log.Debug("found %d due records", len(records))
	return records, rows.Err()
}

// MasteryLevels returns the numeric levels of every record a user holds,
// the full current set the experience aggregate is recomputed from.
func MasteryLevels(ctx context.Context, q Querier, uid string) ([]int, error) {
	rows, err := q.QueryContext(ctx, `SELECT mastery_level FROM mastery_records WHERE uid = ?`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []int
	for rows.Next() {
		var lvl int
		if err := rows.Scan(&lvl); err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, rows.Err()
}
