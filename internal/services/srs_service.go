package services

import (
	"context"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
	"github.com/hangeulsoft/koreanparty/internal/srs"
	"github.com/hangeulsoft/koreanparty/internal/worker"
)

// SRSService handles spaced-repetition review business logic
type SRSService interface {
	SubmitReview(ctx context.Context, uid, itemID string, wasCorrect bool, now time.Time) (*models.MasteryRecord, error)
	DueItems(ctx context.Context, uid string, status models.MasteryStatus, now time.Time) ([]models.MasteryRecord, error)
	LearnItems(ctx context.Context, uid string, itemIDs []string, now time.Time) (int, error)
}

type srsService struct {
	db     *db.DB
	cfg    srs.Config
	pool   *worker.Pool
	recalc worker.ExperienceRecalculator
}

// NewSRSService creates a new SRSService. Mastery writes enqueue an
// experience recalculation on the pool.
func NewSRSService(database *db.DB, cfg srs.Config, pool *worker.Pool, recalc worker.ExperienceRecalculator) SRSService {
	return &srsService{db: database, cfg: cfg, pool: pool, recalc: recalc}
}

func (s *srsService) SubmitReview(ctx context.Context, uid, itemID string, wasCorrect bool, now time.Time) (*models.MasteryRecord, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting review: uid=%s item=%s correct=%t", uid, itemID, wasCorrect)

	if itemID == "" {
		return nil, errors.NewInvalidArgumentError("itemId", "must not be empty")
	}

	var updated models.MasteryRecord
	err := s.db.Tx(ctx, func(q db.Querier) error {
		rec, err := db.GetMasteryRecord(ctx, q, uid, itemID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("mastery record", itemID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		updated = srs.Apply(*rec, wasCorrect, s.cfg, now)
		if err := db.UpsertMasteryRecord(ctx, q, updated); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review applied: interval=%d ease=%.2f status=%s", updated.IntervalDays, updated.EaseFactor, updated.Status)
	s.enqueueRecalc(uid)
	return &updated, nil
}

func (s *srsService) DueItems(ctx context.Context, uid string, status models.MasteryStatus, now time.Time) ([]models.MasteryRecord, error) {
	log := logger.FromContext(ctx)

	if status != "" && status.Level() == 0 {
		return nil, errors.NewInvalidArgumentError("level", "unknown mastery status")
	}

	records, err := db.DueMasteryRecords(ctx, s.db, uid, now, status, s.cfg.DueLimit)
	if err != nil {
		log.Error("failed to load due records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}

// LearnItems creates fresh mastery records for the given items, skipping any
// the user already holds. Returns the number of records created.
func (s *srsService) LearnItems(ctx context.Context, uid string, itemIDs []string, now time.Time) (int, error) {
	log := logger.FromContext(ctx)

	if len(itemIDs) == 0 {
		return 0, errors.NewInvalidArgumentError("itemIds", "must not be empty")
	}
	for _, id := range itemIDs {
		if id == "" {
			return 0, errors.NewInvalidArgumentError("itemIds", "must not contain empty IDs")
		}
	}

	created := 0
	err := s.db.Tx(ctx, func(q db.Querier) error {
		created = 0
		for _, id := range itemIDs {
			exists, err := db.MasteryRecordExists(ctx, q, uid, id)
			if err != nil {
				return errors.NewInternalError(err)
			}
			if exists {
				continue
			}
			if err := db.UpsertMasteryRecord(ctx, q, srs.NewRecord(uid, id, s.cfg, now)); err != nil {
				return errors.NewInternalError(err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("learned %d new items for uid=%s", created, uid)
	if created > 0 {
		s.enqueueRecalc(uid)
	}
	return created, nil
}

func (s *srsService) enqueueRecalc(uid string) {
	if s.pool == nil || s.recalc == nil {
		return
	}
	s.pool.Submit(&worker.ExperienceRecalcJob{Recalculator: s.recalc, UID: uid})
}
