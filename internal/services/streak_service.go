package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
)

// StreakClaim is the result of a successful daily claim.
type StreakClaim struct {
	Day    int                  `json:"day"`
	Reward catalog.StreakReward `json:"reward"`
}

// StreakService handles daily streak claims
type StreakService interface {
	Claim(ctx context.Context, uid string, now time.Time) (*StreakClaim, error)
}

type streakService struct {
	db      *db.DB
	catalog *catalog.Catalog
}

// NewStreakService creates a new StreakService
func NewStreakService(database *db.DB, cat *catalog.Catalog) StreakService {
	return &streakService{db: database, catalog: cat}
}

func sameUTCDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Claim advances the daily streak: a second claim on the same UTC day fails,
// a claim on the next day increments, anything later resets to day 1. The
// streak update and the reward credit commit in the same transaction.
func (s *streakService) Claim(ctx context.Context, uid string, now time.Time) (*StreakClaim, error) {
	log := logger.FromContext(ctx)

	var claim StreakClaim
	err := s.db.Tx(ctx, func(q db.Querier) error {
		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		day := 1
		if user.LastStreakAt != nil {
			last := *user.LastStreakAt
			if sameUTCDay(last, now) {
				return errors.NewFailedPreconditionError("streak already claimed today")
			}
			if sameUTCDay(last.AddDate(0, 0, 1), now) {
				day = user.CurrentStreak + 1
			}
		}

		reward, ok := s.catalog.RewardForDay(day)
		if !ok {
			return errors.NewInternalError(fmt.Errorf("no streak rewards configured"))
		}

		mana, shards := user.Mana, user.MoonShards
		switch reward.Type {
		case "mana":
			mana += reward.Amount
			if mana > user.ManaMax {
				mana = user.ManaMax
			}
		case "moon_shards":
			shards += reward.Amount
		}

		if err := db.UpdateUserStreak(ctx, q, uid, day, now.UTC()); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateUserCurrency(ctx, q, uid, mana, shards); err != nil {
			return errors.NewInternalError(err)
		}

		claim = StreakClaim{Day: day, Reward: reward}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("streak claimed: uid=%s day=%d reward=%s/%d", uid, claim.Day, claim.Reward.Type, claim.Reward.Amount)
	return &claim, nil
}
