package srs

import (
	"math"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/models"
)

// Config holds the tunable scheduling constants. Thresholds are configuration,
// not hard-coded policy.
type Config struct {
	MinEaseFactor     float64 // lower bound on ease, prevents runaway shrinkage
	InitialEaseFactor float64 // ease assigned when an item is first learned
	WrongEasePenalty  float64 // subtracted from ease on a lapse
	StreakToMastered  int     // correct streak promoting learning -> mastered
	StreakToEngraved  int     // correct streak promoting mastered -> engraved
	DueLimit          int     // page size of the review queue
}

// DefaultConfig returns the standard SM-2 style tuning.
func DefaultConfig() Config {
	return Config{
		MinEaseFactor:     1.3,
		InitialEaseFactor: 2.5,
		WrongEasePenalty:  0.2,
		StreakToMastered:  5,
		StreakToEngraved:  15,
		DueLimit:          20,
	}
}

// NewRecord initializes scheduling state for a freshly learned item: due
// immediately, interval 0, default ease, no streak.
func NewRecord(uid, itemID string, cfg Config, now time.Time) models.MasteryRecord {
	return models.MasteryRecord{
		UID:            uid,
		ItemID:         itemID,
		Status:         models.StatusDiscovered,
		MasteryLevel:   models.StatusDiscovered.Level(),
		EaseFactor:     cfg.InitialEaseFactor,
		IntervalDays:   0,
		LastReviewedAt: now,
		NextReviewAt:   now,
	}
}

// Apply updates a record's scheduling state for one review outcome.
//
// Interval growth on a correct answer follows the fixed ladder 0->1, 1->6,
// then round(previous * ease). A wrong answer resets the streak and interval,
// lowers ease (floored at MinEaseFactor), counts a lapse, and demotes
// mastered/engraved items back to learning.
func Apply(rec models.MasteryRecord, wasCorrect bool, cfg Config, now time.Time) models.MasteryRecord {
	if wasCorrect {
		rec.CorrectStreak++
		switch rec.IntervalDays {
		case 0:
			rec.IntervalDays = 1
		case 1:
			rec.IntervalDays = 6
		default:
			rec.IntervalDays = int(math.Round(float64(rec.IntervalDays) * rec.EaseFactor))
		}

		switch {
		case rec.Status == models.StatusDiscovered:
			rec.Status = models.StatusLearning
		case rec.Status == models.StatusLearning && rec.CorrectStreak >= cfg.StreakToMastered:
			rec.Status = models.StatusMastered
		case rec.Status == models.StatusMastered && rec.CorrectStreak >= cfg.StreakToEngraved:
			rec.Status = models.StatusEngraved
		}
	} else {
		rec.CorrectStreak = 0
		rec.IntervalDays = 1
		rec.EaseFactor = math.Max(cfg.MinEaseFactor, rec.EaseFactor-cfg.WrongEasePenalty)
		rec.Lapses++
		if rec.Status == models.StatusMastered || rec.Status == models.StatusEngraved {
			rec.Status = models.StatusLearning
		}
		// A discovered item stays discovered until its first correct answer.
	}

	rec.Reviews++
	rec.MasteryLevel = rec.Status.Level()
	rec.LastReviewedAt = now

	next := now.Add(time.Duration(rec.IntervalDays) * 24 * time.Hour)
	if next.Before(now) {
		next = now // never schedule into the past
	}
	rec.NextReviewAt = next
	return rec
}
