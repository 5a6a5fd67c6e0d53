package models

import "time"

// MasteryStatus is the lifecycle stage of a learned item.
type MasteryStatus string

const (
	StatusDiscovered MasteryStatus = "discovered"
	StatusLearning   MasteryStatus = "learning"
	StatusMastered   MasteryStatus = "mastered"
	StatusEngraved   MasteryStatus = "engraved"
)

// Level returns the numeric encoding of a status, 1..4. Both encodings are
// persisted: the enum drives scheduling, the level drives experience.
func (s MasteryStatus) Level() int {
	switch s {
	case StatusDiscovered:
		return 1
	case StatusLearning:
		return 2
	case StatusMastered:
		return 3
	case StatusEngraved:
		return 4
	default:
		return 0
	}
}

// MasteryRecord is per-learner, per-item spaced-repetition state.
//
// Invariants: EaseFactor >= 1.3 always; NextReviewAt >= LastReviewedAt after
// any update; IntervalDays == 0 only for never-reviewed items.
type MasteryRecord struct {
	UID            string        `json:"uid"`
	ItemID         string        `json:"item_id"`
	Status         MasteryStatus `json:"status"`
	MasteryLevel   int           `json:"mastery_level"`
	EaseFactor     float64       `json:"ease_factor"`
	IntervalDays   int           `json:"interval_days"`
	CorrectStreak  int           `json:"correct_streak"`
	Reviews        int           `json:"reviews"`
	Lapses         int           `json:"lapses"`
	LastReviewedAt time.Time     `json:"last_reviewed_at"`
	NextReviewAt   time.Time     `json:"next_review_at"`
}
