package duel

import (
	"time"

	"github.com/hangeulsoft/koreanparty/internal/models"
)

// Failure reasons returned to the attacker.
const (
	ReasonBlockNotVulnerable      = "BLOCK_NOT_VULNERABLE"
	ReasonWordNotFoundOrDestroyed = "WORD_NOT_FOUND_OR_DESTROYED"
)

// Config holds the ground-height payoff constants. The penalty is deliberately
// a distinct, smaller constant than the success rise.
type Config struct {
	RiseAmount    int // added to the defender's ground on a successful attack
	PenaltyAmount int // added to the attacker's own ground on any failed attack
}

// DefaultConfig returns the standard duel tuning.
func DefaultConfig() Config {
	return Config{
		RiseAmount:    10,
		PenaltyAmount: 5,
	}
}

// Outcome is the result of one attack resolution.
type Outcome struct {
	Success        bool   `json:"success"`
	DestroyedWord  string `json:"destroyed_word,omitempty"`
	DestroyedBlock string `json:"destroyed_block_id,omitempty"`
	RiseAmount     int    `json:"rise_amount,omitempty"`
	FailureReason  string `json:"failure_reason,omitempty"`
	PenaltyAmount  int    `json:"penalty_amount,omitempty"`
}

// Resolve applies one typed attack against the defender's blocks, mutating
// attacker and defender in place.
//
// A block is attackable only while not destroyed and past its vulnerability
// window. Success destroys the block and raises the defender's ground; the
// attacker is untouched. Any failure raises the attacker's own ground instead:
// failed attacks always cost the attacker.
func Resolve(attacker, defender *models.GamePlayer, attackWord string, cfg Config, now time.Time) Outcome {
	matched := false
	for i := range defender.Blocks {
		b := &defender.Blocks[i]
		if b.Text != attackWord {
			continue
		}
		if !b.IsDestroyed && !b.VulnerableAt.After(now) {
			b.IsDestroyed = true
			defender.GroundHeight += cfg.RiseAmount
			return Outcome{
				Success:        true,
				DestroyedWord:  b.Text,
				DestroyedBlock: b.ID,
				RiseAmount:     cfg.RiseAmount,
			}
		}
		if !b.IsDestroyed {
			matched = true // exists but still protected
		}
	}

	reason := ReasonWordNotFoundOrDestroyed
	if matched {
		reason = ReasonBlockNotVulnerable
	}
	attacker.GroundHeight += cfg.PenaltyAmount
	return Outcome{
		Success:       false,
		FailureReason: reason,
		PenaltyAmount: cfg.PenaltyAmount,
	}
}
