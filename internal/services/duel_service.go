package services

import (
	"context"
	"time"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/duel"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

// DuelService handles typing-duel attack resolution
type DuelService interface {
	SendAttack(ctx context.Context, gameID, attackerID, targetID, attackWord string, now time.Time) (*duel.Outcome, error)
}

type duelService struct {
	db  *db.DB
	cfg duel.Config
}

// NewDuelService creates a new DuelService
func NewDuelService(database *db.DB, cfg duel.Config) DuelService {
	return &duelService{db: database, cfg: cfg}
}

// SendAttack resolves one typed attack inside a single transaction. Both
// player states are re-read within it, so concurrent attacks against the same
// defender serialize instead of acting on stale blocks.
func (s *duelService) SendAttack(ctx context.Context, gameID, attackerID, targetID, attackWord string, now time.Time) (*duel.Outcome, error) {
	log := logger.FromContext(ctx)
	log.Debug("resolving attack: game=%s attacker=%s target=%s word=%q", gameID, attackerID, targetID, attackWord)

	if gameID == "" {
		return nil, errors.NewInvalidArgumentError("gameId", "must not be empty")
	}
	if attackWord == "" {
		return nil, errors.NewInvalidArgumentError("attackWord", "must not be empty")
	}
	if targetID == "" || targetID == attackerID {
		return nil, errors.NewInvalidArgumentError("targetId", "must reference another player")
	}

	var outcome duel.Outcome
	err := s.db.Tx(ctx, func(q db.Querier) error {
		game, err := db.GetGame(ctx, q, gameID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("game", gameID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if game.Status != models.GamePlaying {
			return errors.NewFailedPreconditionError("game is not in progress")
		}

		attacker, err := db.GetGamePlayer(ctx, q, gameID, attackerID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("player", attackerID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		defender, err := db.GetGamePlayer(ctx, q, gameID, targetID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("player", targetID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		outcome = duel.Resolve(attacker, defender, attackWord, s.cfg, now)

		// Success mutates the defender, failure mutates the attacker. Writing
		// both keeps the commit set independent of the branch taken.
		if err := db.UpdateGamePlayer(ctx, q, *attacker); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateGamePlayer(ctx, q, *defender); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Success {
		log.Info("attack succeeded: game=%s word=%q rise=%d", gameID, outcome.DestroyedWord, outcome.RiseAmount)
	} else {
		log.Info("attack failed: game=%s reason=%s penalty=%d", gameID, outcome.FailureReason, outcome.PenaltyAmount)
	}
	return &outcome, nil
}
