package services

import (
	"context"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

// SpellEffect is the applied result of one cast.
type SpellEffect struct {
	SpellID    string `json:"spell_id"`
	CasterID   string `json:"caster_id"`
	TargetID   string `json:"target_id,omitempty"`
	ManaCost   int    `json:"mana_cost"`
	ManaStolen int    `json:"mana_stolen,omitempty"`
	ManaGained int    `json:"mana_gained,omitempty"`
	ManaLost   int    `json:"mana_lost,omitempty"`
	CasterMana int    `json:"caster_mana"`
	TargetMana int    `json:"target_mana,omitempty"`
}

// SpellService handles spell casting between players of a session
type SpellService interface {
	Cast(ctx context.Context, gameID, casterID, spellID, targetID string) (*SpellEffect, error)
}

type spellService struct {
	db      *db.DB
	catalog *catalog.Catalog
}

// NewSpellService creates a new SpellService
func NewSpellService(database *db.DB, cat *catalog.Catalog) SpellService {
	return &spellService{db: database, catalog: cat}
}

// Cast applies one spell inside a single transaction. A mana steal is
// clamped to what the target actually holds: the caster always pays the full
// cost but only gains what the target can provide, and the target is never
// persisted negative.
func (s *spellService) Cast(ctx context.Context, gameID, casterID, spellID, targetID string) (*SpellEffect, error) {
	log := logger.FromContext(ctx)

	if gameID == "" {
		return nil, errors.NewInvalidArgumentError("gameId", "must not be empty")
	}
	spell, ok := s.catalog.Spells[spellID]
	if !ok {
		return nil, errors.NewInvalidArgumentError("spellId", "unknown spell")
	}
	if spell.RequiresTarget && (targetID == "" || targetID == casterID) {
		return nil, errors.NewInvalidArgumentError("targetId", "spell requires another player as target")
	}

	var effect SpellEffect
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

		caster, err := db.GetGamePlayer(ctx, q, gameID, casterID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("player", casterID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if caster.Mana < spell.ManaCost {
			return errors.NewFailedPreconditionError("insufficient mana")
		}

		var target *models.GamePlayer
		if spell.RequiresTarget {
			target, err = db.GetGamePlayer(ctx, q, gameID, targetID)
			if err == db.ErrNotFound {
				return errors.NewNotFoundError("player", targetID)
			}
			if err != nil {
				return errors.NewInternalError(err)
			}
		}

		caster.Mana -= spell.ManaCost
		effect = SpellEffect{
			SpellID:  spellID,
			CasterID: casterID,
			TargetID: targetID,
			ManaCost: spell.ManaCost,
		}

		if spell.StealAmount > 0 && target != nil {
			stolen := spell.StealAmount
			if stolen > target.Mana {
				stolen = target.Mana
			}
			target.Mana -= stolen
			caster.Mana += stolen
			effect.ManaStolen = stolen
		}
		if spell.ManaGain > 0 {
			caster.Mana += spell.ManaGain
			effect.ManaGained = spell.ManaGain
		}
		if spell.ManaLoss > 0 && target != nil {
			lost := spell.ManaLoss
			if lost > target.Mana {
				lost = target.Mana
			}
			target.Mana -= lost
			effect.ManaLost = lost
		}

		if err := db.UpdateGamePlayer(ctx, q, *caster); err != nil {
			return errors.NewInternalError(err)
		}
		effect.CasterMana = caster.Mana
		if target != nil {
			if err := db.UpdateGamePlayer(ctx, q, *target); err != nil {
				return errors.NewInternalError(err)
			}
			effect.TargetMana = target.Mana
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("spell cast: game=%s spell=%s caster=%s target=%s", gameID, spellID, casterID, targetID)
	return &effect, nil
}
