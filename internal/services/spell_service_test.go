package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/models"
	"github.com/hangeulsoft/koreanparty/internal/services"
	"github.com/hangeulsoft/koreanparty/internal/testutil"
)

type SpellServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.SpellService
}

func (s *SpellServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	cat, err := catalog.Load()
	s.Require().NoError(err)
	s.svc = services.NewSpellService(s.db, cat)

	ctx := context.Background()
	seedUser(&s.Suite, s.db, "caster", "mage")
	seedUser(&s.Suite, s.db, "target", "victim")

	game := models.Game{
		ID: "g1", Name: "spell test", HostID: "caster",
		Status: models.GamePlaying,
		Board:  []models.Tile{{Type: models.TileStart}},
	}
	s.Require().NoError(db.InsertGame(ctx, s.db, game))
	s.setPlayerMana("caster", 100)
	s.setPlayerMana("target", 10)
}

func (s *SpellServiceSuite) setPlayerMana(uid string, mana int) {
	ctx := context.Background()
	p, err := db.GetGamePlayer(ctx, s.db, "g1", uid)
	if err == db.ErrNotFound {
		s.Require().NoError(db.InsertGamePlayer(ctx, s.db, models.GamePlayer{
			GameID: "g1", UID: uid, Mana: mana, Blocks: []models.DuelBlock{},
		}))
		return
	}
	s.Require().NoError(err)
	p.Mana = mana
	s.Require().NoError(db.UpdateGamePlayer(ctx, s.db, *p))
}

func (s *SpellServiceSuite) playerMana(uid string) int {
	p, err := db.GetGamePlayer(context.Background(), s.db, "g1", uid)
	s.Require().NoError(err)
	return p.Mana
}

func (s *SpellServiceSuite) TestManaStealClamped() {
	// Caster 100, target 10: pays 25, steals only the 10 the target holds.
	effect, err := s.svc.Cast(context.Background(), "g1", "caster", "MANA_STEAL", "target")
	s.Require().NoError(err)

	s.Assert().Equal(10, effect.ManaStolen)
	s.Assert().Equal(85, effect.CasterMana)
	s.Assert().Equal(0, effect.TargetMana)
	s.Assert().Equal(85, s.playerMana("caster"))
	s.Assert().Equal(0, s.playerMana("target"))
}

func (s *SpellServiceSuite) TestManaStealFullAmount() {
	s.setPlayerMana("target", 80)

	effect, err := s.svc.Cast(context.Background(), "g1", "caster", "MANA_STEAL", "target")
	s.Require().NoError(err)
	s.Assert().Equal(20, effect.ManaStolen)
	s.Assert().Equal(95, effect.CasterMana)
	s.Assert().Equal(60, effect.TargetMana)
}

func (s *SpellServiceSuite) TestInsufficientMana() {
	s.setPlayerMana("caster", 5)

	_, err := s.svc.Cast(context.Background(), "g1", "caster", "MANA_STEAL", "target")
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))
	s.Assert().Equal(5, s.playerMana("caster"), "a rejected cast must not debit the caster")
}

func (s *SpellServiceSuite) TestUnknownSpell() {
	_, err := s.svc.Cast(context.Background(), "g1", "caster", "FIREBALL", "target")
	s.Assert().Equal(errors.ErrCodeInvalidArgument, appErrCode(&s.Suite, err))
}

func (s *SpellServiceSuite) TestTargetRequiredSpellWithoutTarget() {
	_, err := s.svc.Cast(context.Background(), "g1", "caster", "MANA_STEAL", "")
	s.Assert().Equal(errors.ErrCodeInvalidArgument, appErrCode(&s.Suite, err))
}

func (s *SpellServiceSuite) TestSelfBlessing() {
	effect, err := s.svc.Cast(context.Background(), "g1", "caster", "BLESSING_OF_HANGEUL", "")
	s.Require().NoError(err)
	s.Assert().Equal(10, effect.ManaGained)
	s.Assert().Equal(95, effect.CasterMana)
}

func (s *SpellServiceSuite) TestManaLossClamped() {
	s.setPlayerMana("target", 7)

	effect, err := s.svc.Cast(context.Background(), "g1", "caster", "KIMCHIS_MALICE", "target")
	s.Require().NoError(err)
	s.Assert().Equal(7, effect.ManaLost)
	s.Assert().Equal(0, s.playerMana("target"))
}

func TestSpellServiceSuite(t *testing.T) {
	suite.Run(t, new(SpellServiceSuite))
}
