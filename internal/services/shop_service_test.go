package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hangeulsoft/koreanparty/internal/catalog"
	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/services"
	"github.com/hangeulsoft/koreanparty/internal/testutil"
)

type ShopServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.ShopService
}

func (s *ShopServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	cat, err := catalog.Load()
	s.Require().NoError(err)
	s.svc = services.NewShopService(s.db, cat)
	seedUser(&s.Suite, s.db, "u1", "shopper")
}

func (s *ShopServiceSuite) setShards(uid string, shards int) {
	ctx := context.Background()
	user, err := db.GetUser(ctx, s.db, uid)
	s.Require().NoError(err)
	s.Require().NoError(db.UpdateUserCurrency(ctx, s.db, uid, user.Mana, shards))
}

func (s *ShopServiceSuite) TestPurchase() {
	ctx := context.Background()
	s.setShards("u1", 200)

	s.Require().NoError(s.svc.Purchase(ctx, "u1", "hat_dokkaebi"))

	user, err := db.GetUser(ctx, s.db, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(80, user.MoonShards)

	owned, err := s.svc.Owned(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"hat_dokkaebi"}, owned)
}

func (s *ShopServiceSuite) TestPurchaseInsufficientFunds() {
	ctx := context.Background()
	s.setShards("u1", 50)

	err := s.svc.Purchase(ctx, "u1", "hat_dokkaebi")
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))

	user, err := db.GetUser(ctx, s.db, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(50, user.MoonShards, "a rejected purchase must not debit")
}

func (s *ShopServiceSuite) TestPurchaseDuplicateRejected() {
	ctx := context.Background()
	s.setShards("u1", 500)

	s.Require().NoError(s.svc.Purchase(ctx, "u1", "hat_dokkaebi"))
	err := s.svc.Purchase(ctx, "u1", "hat_dokkaebi")
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))
}

func (s *ShopServiceSuite) TestPurchaseUnknownItem() {
	err := s.svc.Purchase(context.Background(), "u1", "hat_of_nothing")
	s.Assert().Equal(errors.ErrCodeNotFound, appErrCode(&s.Suite, err))
}

func TestShopServiceSuite(t *testing.T) {
	suite.Run(t, new(ShopServiceSuite))
}
