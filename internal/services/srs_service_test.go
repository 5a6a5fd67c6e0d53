package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/models"
	"github.com/hangeulsoft/koreanparty/internal/services"
	"github.com/hangeulsoft/koreanparty/internal/srs"
	"github.com/hangeulsoft/koreanparty/internal/testutil"
)

func seedUser(s *suite.Suite, database *db.DB, uid, pseudo string) {
	user := models.User{
		UID:         uid,
		Pseudo:      pseudo,
		Mana:        100,
		ManaMax:     100,
		WizardLevel: 1,
	}
	s.Require().NoError(db.InsertUser(context.Background(), database, user))
}

func appErrCode(s *suite.Suite, err error) string {
	s.Require().Error(err)
	appErr, ok := err.(*errors.AppError)
	s.Require().True(ok, "expected *errors.AppError, got %T", err)
	return appErr.Code
}

type SRSServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.SRSService
	now time.Time
}

func (s *SRSServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewSRSService(s.db, srs.DefaultConfig(), nil, nil)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedUser(&s.Suite, s.db, "u1", "hodong")
}

func (s *SRSServiceSuite) TestLearnItemsCreatesFreshRecords() {
	created, err := s.svc.LearnItems(context.Background(), "u1", []string{"hangeul_a", "hangeul_b"}, s.now)
	s.Require().NoError(err)
	s.Assert().Equal(2, created)

	rec, err := db.GetMasteryRecord(context.Background(), s.db, "u1", "hangeul_a")
	s.Require().NoError(err)
	s.Assert().Equal(models.StatusDiscovered, rec.Status)
	s.Assert().Equal(0, rec.IntervalDays)
	s.Assert().InDelta(2.5, rec.EaseFactor, 0.001)
}

func (s *SRSServiceSuite) TestLearnItemsSkipsExisting() {
	_, err := s.svc.LearnItems(context.Background(), "u1", []string{"hangeul_a"}, s.now)
	s.Require().NoError(err)

	created, err := s.svc.LearnItems(context.Background(), "u1", []string{"hangeul_a", "hangeul_b"}, s.now)
	s.Require().NoError(err)
	s.Assert().Equal(1, created)
}

func (s *SRSServiceSuite) TestSubmitReviewFirstCorrect() {
	_, err := s.svc.LearnItems(context.Background(), "u1", []string{"hangeul_a"}, s.now)
	s.Require().NoError(err)

	rec, err := s.svc.SubmitReview(context.Background(), "u1", "hangeul_a", true, s.now)
	s.Require().NoError(err)
	s.Assert().Equal(1, rec.IntervalDays)
	s.Assert().Equal(1, rec.CorrectStreak)
	s.Assert().Equal(models.StatusLearning, rec.Status)
}

func (s *SRSServiceSuite) TestSubmitReviewUnknownItem() {
	_, err := s.svc.SubmitReview(context.Background(), "u1", "ghost", true, s.now)
	s.Assert().Equal(errors.ErrCodeNotFound, appErrCode(&s.Suite, err))
}

func (s *SRSServiceSuite) TestSubmitReviewEmptyItem() {
	_, err := s.svc.SubmitReview(context.Background(), "u1", "", true, s.now)
	s.Assert().Equal(errors.ErrCodeInvalidArgument, appErrCode(&s.Suite, err))
}

func (s *SRSServiceSuite) TestDueItemsOrderingAndCap() {
	ctx := context.Background()
	base := s.now.Add(-48 * time.Hour)
	for i := 0; i < 25; i++ {
		rec := srs.NewRecord("u1", itemID(i), srs.DefaultConfig(), base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(db.UpsertMasteryRecord(ctx, s.db, rec))
	}

	due, err := s.svc.DueItems(ctx, "u1", "", s.now)
	s.Require().NoError(err)
	s.Require().Len(due, 20)
	for i := 1; i < len(due); i++ {
		s.Assert().False(due[i].NextReviewAt.Before(due[i-1].NextReviewAt), "due items must be ordered oldest first")
	}
}

func (s *SRSServiceSuite) TestDueItemsEmptyWhenNoneDue() {
	ctx := context.Background()
	rec := srs.NewRecord("u1", "future", srs.DefaultConfig(), s.now.Add(time.Hour))
	s.Require().NoError(db.UpsertMasteryRecord(ctx, s.db, rec))

	due, err := s.svc.DueItems(ctx, "u1", "", s.now)
	s.Require().NoError(err)
	s.Assert().Empty(due)
}

func itemID(i int) string {
	return "item_" + string(rune('a'+i/10)) + string(rune('a'+i%10))
}

func TestSRSServiceSuite(t *testing.T) {
	suite.Run(t, new(SRSServiceSuite))
}
