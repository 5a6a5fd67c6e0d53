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

type ProfileServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.ProfileService
}

func (s *ProfileServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewProfileService(s.db)
}

func (s *ProfileServiceSuite) TestRegister() {
	ctx := context.Background()
	user, token, err := s.svc.Register(ctx, "sejong", "sejong@example.com")
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	s.Assert().Equal(100, user.Mana)
	s.Assert().Equal(1, user.WizardLevel)

	uid, err := db.UserIDForToken(ctx, s.db, token)
	s.Require().NoError(err)
	s.Assert().Equal(user.UID, uid)
}

func (s *ProfileServiceSuite) TestRegisterShortPseudo() {
	_, _, err := s.svc.Register(context.Background(), "ab", "")
	s.Assert().Equal(errors.ErrCodeInvalidArgument, appErrCode(&s.Suite, err))
}

func (s *ProfileServiceSuite) TestUpdateProfile() {
	ctx := context.Background()
	user, _, err := s.svc.Register(ctx, "sejong", "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.UpdateProfile(ctx, user.UID, "great king"))

	loaded, err := s.svc.GetProfile(ctx, user.UID)
	s.Require().NoError(err)
	s.Assert().Equal("great king", loaded.Pseudo)
}

func (s *ProfileServiceSuite) TestUpdateProfileUnknownUser() {
	err := s.svc.UpdateProfile(context.Background(), "ghost", "somebody")
	s.Assert().Equal(errors.ErrCodeNotFound, appErrCode(&s.Suite, err))
}

func (s *ProfileServiceSuite) TestRecalculateExperience() {
	ctx := context.Background()
	user, _, err := s.svc.Register(ctx, "sejong", "")
	s.Require().NoError(err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	statuses := []models.MasteryStatus{
		models.StatusDiscovered, // 1 XP
		models.StatusLearning,   // 5 XP
		models.StatusMastered,   // 20 XP
		models.StatusEngraved,   // 50 XP
	}
	for i, status := range statuses {
		rec := srs.NewRecord(user.UID, itemID(i), srs.DefaultConfig(), now)
		rec.Status = status
		rec.MasteryLevel = status.Level()
		s.Require().NoError(db.UpsertMasteryRecord(ctx, s.db, rec))
	}

	s.Require().NoError(s.svc.RecalculateExperience(ctx, user.UID))

	loaded, err := s.svc.GetProfile(ctx, user.UID)
	s.Require().NoError(err)
	s.Assert().Equal(76, loaded.TotalExperience)
	s.Assert().Equal(1, loaded.WizardLevel)
}

func (s *ProfileServiceSuite) TestRecalculateExperienceIdempotent() {
	ctx := context.Background()
	user, _, err := s.svc.Register(ctx, "sejong", "")
	s.Require().NoError(err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		rec := srs.NewRecord(user.UID, itemID(i), srs.DefaultConfig(), now)
		rec.Status = models.StatusMastered
		rec.MasteryLevel = rec.Status.Level()
		s.Require().NoError(db.UpsertMasteryRecord(ctx, s.db, rec))
	}

	s.Require().NoError(s.svc.RecalculateExperience(ctx, user.UID))
	first, err := s.svc.GetProfile(ctx, user.UID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.RecalculateExperience(ctx, user.UID))
	second, err := s.svc.GetProfile(ctx, user.UID)
	s.Require().NoError(err)

	s.Assert().Equal(first.TotalExperience, second.TotalExperience)
	s.Assert().Equal(120, second.TotalExperience)
	s.Assert().Equal(2, second.WizardLevel)
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}
