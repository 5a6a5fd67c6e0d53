package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/services"
	"github.com/hangeulsoft/koreanparty/internal/testutil"
)

type GuildServiceSuite struct {
	suite.Suite
	db  *db.DB
	svc services.GuildService
}

func (s *GuildServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.svc = services.NewGuildService(s.db)
	seedUser(&s.Suite, s.db, "u1", "leader")
	seedUser(&s.Suite, s.db, "u2", "recruit")
	seedUser(&s.Suite, s.db, "u3", "wanderer")
}

func (s *GuildServiceSuite) memberCountMatches(guildID string) {
	ctx := context.Background()
	guild, err := db.GetGuild(ctx, s.db, guildID)
	s.Require().NoError(err)
	actual, err := db.CountGuildMembers(ctx, s.db, guildID)
	s.Require().NoError(err)
	s.Assert().Equal(actual, guild.MemberCount, "member_count must match the member rows")
}

func (s *GuildServiceSuite) TestCreateGuild() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "study hard")
	s.Require().NoError(err)

	guild, members, err := s.svc.Get(ctx, guildID)
	s.Require().NoError(err)
	s.Assert().Equal("u1", guild.LeaderID)
	s.Assert().Equal(1, guild.MemberCount)
	s.Require().Len(members, 1)
	s.Assert().Equal("leader", members[0].Role)

	user, err := db.GetUser(ctx, s.db, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(guildID, user.GuildID)
	s.memberCountMatches(guildID)
}

func (s *GuildServiceSuite) TestCreateDuplicateNameRejected() {
	ctx := context.Background()
	_, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)

	_, err = s.svc.Create(ctx, "u2", "Moonlight Scholars", "LUNE", "")
	s.Assert().Equal(errors.ErrCodeAlreadyExists, appErrCode(&s.Suite, err))
}

func (s *GuildServiceSuite) TestCreateWhileInGuildRejected() {
	ctx := context.Background()
	_, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)

	_, err = s.svc.Create(ctx, "u1", "Second Guild", "TWO", "")
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))
}

func (s *GuildServiceSuite) TestCreateInvalidTag() {
	_, err := s.svc.Create(context.Background(), "u1", "Moonlight Scholars", "X", "")
	s.Assert().Equal(errors.ErrCodeInvalidArgument, appErrCode(&s.Suite, err))
}

func (s *GuildServiceSuite) TestJoinAndLeave() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Join(ctx, "u2", guildID))
	s.memberCountMatches(guildID)

	user, err := db.GetUser(ctx, s.db, "u2")
	s.Require().NoError(err)
	s.Assert().Equal(guildID, user.GuildID)

	s.Require().NoError(s.svc.Leave(ctx, "u2", guildID))
	s.memberCountMatches(guildID)

	user, err = db.GetUser(ctx, s.db, "u2")
	s.Require().NoError(err)
	s.Assert().Equal("", user.GuildID)
}

func (s *GuildServiceSuite) TestJoinWhileInOtherGuildRejected() {
	ctx := context.Background()
	first, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)
	_, err = s.svc.Create(ctx, "u2", "Tiger Claw", "TIGER", "")
	s.Require().NoError(err)

	err = s.svc.Join(ctx, "u2", first)
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))
}

func (s *GuildServiceSuite) TestJoinRepairsInconsistentBackReference() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Join(ctx, "u2", guildID))

	// Corrupt the back-reference: guild lists u2 but the profile disagrees.
	s.Require().NoError(db.UpdateUserGuild(ctx, s.db, "u2", ""))

	err = s.svc.Join(ctx, "u2", guildID)
	s.Assert().Equal(errors.ErrCodeAlreadyExists, appErrCode(&s.Suite, err))

	// The failing call must still have repaired the profile.
	user, err := db.GetUser(ctx, s.db, "u2")
	s.Require().NoError(err)
	s.Assert().Equal(guildID, user.GuildID)
}

func (s *GuildServiceSuite) TestLeaderLeavePromotesEarliestJoined() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Join(ctx, "u2", guildID))
	s.Require().NoError(s.svc.Join(ctx, "u3", guildID))

	s.Require().NoError(s.svc.Leave(ctx, "u1", guildID))

	guild, members, err := s.svc.Get(ctx, guildID)
	s.Require().NoError(err)
	s.Assert().Equal("u2", guild.LeaderID)
	s.Require().Len(members, 2)
	s.Assert().Equal("leader", members[0].Role)
	s.memberCountMatches(guildID)
}

func (s *GuildServiceSuite) TestLastMemberLeaveDissolvesGuild() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Leave(ctx, "u1", guildID))

	_, _, err = s.svc.Get(ctx, guildID)
	s.Assert().Equal(errors.ErrCodeNotFound, appErrCode(&s.Suite, err))
}

func (s *GuildServiceSuite) TestLeaveWrongGuildRejected() {
	ctx := context.Background()
	guildID, err := s.svc.Create(ctx, "u1", "Moonlight Scholars", "MOON", "")
	s.Require().NoError(err)

	err = s.svc.Leave(ctx, "u2", guildID)
	s.Assert().Equal(errors.ErrCodeFailedPrecondition, appErrCode(&s.Suite, err))
}

func TestGuildServiceSuite(t *testing.T) {
	suite.Run(t, new(GuildServiceSuite))
}
