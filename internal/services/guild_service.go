package services

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

const (
	guildNameMinLen = 3
	guildNameMaxLen = 30
	guildTagMinLen  = 2
	guildTagMaxLen  = 5
	guildDescMaxLen = 200
)

// GuildService handles guild lifecycle business logic
type GuildService interface {
	Create(ctx context.Context, uid, name, tag, description string) (string, error)
	Join(ctx context.Context, uid, guildID string) error
	Leave(ctx context.Context, uid, guildID string) error
	Get(ctx context.Context, guildID string) (*models.Guild, []models.GuildMember, error)
}

type guildService struct {
	db *db.DB
}

// NewGuildService creates a new GuildService
func NewGuildService(database *db.DB) GuildService {
	return &guildService{db: database}
}

func validateGuildFields(name, tag, description string) error {
	if n := utf8.RuneCountInString(name); n < guildNameMinLen || n > guildNameMaxLen {
		return errors.NewInvalidArgumentError("name", "must be 3-30 characters")
	}
	if n := utf8.RuneCountInString(tag); n < guildTagMinLen || n > guildTagMaxLen {
		return errors.NewInvalidArgumentError("tag", "must be 2-5 characters")
	}
	if utf8.RuneCountInString(description) > guildDescMaxLen {
		return errors.NewInvalidArgumentError("description", "must be at most 200 characters")
	}
	return nil
}

func (s *guildService) Create(ctx context.Context, uid, name, tag, description string) (string, error) {
	log := logger.FromContext(ctx)

	if err := validateGuildFields(name, tag, description); err != nil {
		return "", err
	}

	guildID := uuid.NewString()
	err := s.db.Tx(ctx, func(q db.Querier) error {
		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if user.GuildID != "" {
			return errors.NewFailedPreconditionError("user already belongs to a guild")
		}

		taken, err := db.GuildNameOrTagTaken(ctx, q, name, tag)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if taken {
			return errors.NewAlreadyExistsError("guild", name)
		}

		guild := models.Guild{
			ID:          guildID,
			Name:        name,
			Tag:         tag,
			Description: description,
			LeaderID:    uid,
			MemberCount: 1,
		}
		if err := db.InsertGuild(ctx, q, guild); err != nil {
			return errors.NewInternalError(err)
		}
		member := models.GuildMember{
			GuildID:     guildID,
			UID:         uid,
			Role:        models.RoleLeader,
			DisplayName: user.Pseudo,
			JoinedAt:    time.Now().UTC(),
		}
		if err := db.InsertGuildMember(ctx, q, member); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateUserGuild(ctx, q, uid, guildID); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("created guild: id=%s name=%s leader=%s", guildID, name, uid)
	return guildID, nil
}

// Join adds the user to a guild. When the guild already lists the user but
// the profile disagrees, the profile is repaired and the call still fails:
// the repair commits in its own right, the error reaches the caller.
func (s *guildService) Join(ctx context.Context, uid, guildID string) error {
	log := logger.FromContext(ctx)

	if guildID == "" {
		return errors.NewInvalidArgumentError("guildId", "must not be empty")
	}

	var repairErr error
	err := s.db.Tx(ctx, func(q db.Querier) error {
		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		guild, err := db.GetGuild(ctx, q, guildID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("guild", guildID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		_, err = db.GetGuildMember(ctx, q, guildID, uid)
		if err != nil && err != db.ErrNotFound {
			return errors.NewInternalError(err)
		}
		alreadyListed := err == nil

		if alreadyListed {
			if user.GuildID != guildID {
				log.Warn("repairing inconsistent guild back-reference: uid=%s guild=%s", uid, guildID)
				if err := db.UpdateUserGuild(ctx, q, uid, guildID); err != nil {
					return errors.NewInternalError(err)
				}
				repairErr = errors.NewAlreadyExistsError("guild membership", uid)
				return nil
			}
			return errors.NewAlreadyExistsError("guild membership", uid)
		}

		if user.GuildID != "" {
			return errors.NewFailedPreconditionError("user already belongs to a guild")
		}

		member := models.GuildMember{
			GuildID:     guildID,
			UID:         uid,
			Role:        models.RoleMember,
			DisplayName: user.Pseudo,
			JoinedAt:    time.Now().UTC(),
		}
		if err := db.InsertGuildMember(ctx, q, member); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateUserGuild(ctx, q, uid, guildID); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateGuildLeadership(ctx, q, guildID, guild.LeaderID, guild.MemberCount+1); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if repairErr != nil {
		return repairErr
	}

	log.Info("user joined guild: uid=%s guild=%s", uid, guildID)
	return nil
}

// Leave removes the user from their guild. A leaving leader hands leadership
// to the earliest-joined remaining member; the last member leaving dissolves
// the guild.
func (s *guildService) Leave(ctx context.Context, uid, guildID string) error {
	log := logger.FromContext(ctx)

	if guildID == "" {
		return errors.NewInvalidArgumentError("guildId", "must not be empty")
	}

	err := s.db.Tx(ctx, func(q db.Querier) error {
		user, err := db.GetUser(ctx, q, uid)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("user", uid)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}
		if user.GuildID != guildID {
			return errors.NewFailedPreconditionError("user is not a member of this guild")
		}

		guild, err := db.GetGuild(ctx, q, guildID)
		if err == db.ErrNotFound {
			return errors.NewNotFoundError("guild", guildID)
		}
		if err != nil {
			return errors.NewInternalError(err)
		}

		if err := db.DeleteGuildMember(ctx, q, guildID, uid); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.UpdateUserGuild(ctx, q, uid, ""); err != nil {
			return errors.NewInternalError(err)
		}

		remaining, err := db.GuildMembers(ctx, q, guildID)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if len(remaining) == 0 {
			log.Info("dissolving empty guild: id=%s", guildID)
			if err := db.DeleteGuild(ctx, q, guildID); err != nil {
				return errors.NewInternalError(err)
			}
			return nil
		}

		leaderID := guild.LeaderID
		if leaderID == uid {
			// Members come back ordered by join time, earliest first.
			leaderID = remaining[0].UID
			log.Info("transferring guild leadership: guild=%s new_leader=%s", guildID, leaderID)
			if err := db.UpdateGuildMemberRole(ctx, q, guildID, leaderID, models.RoleLeader); err != nil {
				return errors.NewInternalError(err)
			}
		}
		if err := db.UpdateGuildLeadership(ctx, q, guildID, leaderID, len(remaining)); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("user left guild: uid=%s guild=%s", uid, guildID)
	return nil
}

func (s *guildService) Get(ctx context.Context, guildID string) (*models.Guild, []models.GuildMember, error) {
	guild, err := db.GetGuild(ctx, s.db, guildID)
	if err == db.ErrNotFound {
		return nil, nil, errors.NewNotFoundError("guild", guildID)
	}
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	members, err := db.GuildMembers(ctx, s.db, guildID)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	return guild, members, nil
}
