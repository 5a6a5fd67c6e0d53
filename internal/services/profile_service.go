package services

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hangeulsoft/koreanparty/internal/db"
	"github.com/hangeulsoft/koreanparty/internal/errors"
	"github.com/hangeulsoft/koreanparty/internal/grimoire"
	"github.com/hangeulsoft/koreanparty/internal/logger"
	"github.com/hangeulsoft/koreanparty/internal/models"
)

const (
	pseudoMinLen = 3
	pseudoMaxLen = 20

	startingMana    = 100
	startingManaMax = 100
)

// ProfileService handles user profile business logic
type ProfileService interface {
	Register(ctx context.Context, pseudo, email string) (*models.User, string, error)
	GetProfile(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid, pseudo string) error
	RecalculateExperience(ctx context.Context, uid string) error
}

type profileService struct {
	db *db.DB
}

// NewProfileService creates a new ProfileService
func NewProfileService(database *db.DB) ProfileService {
	return &profileService{db: database}
}

func validatePseudo(pseudo string) error {
	n := utf8.RuneCountInString(pseudo)
	if n < pseudoMinLen || n > pseudoMaxLen {
		return errors.NewInvalidArgumentError("pseudo", "must be 3-20 characters")
	}
	return nil
}

// Register creates a user profile and a session, returning the bearer token
// the client authenticates subsequent calls with.
func (s *profileService) Register(ctx context.Context, pseudo, email string) (*models.User, string, error) {
	log := logger.FromContext(ctx)

	if err := validatePseudo(pseudo); err != nil {
		return nil, "", err
	}

	user := models.User{
		UID:         uuid.NewString(),
		Pseudo:      pseudo,
		Email:       email,
		Mana:        startingMana,
		ManaMax:     startingManaMax,
		WizardLevel: 1,
	}
	token := uuid.NewString()

	err := s.db.Tx(ctx, func(q db.Querier) error {
		if err := db.InsertUser(ctx, q, user); err != nil {
			return errors.NewInternalError(err)
		}
		if err := db.InsertSession(ctx, q, token, user.UID); err != nil {
			return errors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	log.Info("registered user: uid=%s pseudo=%s", user.UID, user.Pseudo)
	return &user, token, nil
}

func (s *profileService) GetProfile(ctx context.Context, uid string) (*models.User, error) {
	user, err := db.GetUser(ctx, s.db, uid)
	if err == db.ErrNotFound {
		return nil, errors.NewNotFoundError("user", uid)
	}
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, uid, pseudo string) error {
	log := logger.FromContext(ctx)

	if err := validatePseudo(pseudo); err != nil {
		return err
	}

	return s.db.Tx(ctx, func(q db.Querier) error {
		if _, err := db.GetUser(ctx, q, uid); err != nil {
			if err == db.ErrNotFound {
				return errors.NewNotFoundError("user", uid)
			}
			return errors.NewInternalError(err)
		}
		if err := db.UpdateUserPseudo(ctx, q, uid, pseudo); err != nil {
			return errors.NewInternalError(err)
		}
		log.Debug("updated pseudo: uid=%s", uid)
		return nil
	})
}

// RecalculateExperience recomputes the experience aggregate from the user's
// full mastery set. Always reads the whole set, never applies deltas, so
// overlapping triggers for the same user converge on the same result.
func (s *profileService) RecalculateExperience(ctx context.Context, uid string) error {
	log := logger.FromContext(ctx)

	return s.db.Tx(ctx, func(q db.Querier) error {
		if _, err := db.GetUser(ctx, q, uid); err != nil {
			if err == db.ErrNotFound {
				return errors.NewNotFoundError("user", uid)
			}
			return errors.NewInternalError(err)
		}

		levels, err := db.MasteryLevels(ctx, q, uid)
		if err != nil {
			return errors.NewInternalError(err)
		}

		totalXP := grimoire.TotalExperience(levels)
		wizardLevel := grimoire.WizardLevel(totalXP)
		if err := db.UpdateUserExperience(ctx, q, uid, totalXP, wizardLevel); err != nil {
			return errors.NewInternalError(err)
		}

		log.Debug("recalculated experience: uid=%s total=%d level=%d", uid, totalXP, wizardLevel)
		return nil
	})
}
