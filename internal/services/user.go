package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"screenlist/internal/cache"
	"screenlist/internal/models"
	"screenlist/internal/repository"
)

const defaultProfileTTL = 30 * time.Minute

type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OnboardInput struct {
	Bio     *string `json:"bio" validate:"required,min=1,max=500"`
	Country *string `json:"country" validate:"required,min=2,max=3"`
}

// ProfileUpdate holds the profile fields a user may change; nil fields are left as they are.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Bio       *string `json:"bio" validate:"omitempty,min=1,max=500"`
	Country   *string `json:"country" validate:"omitempty,min=2,max=3"`
}

func (u ProfileUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil && u.Bio == nil && u.Country == nil
}

type UserService struct {
	users       repository.UserRepository
	watchlists  repository.WatchlistRepository
	tokens      *TokenService
	cache       *cache.Accessor
	invalidator *cache.Invalidator
	profileTTL  time.Duration
	logger      *logrus.Logger
}

type UserServiceConfig struct {
	Users       repository.UserRepository
	Watchlists  repository.WatchlistRepository
	Tokens      *TokenService
	Cache       *cache.Accessor
	Invalidator *cache.Invalidator
	ProfileTTL  time.Duration
	Logger      *logrus.Logger
}

func NewUserService(config UserServiceConfig) *UserService {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.ProfileTTL <= 0 {
		config.ProfileTTL = defaultProfileTTL
	}
	return &UserService{
		users:       config.Users,
		watchlists:  config.Watchlists,
		tokens:      config.Tokens,
		cache:       config.Cache,
		invalidator: config.Invalidator,
		profileTTL:  config.ProfileTTL,
		logger:      config.Logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("A user has been created...")
	return user, nil
}

// Login checks the credentials and returns a signed token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", ErrInvalidPassword
	}
	return s.tokens.Issue(user)
}

// Onboard stores bio and country, marks the user onboarded and returns a
// token carrying the new onboarding flag.
func (s *UserService) Onboard(ctx context.Context, userID string, in OnboardInput) (string, error) {
	user, err := s.users.Onboard(ctx, userID, in.Bio, in.Country)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return "", err
	}

	s.invalidator.Profile(ctx, userID)
	return s.tokens.Issue(user)
}

func (s *UserService) Profile(ctx context.Context, userID string) (models.Profile, error) {
	return cache.Load(ctx, s.cache, cache.ProfileKey(userID), s.profileTTL,
		func(ctx context.Context) (models.Profile, error) {
			user, err := s.users.GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return models.Profile{}, fmt.Errorf("%w: user not found", ErrNotFound)
				}
				return models.Profile{}, err
			}
			return user.Profile(), nil
		})
}

// UpdateProfile applies the set fields and refreshes the cached profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (models.Profile, error) {
	if in.empty() {
		return models.Profile{}, ErrNoUpdates
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Profile{}, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return models.Profile{}, err
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.Country != nil {
		user.Country = in.Country
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return models.Profile{}, ErrUserExists
		case errors.Is(err, repository.ErrNotFound):
			return models.Profile{}, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return models.Profile{}, err
	}

	profile := user.Profile()
	s.cache.Write(ctx, cache.ProfileKey(userID), profile, s.profileTTL)
	return profile, nil
}

// DeleteAccount removes the user and everything they own, then purges their cache entries.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	// The owned ids are needed to purge per-watchlist keys once the rows are gone.
	owned, err := s.watchlists.ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list watchlists: %w", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return err
	}

	for _, w := range owned {
		s.invalidator.Watchlist(ctx, w.ID, userID)
	}
	s.invalidator.Watchlists(ctx, userID)
	s.invalidator.Profile(ctx, userID)

	s.logger.WithField("user_id", userID).Info("User account deleted")
	return nil
}
