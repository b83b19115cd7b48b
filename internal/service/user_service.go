package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prn-tf/inventario/internal/domain"
	"github.com/prn-tf/inventario/internal/lock"
	"github.com/prn-tf/inventario/internal/repository"
)

// UserService handles user account management.
type UserService struct {
	userRepo repository.UserRepository
	locker   lock.Locker
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	locker lock.Locker,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		locker:   locker,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// CreateUserInput contains the data needed to register a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// CreateUserOutput contains the result of registering a user.
type CreateUserOutput struct {
	User *domain.User
}

// GetUserOutput contains the result of fetching a user.
// User is nil when no live user matches.
type GetUserOutput struct {
	User *domain.User
}

// UpdateUserInput contains the data needed to update a user profile.
// Passwords are never changed through profile updates.
type UpdateUserInput struct {
	ID    int64
	Name  string
	Email string
}

// UpdateUserOutput contains the result of updating a user.
type UpdateUserOutput struct {
	User *domain.User
}

// =============================================================================
// Service Methods
// =============================================================================

// Create registers a new user account.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	user := domain.NewUser(input.Name, input.Email, "")
	if messages := domain.ValidateUser(user, input.Password, true); messages != nil {
		return nil, domain.NewValidationError(messages...)
	}

	inUse, err := s.userRepo.EmailInUse(ctx, input.Email, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check email availability")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if inUse {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailAlreadyUsed, input.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	user.PasswordHash = string(passwordHash)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyUsed) {
			return nil, err
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user registered")

	return &CreateUserOutput{User: user}, nil
}

// GetByID fetches a user profile. A missing user is not an error; the
// output simply carries no user.
func (s *UserService) GetByID(ctx context.Context, id int64) (*GetUserOutput, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &GetUserOutput{}, nil
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &GetUserOutput{User: user}, nil
}

// Update changes the user's name and email.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UpdateUserOutput, error) {
	candidate := &domain.User{Name: input.Name, Email: input.Email}
	if messages := domain.ValidateUser(candidate, "", false); messages != nil {
		return nil, domain.NewValidationError(messages...)
	}

	var updated *domain.User
	err := withLock(ctx, s.locker, lock.UserKey(input.ID), func() error {
		user, err := s.userRepo.GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			s.logger.Error().Err(err).Int64("user_id", input.ID).Msg("failed to get user")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		inUse, err := s.userRepo.EmailInUse(ctx, input.Email, input.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to check email availability")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		if inUse {
			return fmt.Errorf("%w: %s", domain.ErrEmailAlreadyUsed, input.Email)
		}

		user.Name = input.Name
		user.Email = input.Email
		user.UpdatedAt = time.Now().UTC()

		if err := s.userRepo.Update(ctx, user); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return domain.ErrUserNotFound
			case errors.Is(err, domain.ErrEmailAlreadyUsed):
				return err
			}
			s.logger.Error().Err(err).Int64("user_id", input.ID).Msg("failed to update user")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", input.ID).Msg("user updated")

	return &UpdateUserOutput{User: updated}, nil
}

// Delete soft-deletes the user account. Their session token is cleared
// in the same statement, so the deleted account cannot keep calling the
// API.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := withLock(ctx, s.locker, lock.UserKey(id), func() error {
		if err := s.userRepo.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrUserNotFound
			}
			s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to delete user")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
