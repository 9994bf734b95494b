package service

import (
	"context"

	"gazette/internal/models"
	"gazette/internal/repository"
	"gazette/internal/validation"
)

// ProfileInput carries the profile fields a user may edit about themselves.
// The username is not among them; it is fixed at signup.
type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UserService implements user profile business logic.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByUsername returns the public profile owner.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// UpdateProfile edits the caller's own profile. Email uniqueness excludes
// the caller so resubmitting an unchanged email is not a conflict. The write
// is column-limited: a user read through the cache carries no password hash,
// and saving one back would wipe the stored credential.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input ProfileInput) (*models.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(input.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	taken, err := s.users.EmailTaken(ctx, email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewValidationError("email already in use")
	}

	if err := s.users.UpdateProfile(ctx, userID, input.FirstName, input.LastName, email); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}
