package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/f2re/diplom-monitor/internal/core/domain"
)

type AuthService struct {
	repo domain.UserRepository
}

func NewAuthService(repo domain.UserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Emoji    string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email, input.FullName)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if input.Emoji != "" {
		if err := s.ensureEmojiFree(ctx, input.Emoji, id); err != nil {
			return nil, err
		}
		user.Emoji = input.Emoji
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: login: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

type UpdateProfileInput struct {
	FullName  *string
	Emoji     *string
	StartDate *domain.Date
	Deadline  *domain.Date
}

// UpdateProfile applies the non-nil fields to the user's profile. The
// cohort glyph must stay unique across users.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Emoji != nil && *input.Emoji != user.Emoji {
		if err := s.ensureEmojiFree(ctx, *input.Emoji, userID); err != nil {
			return nil, err
		}
		user.Emoji = *input.Emoji
	}
	if input.StartDate != nil {
		user.StartDate = *input.StartDate
	}
	if input.Deadline != nil {
		user.Deadline = *input.Deadline
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: update profile: %w", err)
	}

	return user, nil
}

// ensureEmojiFree checks nobody else holds the glyph. The default glyph is
// shared by everyone who never picked one, so it is exempt.
func (s *AuthService) ensureEmojiFree(ctx context.Context, emoji, selfID string) error {
	if emoji == domain.DefaultEmoji {
		return nil
	}
	holder, err := s.repo.GetByEmoji(ctx, emoji)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("auth service: emoji lookup: %w", err)
	}
	if holder.ID != selfID {
		return domain.ErrEmojiAlreadyTaken
	}
	return nil
}
