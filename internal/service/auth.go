package service

import (
	"context"
	"fmt"

	"qnabot/internal/domain"
	"qnabot/internal/repository"

	"go.uber.org/zap"
)

// AuthService decides who may talk to the bot
type AuthService struct {
	userRepo repository.UserRepository
	required bool
	logger   *zap.Logger
}

// NewAuthService creates a new auth service.
// With required set only active users pass; otherwise unknown users are registered and pass.
func NewAuthService(userRepo repository.UserRepository, required bool, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		required: required,
		logger:   logger,
	}
}

// Authorized checks whether sender may use the bot
func (s *AuthService) Authorized(ctx context.Context, sender domain.Sender) (bool, error) {
	user, err := s.userRepo.GetUser(ctx, sender.ID)
	if err != nil {
		return false, fmt.Errorf("get user %d: %w", sender.ID, err)
	}

	if s.required {
		return user != nil && user.Active, nil
	}

	if user == nil {
		if _, err := s.userRepo.CreateUser(ctx, domain.NewUserFromSender(sender)); err != nil {
			return false, fmt.Errorf("register user %d: %w", sender.ID, err)
		}
		s.logger.Info("Registered new user",
			zap.Int64("user_id", sender.ID),
			zap.String("username", sender.Username),
		)
	}
	return true, nil
}

// IsAdmin checks whether the user has admin rights
func (s *AuthService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user %d: %w", userID, err)
	}
	return user != nil && user.IsAdmin, nil
}
