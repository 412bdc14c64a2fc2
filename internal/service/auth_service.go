package service

import (
	"context"
	"fmt"

	"despesabot/internal/dto"
	"despesabot/internal/models"

	"go.uber.org/zap"
)

type userStore interface {
	FindUserByDiscordID(ctx context.Context, discordID string) (*models.User, error)
}

// AuthService answers "who is this Discord identity?" for the message
// pipeline. Not being authenticated is a normal outcome; only
// infrastructure failures surface as errors.
type AuthService struct {
	users    userStore
	loginURL string
	logger   *zap.Logger
}

func NewAuthService(users userStore, baseURL string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		loginURL: baseURL + "/login/discord",
		logger:   logger,
	}
}

// CheckAuth resolves the Discord identity to an authenticated context, or a
// login prompt with the login URL when no linked user exists.
func (s *AuthService) CheckAuth(ctx context.Context, discordID string) (dto.AuthCheck, error) {
	user, err := s.users.FindUserByDiscordID(ctx, discordID)
	if err != nil {
		s.logger.Error("Auth lookup failed",
			zap.String("discord_id", discordID),
			zap.Error(err),
		)
		return dto.AuthCheck{}, err
	}

	if user == nil {
		return dto.AuthCheck{
			IsAuthenticated: false,
			Message:         s.loginMessage(),
		}, nil
	}

	return dto.AuthCheck{
		IsAuthenticated: true,
		UserID:          user.ID.String(),
		UserName:        user.Name,
	}, nil
}

func (s *AuthService) loginMessage() string {
	return fmt.Sprintf(
		"Olá! 👋 Para usar o assistente de despesas você precisa conectar sua conta.\n\nAcesse o link abaixo para fazer login com o Discord:\n%s",
		s.loginURL,
	)
}

// LoginURL exposes the web login entry point for the /login command.
func (s *AuthService) LoginURL() string {
	return s.loginURL
}
