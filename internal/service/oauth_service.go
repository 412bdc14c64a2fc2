package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"despesabot/internal/models"
	"despesabot/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const discordProfileURL = "https://discord.com/api/users/@me"

var ErrOAuthExchange = errors.New("oauth code exchange failed")

type accountStore interface {
	FindUserByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	CreateUserWithAccount(ctx context.Context, user *models.User, discordID string) error
}

// discordProfile is the subset of the /users/@me response we consume.
type discordProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	GlobalName string `json:"global_name"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	Avatar     string `json:"avatar"`
}

// OAuthService runs the Discord authorization-code handshake and links the
// resulting identity to an internal user.
type OAuthService struct {
	oauth      *oauth2.Config
	httpClient *http.Client
	accounts   accountStore
	logger     *zap.Logger
}

func NewOAuthService(cfg *config.DiscordConfig, baseURL string, accounts accountStore, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  baseURL + "/api/auth/callback/discord",
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
		},
		httpClient: &http.Client{},
		accounts:   accounts,
		logger:     logger,
	}
}

// AuthCodeURL builds the provider consent URL for the given CSRF state.
func (s *OAuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, fetches the Discord
// profile and returns the linked user, creating user and account rows on
// first login.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("OAuth exchange failed", zap.Error(err))
		return nil, ErrOAuthExchange
	}

	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.accounts.FindUserByDiscordID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	name := profile.GlobalName
	if name == "" {
		name = profile.Username
	}

	user = &models.User{
		Name:          name,
		Email:         profile.Email,
		EmailVerified: profile.Verified,
	}
	if profile.Avatar != "" {
		avatarURL := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", profile.ID, profile.Avatar)
		user.Image = &avatarURL
	}

	if err := s.accounts.CreateUserWithAccount(ctx, user, profile.ID); err != nil {
		return nil, err
	}

	s.logger.Info("New user linked via Discord",
		zap.String("user_id", user.ID.String()),
		zap.String("discord_id", profile.ID),
	)

	return user, nil
}

func (s *OAuthService) fetchProfile(ctx context.Context, token *oauth2.Token) (*discordProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", discordProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var profile discordProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	return &profile, nil
}
