package handlers

import (
	"context"
	"time"

	"despesabot/internal/dto"
	"despesabot/internal/models"
	"despesabot/internal/service"
	"despesabot/pkg/auth"
	"despesabot/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookie = "despesabot_oauth_state"

type userGetter interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthHandler bridges inbound web requests onto the OAuth flow. It always
// answers the request: any bridging failure collapses to a fixed 500 with a
// generic code, never a leaked error.
type AuthHandler struct {
	oauth  *service.OAuthService
	tokens *auth.TokenManager
	users  userGetter
	logger *zap.Logger
}

func NewAuthHandler(oauth *service.OAuthService, tokens *auth.TokenManager, users userGetter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		oauth:  oauth,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// LoginRedirect sends the browser to the Discord consent screen.
func (h *AuthHandler) LoginRedirect(c *fiber.Ctx) error {
	state := uuid.New().String()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(h.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// Callback finishes the handshake: code exchange, user link, session
// cookie, redirect to the confirmation page.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" || state != c.Cookies(stateCookie) {
		h.logger.Warn("OAuth callback with missing or mismatched state")
		return h.authFailed(c)
	}

	user, err := h.oauth.HandleCallback(c.Context(), code)
	if err != nil {
		h.logger.Error("OAuth callback failed", zap.Error(err))
		return h.authFailed(c)
	}

	token, err := h.tokens.Generate(user.ID.String(), user.Name)
	if err != nil {
		h.logger.Error("Session token generation failed", zap.Error(err))
		return h.authFailed(c)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: "Lax",
		Expires:  time.Now().Add(h.tokens.Expiration()),
	})
	c.ClearCookie(stateCookie)

	return c.Redirect("/login-success", fiber.StatusTemporaryRedirect)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return h.authFailed(c)
	}

	user, err := h.users.FindByID(c.Context(), userID)
	if err != nil {
		h.logger.Error("Profile lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return h.authFailed(c)
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "NOT_FOUND",
		})
	}

	return c.JSON(dto.SessionUser{
		ID:            user.ID.String(),
		Name:          user.Name,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		Image:         user.Image,
		MonthlySalary: user.MonthlySalary,
	})
}

func (h *AuthHandler) authFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "AUTH_FAILED",
	})
}
