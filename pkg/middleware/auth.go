package middleware

import (
	"strings"

	"despesabot/pkg/apperr"
	"despesabot/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const SessionCookie = "despesabot_session"

// Auth validates the session token from the cookie or Authorization header
// and stores the claims in the request context.
func Auth(tokens *auth.TokenManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			header := c.Get("Authorization")
			token = strings.TrimPrefix(header, "Bearer ")
		}
		if token == "" {
			return apperr.Unauthorized("missing session token")
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			logger.Warn("Invalid session token", zap.Error(err))
			return apperr.Unauthorized("invalid session token").WithCause(err)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("userName", claims.UserName)

		return c.Next()
	}
}
