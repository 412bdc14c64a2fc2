package api

import (
	"errors"
	"time"

	"despesabot/internal/api/handlers"
	"despesabot/pkg/apperr"
	"despesabot/pkg/auth"
	"despesabot/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const loginSuccessPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="utf-8">
  <title>Login concluído</title>
</head>
<body>
  <h1>Login concluído! ✅</h1>
  <p>Sua conta do Discord foi conectada. Pode voltar para o Discord e conversar com o assistente.</p>
</body>
</html>`

// SetupRouter builds the fiber app serving the OAuth handshake and the
// liveness endpoint.
func SetupRouter(authHandler *handlers.AuthHandler, tokens *auth.TokenManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return c.Status(appErr.Status).JSON(fiber.Map{
					"error":   appErr.Code,
					"message": appErr.Message,
				})
			}

			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	startedAt := time.Now()
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	})

	app.Get("/login/discord", authHandler.LoginRedirect)
	app.Get("/login-success", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(loginSuccessPage)
	})

	authRoutes := app.Group("/api/auth")
	authRoutes.Get("/callback/discord", authHandler.Callback)
	authRoutes.Get("/me", middleware.Auth(tokens, appLogger), authHandler.Me)

	return app
}
