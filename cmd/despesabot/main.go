package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"despesabot/internal/api"
	"despesabot/internal/api/handlers"
	"despesabot/internal/bot"
	"despesabot/internal/repository"
	"despesabot/internal/service"
	"despesabot/internal/usecase"
	"despesabot/pkg/auth"
	"despesabot/pkg/config"
	"despesabot/pkg/logger"
	"despesabot/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	// Load configuration; missing required variables abort startup.
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting despesabot")

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	authRepo := repository.NewAuthRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)

	// Services
	tokens := auth.NewTokenManager(cfg.JWT.SecretKey, cfg.JWT.Expiration)
	authService := service.NewAuthService(authRepo, cfg.Server.BaseURL, appLogger)
	oauthService := service.NewOAuthService(&cfg.Discord, cfg.Server.BaseURL, authRepo, appLogger)

	agentService, err := service.NewAgentService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize agent service", zap.Error(err))
	}
	defer agentService.Close()

	transcriptionService, err := service.NewTranscriptionService(&cfg.SaluteSpeech, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize transcription service", zap.Error(err))
	}

	// Use cases
	expenseUseCase := usecase.NewExpenseUseCase(expenseRepo, authRepo, appLogger)
	messageUseCase := usecase.NewMessageUseCase(authService, agentService, appLogger)

	// Discord bot
	session, err := bot.NewSession(cfg.Discord.BotToken)
	if err != nil {
		appLogger.Fatal("Failed to create Discord session", zap.Error(err))
	}

	deliverer := bot.NewDeliverer(session, appLogger)
	dispatcher := bot.NewDispatcher(messageUseCase, transcriptionService, deliverer, appLogger)
	commands := bot.NewCommandHandler(authService, expenseUseCase, authRepo, appLogger)
	discordBot := bot.New(session, cfg.Discord.ClientID, dispatcher, commands, appLogger)

	if err := discordBot.Start(); err != nil {
		appLogger.Fatal("Failed to start Discord bot", zap.Error(err))
	}

	// HTTP server (OAuth handshake + liveness)
	authHandler := handlers.NewAuthHandler(oauthService, tokens, authRepo, appLogger)
	app := api.SetupRouter(authHandler, tokens, appLogger)

	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	if err := discordBot.Stop(); err != nil {
		appLogger.Error("Discord shutdown error", zap.Error(err))
	}
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
