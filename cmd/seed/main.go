package main

import (
	"context"
	"log"

	"despesabot/internal/models"
	"despesabot/internal/repository"
	"despesabot/pkg/config"
	"despesabot/pkg/logger"
	"despesabot/pkg/postgres"

	"go.uber.org/zap"
)

// Seeds a demo user with a linked Discord account and a handful of sample
// expenses, for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	authRepo := repository.NewAuthRepository(db, appLogger)
	expenseRepo := repository.NewExpenseRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	const demoDiscordID = "000000000000000000"

	user, err := authRepo.FindUserByDiscordID(ctx, demoDiscordID)
	if err != nil {
		appLogger.Fatal("Failed to look up demo user", zap.Error(err))
	}

	if user == nil {
		user = &models.User{
			Name:          "Usuária Demo",
			Email:         "demo@example.com",
			EmailVerified: true,
		}
		if err := authRepo.CreateUserWithAccount(ctx, user, demoDiscordID); err != nil {
			appLogger.Fatal("Failed to create demo user", zap.Error(err))
		}
		appLogger.Info("Demo user created", zap.String("user_id", user.ID.String()))
	} else {
		appLogger.Info("Demo user already exists", zap.String("user_id", user.ID.String()))
	}

	samples := []models.Expense{
		{Date: "2026-08-03", Description: "Supermercado", Amount: 312.45, Category: models.CategoryEssentials, UserID: user.ID},
		{Date: "2026-08-05", Description: "Cinema", Amount: 48.00, Category: models.CategoryLeisure, UserID: user.ID},
		{Date: "2026-08-10", Description: "Tesouro Direto", Amount: 500.00, Category: models.CategoryInvestments, IsRecurring: true, UserID: user.ID},
		{Date: "2026-08-15", Description: "Curso de inglês", Amount: 189.90, Category: models.CategoryKnowledge, IsRecurring: true, UserID: user.ID},
		{Date: "2026-08-22", Description: "Conserto do chuveiro", Amount: 120.00, Category: models.CategoryEmergency, UserID: user.ID},
	}

	for i := range samples {
		expense := samples[i]
		if err := expenseRepo.Create(ctx, &expense); err != nil {
			appLogger.Fatal("Failed to seed expense",
				zap.String("description", expense.Description),
				zap.Error(err),
			)
		}
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.Int("expenses", len(samples)),
	)
}
