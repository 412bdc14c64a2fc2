package bot

import (
	"context"
	"fmt"
	"strings"

	"despesabot/internal/dto"
	"despesabot/internal/models"
	"despesabot/internal/repository"
	"despesabot/internal/service"
	"despesabot/internal/usecase"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const despesasPageSize = 10

type accountUnlinker interface {
	UnlinkDiscordAccount(ctx context.Context, discordID string) error
}

// CommandHandler serves the slash commands: /login, /logout and /despesas.
type CommandHandler struct {
	auth     *service.AuthService
	expenses *usecase.ExpenseUseCase
	accounts accountUnlinker
	logger   *zap.Logger
}

func NewCommandHandler(auth *service.AuthService, expenses *usecase.ExpenseUseCase, accounts accountUnlinker, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		auth:     auth,
		expenses: expenses,
		accounts: accounts,
		logger:   logger,
	}
}

// Definitions returns the application commands to register at startup.
func Definitions() []*discordgo.ApplicationCommand {
	categoryChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		categoryChoices = append(categoryChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  c.Label(),
			Value: string(c),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "login",
			Description: "Conectar sua conta do Discord ao assistente",
		},
		{
			Name:        "logout",
			Description: "Desconectar sua conta do assistente",
		},
		{
			Name:        "despesas",
			Description: "Listar suas despesas",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "categoria",
					Description: "Filtrar por categoria",
					Choices:     categoryChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "pagina",
					Description: "Página da listagem",
				},
			},
		},
	}
}

// HandleInteraction is registered as the discordgo InteractionCreate
// handler.
func (h *CommandHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := interactionUser(i)
	if user == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Command pipeline panic",
				zap.String("command", i.ApplicationCommandData().Name),
				zap.String("author_id", user.ID),
				zap.Any("panic", r),
			)
			h.respond(s, i, msgPipelineFailed)
		}
	}()

	ctx := context.Background()

	switch i.ApplicationCommandData().Name {
	case "login":
		h.handleLogin(s, i)
	case "logout":
		h.handleLogout(ctx, s, i, user.ID)
	case "despesas":
		h.handleDespesas(ctx, s, i, user.ID)
	}
}

func (h *CommandHandler) handleLogin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.respond(s, i, fmt.Sprintf("Acesse o link para conectar sua conta:\n%s", h.auth.LoginURL()))
}

func (h *CommandHandler) handleLogout(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID string) {
	if err := h.accounts.UnlinkDiscordAccount(ctx, discordID); err != nil {
		h.logger.Error("Logout failed",
			zap.String("discord_id", discordID),
			zap.Error(err),
		)
		h.respond(s, i, "Não foi possível desconectar sua conta. Tente novamente.")
		return
	}
	h.respond(s, i, "Conta desconectada. Até logo! 👋")
}

func (h *CommandHandler) handleDespesas(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID string) {
	check, err := h.auth.CheckAuth(ctx, discordID)
	if err != nil {
		h.respond(s, i, msgPipelineFailed)
		return
	}
	if !check.IsAuthenticated {
		h.respond(s, i, check.Message)
		return
	}

	userID, err := uuid.Parse(check.UserID)
	if err != nil {
		h.logger.Error("Invalid user id in auth context",
			zap.String("user_id", check.UserID),
			zap.Error(err),
		)
		h.respond(s, i, msgPipelineFailed)
		return
	}

	filters := dto.ExpenseFilters{
		Page:  1,
		Limit: despesasPageSize,
	}
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "categoria":
			filters.Category = opt.StringValue()
		case "pagina":
			if page := int(opt.IntValue()); page > 0 {
				filters.Page = page
			}
		}
	}

	result := h.expenses.GetUserExpenses(ctx, userID, filters)
	if !result.Success {
		h.respond(s, i, result.Error)
		return
	}

	h.respond(s, i, h.formatListing(ctx, userID, filters, result.Data))
}

func (h *CommandHandler) formatListing(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters, page *repository.Page[models.Expense]) string {
	if page.Total == 0 {
		return "Nenhuma despesa encontrada. 🎉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Suas despesas (página %d/%d):\n\n", page.Page, page.TotalPages)
	for _, expense := range page.Data {
		display := h.expenses.FormatExpenseForDisplay(expense)
		fmt.Fprintf(&b, "• %s — %s — %s (%s)", display.Date, display.Description, display.Amount, display.CategoryLabel)
		if display.Recurring {
			b.WriteString(" 🔁")
		}
		b.WriteString("\n")
	}

	if total := h.expenses.GetTotal(ctx, userID, dto.ExpenseFilters{Category: filters.Category}); total.Success {
		fmt.Fprintf(&b, "\nTotal: %s", usecase.FormatBRL(total.Data))
	}

	return b.String()
}

func (h *CommandHandler) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("Interaction response failed",
			zap.String("command", i.ApplicationCommandData().Name),
			zap.Error(err),
		)
	}
}

// interactionUser resolves the invoking user for both DM and guild
// interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.User != nil {
		return i.User
	}
	if i.Member != nil {
		return i.Member.User
	}
	return nil
}
