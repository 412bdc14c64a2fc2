package usecase

import (
	"context"
	"errors"
	"time"

	"despesabot/internal/dto"
	"despesabot/internal/models"
	"despesabot/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgExpenseNotFound  = "Despesa não encontrada."
	msgUserNotFound     = "Usuário não encontrado."
	msgInvalidExpense   = "Dados da despesa inválidos."
	msgNotYourExpense   = "Essa despesa não pertence a você."
	msgCreateFailed     = "Não foi possível criar a despesa. Tente novamente."
	msgFetchFailed      = "Não foi possível consultar as despesas. Tente novamente."
	msgUpdateFailed     = "Não foi possível atualizar a despesa. Tente novamente."
	msgDeleteFailed     = "Não foi possível excluir a despesa. Tente novamente."
)

type expenseStore interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Expense, error)
	HardDelete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (*repository.Page[models.Expense], error)
	GetTotalByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (float64, error)
	GetExpensesByCategory(ctx context.Context, userID uuid.UUID) ([]repository.CategoryTotal, error)
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ExpenseUseCase orchestrates expense operations behind a uniform result
// envelope. It never panics or returns a raw error to its caller: failures
// are logged and collapsed into user-facing messages.
type ExpenseUseCase struct {
	expenses expenseStore
	users    userFinder
	validate *validator.Validate
	logger   *zap.Logger
}

func NewExpenseUseCase(expenses expenseStore, users userFinder, logger *zap.Logger) *ExpenseUseCase {
	return &ExpenseUseCase{
		expenses: expenses,
		users:    users,
		validate: validator.New(),
		logger:   logger,
	}
}

// CreateExpense records a new expense for an existing user. Date defaults
// to today and is_recurring to false when absent.
func (u *ExpenseUseCase) CreateExpense(ctx context.Context, userID uuid.UUID, input dto.CreateExpenseInput) dto.Result[*models.Expense] {
	if err := u.validate.Struct(input); err != nil {
		return dto.Fail[*models.Expense](msgInvalidExpense)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		u.logger.Error("Create expense: user lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[*models.Expense](msgCreateFailed)
	}
	if user == nil {
		return dto.Fail[*models.Expense](msgUserNotFound)
	}

	expense := &models.Expense{
		Date:        input.Date,
		Description: input.Description,
		Amount:      input.Amount,
		Category:    models.ExpenseCategory(input.Category),
		UserID:      userID,
	}
	if expense.Date == "" {
		expense.Date = time.Now().Format("2006-01-02")
	}
	if input.IsRecurring != nil {
		expense.IsRecurring = *input.IsRecurring
	}

	if err := u.expenses.Create(ctx, expense); err != nil {
		u.logger.Error("Create expense failed",
			zap.String("user_id", userID.String()),
			zap.String("description", input.Description),
			zap.Error(err),
		)
		return dto.Fail[*models.Expense](msgCreateFailed)
	}

	return dto.Ok(expense)
}

// GetExpense fetches a single expense by id.
func (u *ExpenseUseCase) GetExpense(ctx context.Context, expenseID uuid.UUID) dto.Result[*models.Expense] {
	expense, err := u.expenses.FindByID(ctx, expenseID)
	if err != nil {
		u.logger.Error("Get expense failed",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err),
		)
		return dto.Fail[*models.Expense](msgFetchFailed)
	}
	if expense == nil {
		return dto.Fail[*models.Expense](msgExpenseNotFound)
	}

	return dto.Ok(expense)
}

// GetUserExpenses lists an existing user's expenses with optional filters.
func (u *ExpenseUseCase) GetUserExpenses(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) dto.Result[*repository.Page[models.Expense]] {
	if err := u.validate.Struct(filters); err != nil {
		return dto.Fail[*repository.Page[models.Expense]](msgInvalidExpense)
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		u.logger.Error("List expenses: user lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[*repository.Page[models.Expense]](msgFetchFailed)
	}
	if user == nil {
		return dto.Fail[*repository.Page[models.Expense]](msgUserNotFound)
	}

	page, err := u.expenses.FindByUserID(ctx, userID, filters)
	if err != nil {
		u.logger.Error("List expenses failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[*repository.Page[models.Expense]](msgFetchFailed)
	}

	return dto.Ok(page)
}

// UpdateExpense applies a partial update: only fields present in the input
// are touched.
func (u *ExpenseUseCase) UpdateExpense(ctx context.Context, expenseID uuid.UUID, input dto.UpdateExpenseInput) dto.Result[*models.Expense] {
	if err := u.validate.Struct(input); err != nil {
		return dto.Fail[*models.Expense](msgInvalidExpense)
	}

	current, err := u.expenses.FindByID(ctx, expenseID)
	if err != nil {
		u.logger.Error("Update expense: fetch failed",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err),
		)
		return dto.Fail[*models.Expense](msgUpdateFailed)
	}
	if current == nil {
		return dto.Fail[*models.Expense](msgExpenseNotFound)
	}

	fields := map[string]any{}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Amount != nil {
		fields["amount"] = *input.Amount
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.IsRecurring != nil {
		fields["is_recurring"] = *input.IsRecurring
	}
	if len(fields) == 0 {
		return dto.Ok(current)
	}

	updated, err := u.expenses.Update(ctx, expenseID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.Fail[*models.Expense](msgExpenseNotFound)
		}
		u.logger.Error("Update expense failed",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err),
		)
		return dto.Fail[*models.Expense](msgUpdateFailed)
	}

	return dto.Ok(updated)
}

// DeleteExpense hard-deletes an expense after verifying it belongs to the
// requesting user. Deleting an already-absent expense succeeds.
func (u *ExpenseUseCase) DeleteExpense(ctx context.Context, expenseID, userID uuid.UUID) dto.Result[bool] {
	current, err := u.expenses.FindByID(ctx, expenseID)
	if err != nil {
		u.logger.Error("Delete expense: fetch failed",
			zap.String("expense_id", expenseID.String()),
			zap.Error(err),
		)
		return dto.Fail[bool](msgDeleteFailed)
	}
	if current == nil {
		return dto.Ok(true)
	}
	if current.UserID != userID {
		return dto.Fail[bool](msgNotYourExpense)
	}

	if err := u.expenses.HardDelete(ctx, expenseID); err != nil {
		u.logger.Error("Delete expense failed",
			zap.String("expense_id", expenseID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[bool](msgDeleteFailed)
	}

	return dto.Ok(true)
}

// GetTotal sums the user's expenses over the filter set.
func (u *ExpenseUseCase) GetTotal(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) dto.Result[float64] {
	total, err := u.expenses.GetTotalByUserID(ctx, userID, filters)
	if err != nil {
		u.logger.Error("Get total failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[float64](msgFetchFailed)
	}
	return dto.Ok(total)
}

// GetCategorySummary aggregates the user's expenses per category.
func (u *ExpenseUseCase) GetCategorySummary(ctx context.Context, userID uuid.UUID) dto.Result[[]dto.CategorySummary] {
	totals, err := u.expenses.GetExpensesByCategory(ctx, userID)
	if err != nil {
		u.logger.Error("Category summary failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return dto.Fail[[]dto.CategorySummary](msgFetchFailed)
	}

	summary := make([]dto.CategorySummary, 0, len(totals))
	for _, t := range totals {
		summary = append(summary, dto.CategorySummary{
			Category: string(t.Category),
			Label:    t.Category.Label(),
			Total:    t.Total,
			Count:    t.Count,
		})
	}

	return dto.Ok(summary)
}

// FormatExpenseForDisplay projects an expense into its chat-friendly shape
// with the localized category label and formatted amount.
func (u *ExpenseUseCase) FormatExpenseForDisplay(expense *models.Expense) dto.ExpenseDisplay {
	return dto.ExpenseDisplay{
		ID:            expense.ID.String(),
		Date:          expense.Date,
		Description:   expense.Description,
		Amount:        FormatBRL(expense.Amount),
		CategoryLabel: expense.Category.Label(),
		Recurring:     expense.IsRecurring,
	}
}
