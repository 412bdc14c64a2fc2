package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"despesabot/internal/dto"
	"despesabot/internal/models"
	"despesabot/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExpenseStore struct {
	created    *models.Expense
	byID       map[uuid.UUID]*models.Expense
	updated    map[string]any
	deleted    []uuid.UUID
	page       *repository.Page[models.Expense]
	totals     []repository.CategoryTotal
	sum        float64
	createErr  error
	findErr    error
	updateResp *models.Expense
}

func (f *fakeExpenseStore) Create(ctx context.Context, expense *models.Expense) error {
	if f.createErr != nil {
		return f.createErr
	}
	expense.Stamp()
	f.created = expense
	return nil
}

func (f *fakeExpenseStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[id], nil
}

func (f *fakeExpenseStore) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Expense, error) {
	f.updated = fields
	if f.updateResp != nil {
		return f.updateResp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExpenseStore) HardDelete(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeExpenseStore) FindByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (*repository.Page[models.Expense], error) {
	return f.page, nil
}

func (f *fakeExpenseStore) GetTotalByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (float64, error) {
	return f.sum, nil
}

func (f *fakeExpenseStore) GetExpensesByCategory(ctx context.Context, userID uuid.UUID) ([]repository.CategoryTotal, error) {
	return f.totals, nil
}

type fakeUserFinder struct {
	user *models.User
	err  error
}

func (f *fakeUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.user, f.err
}

func knownUser() *fakeUserFinder {
	u := &models.User{Name: "Ana"}
	u.ID = uuid.New()
	return &fakeUserFinder{user: u}
}

func TestCreateExpenseDefaults(t *testing.T) {
	store := &fakeExpenseStore{}
	uc := NewExpenseUseCase(store, knownUser(), zap.NewNop())

	result := uc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseInput{
		Description: "Supermercado",
		Amount:      80,
		Category:    "essentials",
	})

	require.True(t, result.Success, result.Error)
	require.NotNil(t, store.created)
	assert.Equal(t, time.Now().Format("2006-01-02"), store.created.Date)
	assert.False(t, store.created.IsRecurring)
	assert.NotZero(t, store.created.ID)
	assert.False(t, store.created.CreatedAt.IsZero())
	assert.False(t, store.created.UpdatedAt.Before(store.created.CreatedAt))
}

func TestCreateExpenseInvalidCategory(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{}, knownUser(), zap.NewNop())

	result := uc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseInput{
		Description: "Picanha",
		Amount:      90,
		Category:    "churrasco",
	})

	assert.False(t, result.Success)
	assert.Equal(t, msgInvalidExpense, result.Error)
}

func TestCreateExpenseUnknownUser(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{}, &fakeUserFinder{}, zap.NewNop())

	result := uc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseInput{
		Description: "Supermercado",
		Amount:      80,
		Category:    "essentials",
	})

	assert.False(t, result.Success)
	assert.Equal(t, msgUserNotFound, result.Error)
}

func TestCreateExpenseStorageFailureCollapses(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{createErr: errors.New("boom")}, knownUser(), zap.NewNop())

	result := uc.CreateExpense(context.Background(), uuid.New(), dto.CreateExpenseInput{
		Description: "Supermercado",
		Amount:      80,
		Category:    "essentials",
	})

	assert.False(t, result.Success)
	assert.Equal(t, msgCreateFailed, result.Error)
}

func TestUpdateExpensePartialFields(t *testing.T) {
	id := uuid.New()
	existing := &models.Expense{Description: "Mercado", Amount: 50, Category: models.CategoryEssentials}
	existing.ID = id

	store := &fakeExpenseStore{
		byID:       map[uuid.UUID]*models.Expense{id: existing},
		updateResp: existing,
	}
	uc := NewExpenseUseCase(store, knownUser(), zap.NewNop())

	amount := 75.5
	result := uc.UpdateExpense(context.Background(), id, dto.UpdateExpenseInput{Amount: &amount})

	require.True(t, result.Success, result.Error)
	assert.Equal(t, map[string]any{"amount": 75.5}, store.updated)
}

func TestUpdateExpenseNoFieldsIsNoOp(t *testing.T) {
	id := uuid.New()
	existing := &models.Expense{Description: "Mercado"}
	existing.ID = id

	store := &fakeExpenseStore{byID: map[uuid.UUID]*models.Expense{id: existing}}
	uc := NewExpenseUseCase(store, knownUser(), zap.NewNop())

	result := uc.UpdateExpense(context.Background(), id, dto.UpdateExpenseInput{})

	require.True(t, result.Success)
	assert.Nil(t, store.updated)
	assert.Equal(t, existing, result.Data)
}

func TestUpdateExpenseNotFound(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{}, knownUser(), zap.NewNop())

	result := uc.UpdateExpense(context.Background(), uuid.New(), dto.UpdateExpenseInput{})

	assert.False(t, result.Success)
	assert.Equal(t, msgExpenseNotFound, result.Error)
}

func TestDeleteExpenseChecksOwnership(t *testing.T) {
	id := uuid.New()
	owner := uuid.New()
	expense := &models.Expense{UserID: owner}
	expense.ID = id

	store := &fakeExpenseStore{byID: map[uuid.UUID]*models.Expense{id: expense}}
	uc := NewExpenseUseCase(store, knownUser(), zap.NewNop())

	result := uc.DeleteExpense(context.Background(), id, uuid.New())
	assert.False(t, result.Success)
	assert.Equal(t, msgNotYourExpense, result.Error)
	assert.Empty(t, store.deleted)

	result = uc.DeleteExpense(context.Background(), id, owner)
	require.True(t, result.Success)
	assert.Equal(t, []uuid.UUID{id}, store.deleted)
}

func TestDeleteExpenseAbsentIsIdempotent(t *testing.T) {
	store := &fakeExpenseStore{}
	uc := NewExpenseUseCase(store, knownUser(), zap.NewNop())

	result := uc.DeleteExpense(context.Background(), uuid.New(), uuid.New())

	assert.True(t, result.Success)
	assert.Empty(t, store.deleted)
}

func TestGetUserExpensesUnknownUser(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{}, &fakeUserFinder{}, zap.NewNop())

	result := uc.GetUserExpenses(context.Background(), uuid.New(), dto.ExpenseFilters{})

	assert.False(t, result.Success)
	assert.Equal(t, msgUserNotFound, result.Error)
}

func TestGetCategorySummaryEmpty(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{totals: []repository.CategoryTotal{}}, knownUser(), zap.NewNop())

	result := uc.GetCategorySummary(context.Background(), uuid.New())

	require.True(t, result.Success)
	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
}

func TestFormatExpenseForDisplay(t *testing.T) {
	uc := NewExpenseUseCase(&fakeExpenseStore{}, knownUser(), zap.NewNop())

	expense := &models.Expense{
		Date:        "2026-08-03",
		Description: "Supermercado",
		Amount:      1234.56,
		Category:    models.CategoryEssentials,
		IsRecurring: true,
	}
	expense.ID = uuid.New()

	display := uc.FormatExpenseForDisplay(expense)

	assert.Equal(t, "R$ 1.234,56", display.Amount)
	assert.Equal(t, "Essenciais", display.CategoryLabel)
	assert.Equal(t, "2026-08-03", display.Date)
	assert.True(t, display.Recurring)
}
