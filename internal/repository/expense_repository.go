package repository

import (
	"context"

	"despesabot/internal/dto"
	"despesabot/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const expensePageLimit = 50

var expenseColumns = []string{
	"id", "date", "description", "amount", "category", "is_recurring",
	"user_id", "created_at", "updated_at",
}

func expenseMapping() Mapping[models.Expense] {
	return Mapping[models.Expense]{
		Table:   "expenses",
		Columns: expenseColumns,
		Scan: func(row pgx.Row) (*models.Expense, error) {
			var e models.Expense
			if err := row.Scan(
				&e.ID, &e.Date, &e.Description, &e.Amount, &e.Category,
				&e.IsRecurring, &e.UserID, &e.CreatedAt, &e.UpdatedAt,
			); err != nil {
				return nil, err
			}
			return &e, nil
		},
		Values: func(e *models.Expense) []any {
			return []any{
				e.ID, e.Date, e.Description, e.Amount, e.Category,
				e.IsRecurring, e.UserID, e.CreatedAt, e.UpdatedAt,
			}
		},
		Meta: func(e *models.Expense) *models.Entity { return &e.Entity },
	}
}

// CategoryTotal is one row of the per-category aggregation.
type CategoryTotal struct {
	Category models.ExpenseCategory
	Total    float64
	Count    int
}

type ExpenseRepository struct {
	*Base[models.Expense]
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewExpenseRepository(pool *pgxpool.Pool, logger *zap.Logger) *ExpenseRepository {
	return &ExpenseRepository{
		Base:   NewBase(pool, expenseMapping(), logger),
		pool:   pool,
		logger: logger,
	}
}

// expenseFilter translates the optional filter set into a predicate. An
// empty filter set matches all of the user's records.
func expenseFilter(userID uuid.UUID, filters dto.ExpenseFilters) squirrel.And {
	pred := squirrel.And{squirrel.Eq{"user_id": userID}}
	if filters.Category != "" {
		pred = append(pred, squirrel.Eq{"category": filters.Category})
	}
	if filters.StartDate != "" {
		pred = append(pred, squirrel.GtOrEq{"date": filters.StartDate})
	}
	if filters.EndDate != "" {
		pred = append(pred, squirrel.LtOrEq{"date": filters.EndDate})
	}
	if filters.Description != "" {
		pred = append(pred, squirrel.ILike{"description": "%" + filters.Description + "%"})
	}
	return pred
}

// FindByUserID lists a user's expenses, newest first, applying the optional
// filters. Default page size is 50.
func (r *ExpenseRepository) FindByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (*Page[models.Expense], error) {
	params := PageParams{
		Page:           filters.Page,
		Limit:          filters.Limit,
		OrderBy:        "created_at",
		OrderDirection: "DESC",
	}
	if params.Limit <= 0 {
		params.Limit = expensePageLimit
	}

	return r.FindWithPagination(ctx, params, expenseFilter(userID, filters))
}

// GetTotalByUserID sums the user's expenses over the same filter set,
// returning zero when nothing matches.
func (r *ExpenseRepository) GetTotalByUserID(ctx context.Context, userID uuid.UUID, filters dto.ExpenseFilters) (float64, error) {
	query := squirrel.Select("COALESCE(SUM(amount), 0)").
		From("expenses").
		Where(expenseFilter(userID, filters)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// GetExpensesByCategory groups the user's expenses by category with sum and
// count. A user with no expenses gets an empty slice, not an error.
func (r *ExpenseRepository) GetExpensesByCategory(ctx context.Context, userID uuid.UUID) ([]CategoryTotal, error) {
	query := squirrel.Select("category", "COALESCE(SUM(amount), 0)", "COUNT(*)").
		From("expenses").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("category").
		OrderBy("category ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []CategoryTotal{}
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}

// FindRecurringExpenses lists the user's recurring expenses.
func (r *ExpenseRepository) FindRecurringExpenses(ctx context.Context, userID uuid.UUID) ([]*models.Expense, error) {
	return r.FindAll(ctx, squirrel.Eq{"user_id": userID, "is_recurring": true})
}
