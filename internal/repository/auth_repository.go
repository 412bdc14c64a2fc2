package repository

import (
	"context"
	"errors"

	"despesabot/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "name", "email", "email_verified", "image", "monthly_salary",
	"created_at", "updated_at", "deleted_at",
}

var accountColumns = []string{
	"id", "account_id", "provider_id", "user_id", "created_at", "updated_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &u.Image, &u.MonthlySalary,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func userMapping() Mapping[models.User] {
	return Mapping[models.User]{
		Table:      "users",
		Columns:    userColumns,
		SoftDelete: true,
		Scan:       scanUser,
		Values: func(u *models.User) []any {
			return []any{
				u.ID, u.Name, u.Email, u.EmailVerified, u.Image, u.MonthlySalary,
				u.CreatedAt, u.UpdatedAt, u.DeletedAt,
			}
		},
		Meta: func(u *models.User) *models.Entity { return &u.Entity },
	}
}

func accountMapping() Mapping[models.Account] {
	return Mapping[models.Account]{
		Table:   "accounts",
		Columns: accountColumns,
		Scan: func(row pgx.Row) (*models.Account, error) {
			var a models.Account
			if err := row.Scan(
				&a.ID, &a.AccountID, &a.ProviderID, &a.UserID,
				&a.CreatedAt, &a.UpdatedAt,
			); err != nil {
				return nil, err
			}
			return &a, nil
		},
		Values: func(a *models.Account) []any {
			return []any{a.ID, a.AccountID, a.ProviderID, a.UserID, a.CreatedAt, a.UpdatedAt}
		},
		Meta: func(a *models.Account) *models.Entity { return &a.Entity },
	}
}

// AuthRepository owns users and their linked provider accounts.
type AuthRepository struct {
	*Base[models.User]
	accounts *Base[models.Account]
	pool     *pgxpool.Pool
	logger   *zap.Logger
}

func NewAuthRepository(pool *pgxpool.Pool, logger *zap.Logger) *AuthRepository {
	return &AuthRepository{
		Base:     NewBase(pool, userMapping(), logger),
		accounts: NewBase(pool, accountMapping(), logger),
		pool:     pool,
		logger:   logger,
	}
}

// FindUserByDiscordID resolves a Discord identity to the linked internal
// user via the accounts join. Returns (nil, nil) when no link exists.
func (r *AuthRepository) FindUserByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	query := squirrel.Select(
		"u.id", "u.name", "u.email", "u.email_verified", "u.image", "u.monthly_salary",
		"u.created_at", "u.updated_at", "u.deleted_at",
	).
		From("users u").
		Join("accounts a ON a.user_id = u.id").
		Where(squirrel.Eq{
			"a.account_id":  discordID,
			"a.provider_id": models.ProviderDiscord,
			"u.deleted_at":  nil,
		}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// SearchUsersByName returns users whose name contains the given fragment,
// case-insensitively.
func (r *AuthRepository) SearchUsersByName(ctx context.Context, name string) ([]*models.User, error) {
	return r.FindAll(ctx, squirrel.ILike{"name": "%" + name + "%"})
}

func (r *AuthRepository) UpdateMonthlySalary(ctx context.Context, userID uuid.UUID, salary float64) (*models.User, error) {
	return r.Update(ctx, userID, map[string]any{"monthly_salary": salary})
}

func (r *AuthRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return r.Update(ctx, userID, map[string]any{"email_verified": true})
}

// CreateUserWithAccount creates a user and its Discord account link in one
// transaction, for first-time social logins.
func (r *AuthRepository) CreateUserWithAccount(ctx context.Context, user *models.User, discordID string) error {
	return InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := r.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		account := &models.Account{
			AccountID:  discordID,
			ProviderID: models.ProviderDiscord,
			UserID:     user.ID,
		}
		return r.accounts.WithTx(tx).Create(ctx, account)
	})
}

// UnlinkDiscordAccount removes the Discord account link. Unlinking an
// unknown identity is a no-op.
func (r *AuthRepository) UnlinkDiscordAccount(ctx context.Context, discordID string) error {
	query := squirrel.Delete("accounts").
		Where(squirrel.Eq{
			"account_id":  discordID,
			"provider_id": models.ProviderDiscord,
		}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, sql, args...)
	return err
}
