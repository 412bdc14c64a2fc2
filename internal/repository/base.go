package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"despesabot/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrNotCreated = errors.New("record not created")
	ErrNotFound   = errors.New("record not found")
)

const (
	defaultPageLimit = 8
	defaultPage      = 1
)

// Mapping ties an entity type to its table. Scan is the single piece of
// entity-specific code a concrete repository must provide: a deterministic
// transform from a raw row to the typed entity. Values mirrors it for
// inserts, and Meta exposes the embedded Entity so the base can manage
// identity and timestamps.
type Mapping[T any] struct {
	Table      string
	Columns    []string
	SoftDelete bool
	Scan       func(row pgx.Row) (*T, error)
	Values     func(e *T) []any
	Meta       func(e *T) *models.Entity
}

// Base is the generic CRUD surface shared by every repository.
type Base[T any] struct {
	db      Querier
	mapping Mapping[T]
	logger  *zap.Logger
}

func NewBase[T any](db Querier, mapping Mapping[T], logger *zap.Logger) *Base[T] {
	return &Base[T]{
		db:      db,
		mapping: mapping,
		logger:  logger,
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (b *Base[T]) WithTx(tx pgx.Tx) *Base[T] {
	return &Base[T]{
		db:      tx,
		mapping: b.mapping,
		logger:  b.logger,
	}
}

type PageParams struct {
	Page           int
	Limit          int
	OrderBy        string
	OrderDirection string
}

type Page[T any] struct {
	Data       []*T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Normalize applies the pagination defaults: page 1, limit 8, ordering by
// creation time ascending.
func (p PageParams) Normalize() PageParams {
	if p.Page <= 0 {
		p.Page = defaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.OrderBy == "" {
		p.OrderBy = "created_at"
	}
	if p.OrderDirection != "DESC" {
		p.OrderDirection = "ASC"
	}
	return p
}

// TotalPages computes ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// Create inserts a new record, assigning id and timestamps. Returns
// ErrNotCreated when the insert yields no row.
func (b *Base[T]) Create(ctx context.Context, entity *T) error {
	b.mapping.Meta(entity).Stamp()

	query := squirrel.Insert(b.mapping.Table).
		Columns(b.mapping.Columns...).
		Values(b.mapping.Values(entity)...).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	var id uuid.UUID
	if err := b.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotCreated
		}
		return err
	}

	return nil
}

// Update applies a partial column map to the record with the given id,
// refreshing updated_at. Returns the updated entity, or ErrNotFound when no
// live row matches.
func (b *Base[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	builder := squirrel.Update(b.mapping.Table).
		SetMap(fields).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + columnList(b.mapping.Columns)).
		PlaceholderFormat(squirrel.Dollar)

	if b.mapping.SoftDelete {
		builder = builder.Where(squirrel.Eq{"deleted_at": nil})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	entity, err := b.mapping.Scan(b.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return entity, nil
}

// FindByID returns the entity or (nil, nil) when absent. Absence is not an
// error here.
func (b *Base[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := b.selectLive().Where(squirrel.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	entity, err := b.mapping.Scan(b.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entity, nil
}

// FindAll returns every live record matching the optional predicate, ordered
// by creation time ascending.
func (b *Base[T]) FindAll(ctx context.Context, predicate squirrel.Sqlizer) ([]*T, error) {
	query := b.selectLive().OrderBy("created_at ASC")
	if predicate != nil {
		query = query.Where(predicate)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return b.queryMany(ctx, sql, args)
}

// FindWithPagination returns one page of live records plus count metadata
// computed over the same predicate.
func (b *Base[T]) FindWithPagination(ctx context.Context, params PageParams, predicate squirrel.Sqlizer) (*Page[T], error) {
	params = params.Normalize()

	count := squirrel.Select("COUNT(*)").
		From(b.mapping.Table).
		PlaceholderFormat(squirrel.Dollar)
	if b.mapping.SoftDelete {
		count = count.Where(squirrel.Eq{"deleted_at": nil})
	}
	if predicate != nil {
		count = count.Where(predicate)
	}

	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, err
	}

	var total int
	if err := b.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	query := b.selectLive().
		OrderBy(params.OrderBy + " " + params.OrderDirection).
		Limit(uint64(params.Limit)).
		Offset(uint64((params.Page - 1) * params.Limit))
	if predicate != nil {
		query = query.Where(predicate)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	data, err := b.queryMany(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: TotalPages(total, params.Limit),
	}, nil
}

// SoftDelete marks the record deleted, refreshing updated_at. Returns
// ErrNotFound when no live row matches.
func (b *Base[T]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if !b.mapping.SoftDelete {
		return fmt.Errorf("table %s does not support soft delete", b.mapping.Table)
	}

	now := time.Now().UTC()
	query := squirrel.Update(b.mapping.Table).
		Set("deleted_at", now).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := b.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// HardDelete physically removes the row. Deleting an absent id is a no-op,
// not an error.
func (b *Base[T]) HardDelete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete(b.mapping.Table).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = b.db.Exec(ctx, sql, args...)
	return err
}

func (b *Base[T]) selectLive() squirrel.SelectBuilder {
	query := squirrel.Select(b.mapping.Columns...).
		From(b.mapping.Table).
		PlaceholderFormat(squirrel.Dollar)
	if b.mapping.SoftDelete {
		query = query.Where(squirrel.Eq{"deleted_at": nil})
	}
	return query
}

func (b *Base[T]) queryMany(ctx context.Context, sql string, args []any) ([]*T, error) {
	rows, err := b.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*T
	for rows.Next() {
		entity, err := b.mapping.Scan(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, rows.Err()
}

func columnList(columns []string) string {
	return strings.Join(columns, ", ")
}
