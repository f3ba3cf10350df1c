package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	_ repository.TransactionalStore = (*RowStore)(nil)
	_ Querier                       = pgx.Tx(nil)
)

// RowStore implementación PostgreSQL del puerto repository.RowStore.
// Sobre un pgx.Tx, InTx abre un savepoint.
type RowStore struct {
	db Querier
}

// NewRowStore construye el store sobre un pool o una transacción.
func NewRowStore(db Querier) *RowStore {
	return &RowStore{db: db}
}

// InTx Commit si fn termina sin error, Rollback en otro caso.
func (s *RowStore) InTx(ctx context.Context, fn func(tx repository.RowStore) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.NewStorageError("begin", "", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRowStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.NewStorageError("commit", "", err)
	}
	return nil
}

func (s *RowStore) Select(ctx context.Context, table string, q repository.Query) ([]repository.Row, error) {
	schema, err := repository.Resolve(table)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckQuery(q); err != nil {
		return nil, err
	}
	sql, args := buildSelect(schema, q)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError("select", table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapError("select", table, err)
	}
	out := make([]repository.Row, len(maps))
	for i, m := range maps {
		row := repository.Row(m)
		for _, name := range q.Embed {
			if nested, ok := row[name].(map[string]any); ok {
				row[name] = repository.Row(nested)
			}
		}
		out[i] = row
	}
	return out, nil
}

func (s *RowStore) Insert(ctx context.Context, table string, row repository.Row) (repository.Row, error) {
	schema, err := repository.Resolve(table)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckRow(row); err != nil {
		return nil, err
	}
	sql, args := buildInsert(schema, row)
	return s.queryOne(ctx, "insert", table, sql, args)
}

func (s *RowStore) Update(ctx context.Context, table string, id int64, patch repository.Row) (repository.Row, error) {
	return s.UpdateIf(ctx, table, id, nil, patch)
}

func (s *RowStore) UpdateIf(ctx context.Context, table string, id int64, cond []repository.Filter, patch repository.Row) (repository.Row, error) {
	schema, err := repository.Resolve(table)
	if err != nil {
		return nil, err
	}
	if schema.AppendOnly {
		return nil, repository.ErrAppendOnly(table)
	}
	if err := schema.CheckRow(patch); err != nil {
		return nil, err
	}
	if err := schema.CheckFilters(cond); err != nil {
		return nil, err
	}

	sql, args, ok := buildUpdate(schema, id, cond, patch)
	if !ok {
		return s.selectGuarded(ctx, schema, id, cond)
	}
	row, err := s.queryOne(ctx, "update", table, sql, args)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, s.missOrConflict(ctx, schema, id, cond)
	}
	return row, err
}

func (s *RowStore) Delete(ctx context.Context, table string, id int64) error {
	schema, err := repository.Resolve(table)
	if err != nil {
		return err
	}
	if schema.AppendOnly {
		return repository.ErrAppendOnly(table)
	}
	sql, args := buildDelete(schema, id)
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapError("delete", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *RowStore) queryOne(ctx context.Context, op, table, sql string, args []any) (repository.Row, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(op, table, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapError(op, table, err)
	}
	return repository.Row(m), nil
}

// selectGuarded lectura con la misma semántica que un UpdateIf sin columnas que cambiar.
func (s *RowStore) selectGuarded(ctx context.Context, schema repository.TableSchema, id int64, cond []repository.Filter) (repository.Row, error) {
	filters := append([]repository.Filter{repository.Eq("id", id)}, cond...)
	rows, err := s.Select(ctx, schema.Name, repository.Query{Filters: filters})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, s.missOrConflict(ctx, schema, id, cond)
	}
	return rows[0], nil
}

// missOrConflict distingue entre fila inexistente y condición no cumplida.
func (s *RowStore) missOrConflict(ctx context.Context, schema repository.TableSchema, id int64, cond []repository.Filter) error {
	if len(cond) == 0 {
		return domain.ErrNotFound
	}
	var exists bool
	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", ident(schema.Name), ident("id"))
	if err := s.db.QueryRow(ctx, sql, id).Scan(&exists); err != nil {
		return mapError("update", schema.Name, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentUpdate
}
