// Package memory implementa el RowStore en memoria: backend de desarrollo (STORE_BACKEND=memory)
// y de pruebas. Las transacciones se serializan entre sí y el rollback deshace solo las filas que
// tocó la transacción.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var (
	_ repository.RowStore           = (*Store)(nil)
	_ repository.TransactionalStore = (*Store)(nil)
)

type table struct {
	seq  int64
	rows map[int64]repository.Row
}

// Store guarda filas por tabla detrás de un RWMutex. Solo acepta las tablas y columnas del
// registro repository.Schema, igual que el backend PostgreSQL.
type Store struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	tables map[string]*table
	now    func() time.Time
}

// Option configura el Store.
type Option func(*Store)

// WithClock fija el reloj usado para created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New crea un store vacío con todas las tablas del esquema.
func New(opts ...Option) *Store {
	s := &Store{
		tables: make(map[string]*table, len(repository.Schema)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for name := range repository.Schema {
		s.tables[name] = &table{rows: make(map[int64]repository.Row)}
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// InTx ejecuta fn en exclusión mutua con otras transacciones. Si fn falla se restaura el estado
// previo de las filas escritas a través de tx; el resto de escrituras se conserva.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.RowStore) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("begin", "", err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txStore{s: s, j: newJournal()}
	if err := fn(tx); err != nil {
		s.mu.Lock()
		tx.j.rollback(s.tables)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Select filtra, ordena, pagina e incluye relaciones.
func (s *Store) Select(ctx context.Context, tableName string, q repository.Query) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("select", tableName, err)
	}
	schema, err := repository.Resolve(tableName)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckQuery(q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.tables[tableName]
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []repository.Row
	for _, id := range ids {
		row := t.rows[id]
		ok, err := matchAll(row, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, copyRow(row))
		}
	}

	if len(q.Order) > 0 {
		c := newComparer()
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				n := c.orderCompare(out[i][o.Column], out[j][o.Column], o.Desc)
				if n != 0 {
					return n < 0
				}
			}
			return false
		})
	}

	out = paginate(out, q.Limit, q.Offset)

	for _, name := range q.Embed {
		rel, _ := schema.Relation(name)
		related := s.tables[rel.Table]
		for _, row := range out {
			fk, ok := toInt64(row[rel.ForeignKey])
			if !ok {
				row[rel.Name] = nil
				continue
			}
			if r, found := related.rows[fk]; found {
				row[rel.Name] = copyRow(r)
			} else {
				row[rel.Name] = nil
			}
		}
	}
	return out, nil
}

// Insert asigna id y marcas de tiempo; las columnas omitidas quedan a nil.
func (s *Store) Insert(ctx context.Context, tableName string, row repository.Row) (repository.Row, error) {
	return s.insert(ctx, tableName, row, nil)
}

func (s *Store) insert(ctx context.Context, tableName string, row repository.Row, j *journal) (repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("insert", tableName, err)
	}
	schema, err := repository.Resolve(tableName)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckRow(row); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[tableName]
	stored := make(repository.Row, len(schema.Columns))
	for _, col := range schema.Columns {
		stored[col] = normalize(row[col])
	}
	now := s.now()
	t.seq++
	stored["id"] = t.seq
	stored["created_at"] = now
	if schema.HasColumn("updated_at") {
		stored["updated_at"] = now
	}
	if err := checkUnique(schema, t, stored, 0); err != nil {
		t.seq--
		return nil, err
	}
	j.inserted(tableName, t.seq)
	t.rows[t.seq] = stored
	return copyRow(stored), nil
}

// Update actualización parcial por id.
func (s *Store) Update(ctx context.Context, tableName string, id int64, patch repository.Row) (repository.Row, error) {
	return s.UpdateIf(ctx, tableName, id, nil, patch)
}

// UpdateIf actualización parcial condicionada.
func (s *Store) UpdateIf(ctx context.Context, tableName string, id int64, cond []repository.Filter, patch repository.Row) (repository.Row, error) {
	return s.updateIf(ctx, tableName, id, cond, patch, nil)
}

func (s *Store) updateIf(ctx context.Context, tableName string, id int64, cond []repository.Filter, patch repository.Row, j *journal) (repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("update", tableName, err)
	}
	schema, err := repository.Resolve(tableName)
	if err != nil {
		return nil, err
	}
	if schema.AppendOnly {
		return nil, repository.ErrAppendOnly(tableName)
	}
	if err := schema.CheckRow(patch); err != nil {
		return nil, err
	}
	if err := schema.CheckFilters(cond); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[tableName]
	current, ok := t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	match, err := matchAll(current, cond)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, domain.ErrConcurrentUpdate
	}

	next := copyRow(current)
	for col, v := range patch {
		if col == "id" || col == "created_at" {
			continue
		}
		next[col] = normalize(v)
	}
	if schema.HasColumn("updated_at") {
		next["updated_at"] = s.now()
	}
	if err := checkUnique(schema, t, next, id); err != nil {
		return nil, err
	}
	j.touch(tableName, id, current)
	t.rows[id] = next
	return copyRow(next), nil
}

// Delete borrado físico; no hay cascada.
func (s *Store) Delete(ctx context.Context, tableName string, id int64) error {
	return s.delete(ctx, tableName, id, nil)
}

func (s *Store) delete(ctx context.Context, tableName string, id int64, j *journal) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("delete", tableName, err)
	}
	schema, err := repository.Resolve(tableName)
	if err != nil {
		return err
	}
	if schema.AppendOnly {
		return repository.ErrAppendOnly(tableName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tables[tableName]
	current, ok := t.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	j.touch(tableName, id, current)
	delete(t.rows, id)
	return nil
}

func checkUnique(schema repository.TableSchema, t *table, row repository.Row, selfID int64) error {
	for _, col := range schema.Unique {
		v := row[col]
		if v == nil {
			continue
		}
		for id, other := range t.rows {
			if id == selfID {
				continue
			}
			if equal(other[col], v) {
				return fmt.Errorf("%s.%s: %w", schema.Name, col, domain.ErrDuplicate)
			}
		}
	}
	return nil
}

func paginate(rows []repository.Row, limit, offset int) []repository.Row {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func copyRow(r repository.Row) repository.Row {
	out := make(repository.Row, len(r))
	for k, v := range r {
		if nested, ok := v.(repository.Row); ok {
			out[k] = copyRow(nested)
			continue
		}
		out[k] = v
	}
	return out
}
