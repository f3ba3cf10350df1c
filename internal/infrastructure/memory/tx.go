package memory

import (
	"context"

	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

var _ repository.RowStore = (*txStore)(nil)

// txStore vista del Store atada a una transacción: cada escritura queda en el journal.
type txStore struct {
	s *Store
	j *journal
}

func (tx *txStore) Select(ctx context.Context, table string, q repository.Query) ([]repository.Row, error) {
	return tx.s.Select(ctx, table, q)
}

func (tx *txStore) Insert(ctx context.Context, table string, row repository.Row) (repository.Row, error) {
	return tx.s.insert(ctx, table, row, tx.j)
}

func (tx *txStore) Update(ctx context.Context, table string, id int64, patch repository.Row) (repository.Row, error) {
	return tx.s.updateIf(ctx, table, id, nil, patch, tx.j)
}

func (tx *txStore) UpdateIf(ctx context.Context, table string, id int64, cond []repository.Filter, patch repository.Row) (repository.Row, error) {
	return tx.s.updateIf(ctx, table, id, cond, patch, tx.j)
}

func (tx *txStore) Delete(ctx context.Context, table string, id int64) error {
	return tx.s.delete(ctx, table, id, tx.j)
}

// seqRange contador de ids antes de la primera inserción de la transacción, último id
// que asignó y cuántos asignó.
type seqRange struct {
	before, last, count int64
}

// journal estado previo de cada fila escrita por la transacción (nil = no existía).
// Los métodos se llaman con Store.mu tomado; un journal nil no registra nada.
type journal struct {
	prior map[string]map[int64]repository.Row
	seq   map[string]*seqRange
}

func newJournal() *journal {
	return &journal{
		prior: make(map[string]map[int64]repository.Row),
		seq:   make(map[string]*seqRange),
	}
}

// touch guarda la versión de la fila anterior a la primera escritura de la transacción.
func (j *journal) touch(table string, id int64, prior repository.Row) {
	if j == nil {
		return
	}
	rows := j.prior[table]
	if rows == nil {
		rows = make(map[int64]repository.Row)
		j.prior[table] = rows
	}
	if _, seen := rows[id]; seen {
		return
	}
	rows[id] = prior
}

func (j *journal) inserted(table string, id int64) {
	if j == nil {
		return
	}
	j.touch(table, id, nil)
	r, ok := j.seq[table]
	if !ok {
		r = &seqRange{before: id - 1}
		j.seq[table] = r
	}
	r.last = id
	r.count++
}

// rollback deshace las filas del journal. El contador de ids solo vuelve atrás si los ids
// de la transacción son los últimos y contiguos, es decir, nadie insertó fuera de ella entretanto.
func (j *journal) rollback(tables map[string]*table) {
	for name, rows := range j.prior {
		t := tables[name]
		for id, prior := range rows {
			if prior == nil {
				delete(t.rows, id)
				continue
			}
			t.rows[id] = prior
		}
	}
	for name, r := range j.seq {
		if t := tables[name]; t.seq == r.last && r.last-r.before == r.count {
			t.seq = r.before
		}
	}
}
