package repository

import "context"

// Row una fila genérica: columna → valor. Los valores siguen los tipos de Go del driver
// (int64, string, bool, time.Time, decimal.Decimal, nil) y las relaciones incluidas
// aparecen como Row anidadas bajo el nombre de la relación.
type Row map[string]any

// Op operador de filtro.
type Op string

const (
	OpEq     Op = "eq"
	OpNeq    Op = "neq"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpIn     Op = "in"      // Value es []any
	OpILike  Op = "ilike"   // patrón con % y _, sin distinguir mayúsculas
	OpIsNull Op = "is_null" // Value ignorado
)

// Filter condición sobre una columna.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Eq atajo para Filter{Column, OpEq, v}.
func Eq(column string, v any) Filter { return Filter{Column: column, Op: OpEq, Value: v} }

// In atajo para Filter{Column, OpIn, values}.
func In(column string, values ...any) Filter { return Filter{Column: column, Op: OpIn, Value: values} }

// Order criterio de ordenación.
type Order struct {
	Column string
	Desc   bool
}

// Query describe una lectura: filtros (AND), orden, paginación y relaciones a incluir.
type Query struct {
	Filters []Filter
	Order   []Order
	Limit   int // 0 = sin límite
	Offset  int
	Embed   []string // nombres de relación (ver Schema), p. ej. "customer"
}

// RowStore puerto de persistencia genérico por tabla (select/insert/update/delete).
// Los fallos del backend se devuelven como *domain.StorageError; las condiciones de
// negocio con domain.ErrNotFound, domain.ErrDuplicate y domain.ErrConcurrentUpdate.
type RowStore interface {
	Select(ctx context.Context, table string, q Query) ([]Row, error)
	// Insert asigna id, created_at y updated_at (si la tabla los tiene) y devuelve la fila guardada.
	Insert(ctx context.Context, table string, row Row) (Row, error)
	// Update actualización parcial por clave primaria; ErrNotFound si no existe.
	Update(ctx context.Context, table string, id int64, patch Row) (Row, error)
	// UpdateIf actualiza solo si la fila cumple cond (compare-and-set).
	// ErrNotFound si la fila no existe; ErrConcurrentUpdate si existe pero no cumple cond.
	UpdateIf(ctx context.Context, table string, id int64, cond []Filter, patch Row) (Row, error)
	// Delete borrado físico sin cascada; ErrNotFound si no existe.
	Delete(ctx context.Context, table string, id int64) error
}

// Transactor ejecuta fn dentro de una transacción: Commit si fn no falla, Rollback si falla.
// El RowStore recibido está atado a la transacción.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx RowStore) error) error
}

// TransactionalStore RowStore que además soporta transacciones (postgres, memoria).
type TransactionalStore interface {
	RowStore
	Transactor
}
