package repository

import (
	"fmt"

	"github.com/jhoicas/gestionale-api/internal/domain"
)

// Nombres de tabla del row store.
const (
	TableCustomers      = "customers"
	TableProducts       = "products"
	TableStockMovements = "stock_movements"
	TableInvoices       = "invoices"
	TableInvoiceLines   = "invoice_lines"
	TableAppointments   = "appointments"
)

// Relation clave foránea navegable: Name es la clave bajo la que se incluye la fila relacionada.
type Relation struct {
	Name       string
	ForeignKey string
	Table      string
}

// TableSchema lista blanca de columnas y relaciones de una tabla.
// Ningún identificador SQL se construye fuera de este registro.
type TableSchema struct {
	Name       string
	Columns    []string
	Unique     []string
	Relations  []Relation
	AppendOnly bool // sin Update ni Delete
}

// HasColumn indica si la columna existe.
func (t TableSchema) HasColumn(c string) bool {
	for _, col := range t.Columns {
		if col == c {
			return true
		}
	}
	return false
}

// Relation busca una relación por nombre.
func (t TableSchema) Relation(name string) (Relation, bool) {
	for _, r := range t.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

var customerRelation = Relation{Name: "customer", ForeignKey: "customer_id", Table: TableCustomers}

// Schema registro de tablas.
var Schema = map[string]TableSchema{
	TableCustomers: {
		Name: TableCustomers,
		Columns: []string{"id", "first_name", "last_name", "company_name", "email", "phone", "mobile",
			"address", "city", "postal_code", "province", "fiscal_code", "vat_number", "notes",
			"created_at", "updated_at"},
	},
	TableProducts: {
		Name: TableProducts,
		Columns: []string{"id", "code", "name", "description", "category", "unit", "purchase_price",
			"sale_price", "tax_rate", "quantity_on_hand", "quantity_minimum", "supplier", "version",
			"created_at", "updated_at"},
		Unique: []string{"code"},
	},
	TableStockMovements: {
		Name:       TableStockMovements,
		Columns:    []string{"id", "product_id", "kind", "quantity", "note", "moved_at", "created_at"},
		Relations:  []Relation{{Name: "product", ForeignKey: "product_id", Table: TableProducts}},
		AppendOnly: true,
	},
	TableInvoices: {
		Name: TableInvoices,
		Columns: []string{"id", "number", "customer_id", "issue_date", "due_date", "status",
			"taxable_base", "tax_rate", "tax", "total", "notes", "created_at", "updated_at"},
		Unique:    []string{"number"},
		Relations: []Relation{customerRelation},
	},
	TableInvoiceLines: {
		Name: TableInvoiceLines,
		Columns: []string{"id", "invoice_id", "product_id", "description", "quantity", "unit_price",
			"line_total", "created_at"},
		Relations: []Relation{
			{Name: "invoice", ForeignKey: "invoice_id", Table: TableInvoices},
			{Name: "product", ForeignKey: "product_id", Table: TableProducts},
		},
	},
	TableAppointments: {
		Name: TableAppointments,
		Columns: []string{"id", "customer_id", "title", "description", "starts_at", "ends_at",
			"location", "status", "reminder", "created_at", "updated_at"},
		Relations: []Relation{customerRelation},
	},
}

// CheckColumns rechaza columnas que no están en la lista blanca.
func (t TableSchema) CheckColumns(cols ...string) error {
	for _, c := range cols {
		if !t.HasColumn(c) {
			return fmt.Errorf("columna desconocida %s.%s: %w", t.Name, c, domain.ErrInvalidInput)
		}
	}
	return nil
}

// CheckRow valida las columnas de una fila o parche.
func (t TableSchema) CheckRow(row Row) error {
	for c := range row {
		if err := t.CheckColumns(c); err != nil {
			return err
		}
	}
	return nil
}

// CheckFilters valida columnas y operadores de los filtros.
func (t TableSchema) CheckFilters(filters []Filter) error {
	for _, f := range filters {
		if err := t.CheckColumns(f.Column); err != nil {
			return err
		}
		switch f.Op {
		case OpEq, OpNeq, OpLt, OpLte, OpGt, OpGte, OpIn, OpILike, OpIsNull:
		default:
			return fmt.Errorf("operador %q: %w", f.Op, domain.ErrInvalidInput)
		}
	}
	return nil
}

// CheckQuery valida filtros, orden y relaciones de una consulta.
func (t TableSchema) CheckQuery(q Query) error {
	if err := t.CheckFilters(q.Filters); err != nil {
		return err
	}
	for _, o := range q.Order {
		if err := t.CheckColumns(o.Column); err != nil {
			return err
		}
	}
	for _, name := range q.Embed {
		if _, ok := t.Relation(name); !ok {
			return fmt.Errorf("relación desconocida %s.%s: %w", t.Name, name, domain.ErrInvalidInput)
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return fmt.Errorf("paginación negativa: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Resolve devuelve el esquema de la tabla o ErrInvalidInput si no está registrada.
func Resolve(name string) (TableSchema, error) {
	t, ok := Schema[name]
	if !ok {
		return TableSchema{}, fmt.Errorf("tabla desconocida %q: %w", name, domain.ErrInvalidInput)
	}
	return t, nil
}

// ErrAppendOnly error para Update/Delete sobre tablas de solo inserción.
func ErrAppendOnly(table string) error {
	return fmt.Errorf("%s es de solo inserción: %w", table, domain.ErrInvalidInput)
}
