package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// alias de la tabla principal en todas las sentencias generadas.
const alias = "t"

// args acumula parámetros posicionales ($1, $2, ...).
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

func qualified(col string) string { return alias + "." + ident(col) }

// buildSelect genera la consulta; las relaciones se incluyen como subconsultas row_to_json.
// La consulta ya debe estar validada contra el esquema.
func buildSelect(schema repository.TableSchema, q repository.Query) (string, []any) {
	var a args
	var b strings.Builder

	b.WriteString("SELECT ")
	for i, col := range schema.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(qualified(col))
	}
	for _, name := range q.Embed {
		rel, _ := schema.Relation(name)
		fmt.Fprintf(&b, ", (SELECT row_to_json(r) FROM %s r WHERE r.id = %s) AS %s",
			ident(rel.Table), qualified(rel.ForeignKey), ident(rel.Name))
	}
	fmt.Fprintf(&b, " FROM %s %s", ident(schema.Name), alias)

	if where := buildWhere(q.Filters, &a); where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if len(q.Order) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.Order {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(qualified(o.Column))
			if o.Desc {
				b.WriteString(" DESC")
			}
		}
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(a.add(q.Limit))
	}
	if q.Offset > 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(a.add(q.Offset))
	}
	return b.String(), a
}

func buildWhere(filters []repository.Filter, a *args) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		col := qualified(f.Column)
		switch f.Op {
		case repository.OpIsNull:
			parts = append(parts, col+" IS NULL")
		case repository.OpIn:
			values, _ := f.Value.([]any)
			if len(values) == 0 {
				parts = append(parts, "FALSE")
				continue
			}
			ph := make([]string, len(values))
			for i, v := range values {
				ph[i] = a.add(v)
			}
			parts = append(parts, col+" IN ("+strings.Join(ph, ", ")+")")
		case repository.OpILike:
			parts = append(parts, col+" ILIKE "+a.add(f.Value))
		default:
			parts = append(parts, col+" "+sqlOp(f.Op)+" "+a.add(f.Value))
		}
	}
	return strings.Join(parts, " AND ")
}

func sqlOp(op repository.Op) string {
	switch op {
	case repository.OpNeq:
		return "<>"
	case repository.OpLt:
		return "<"
	case repository.OpLte:
		return "<="
	case repository.OpGt:
		return ">"
	case repository.OpGte:
		return ">="
	default:
		return "="
	}
}

// writable columnas que el llamador puede fijar; id y marcas de tiempo las pone la base.
func writable(row repository.Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		switch c {
		case "id", "created_at", "updated_at":
			continue
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(schema repository.TableSchema, row repository.Row) (string, []any) {
	cols := writable(row)
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", ident(schema.Name)), nil
	}
	var a args
	names := make([]string, len(cols))
	ph := make([]string, len(cols))
	for i, c := range cols {
		names[i] = ident(c)
		ph[i] = a.add(row[c])
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(schema.Name), strings.Join(names, ", "), strings.Join(ph, ", "))
	return sql, a
}

// buildUpdate devuelve ok=false cuando no hay nada que actualizar.
func buildUpdate(schema repository.TableSchema, id int64, cond []repository.Filter, patch repository.Row) (string, []any, bool) {
	var a args
	cols := writable(patch)
	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, ident(c)+" = "+a.add(patch[c]))
	}
	if schema.HasColumn("updated_at") {
		sets = append(sets, ident("updated_at")+" = now()")
	}
	if len(sets) == 0 {
		return "", nil, false
	}
	where := qualified("id") + " = " + a.add(id)
	if extra := buildWhere(cond, &a); extra != "" {
		where += " AND " + extra
	}
	sql := fmt.Sprintf("UPDATE %s AS %s SET %s WHERE %s RETURNING %s.*",
		ident(schema.Name), alias, strings.Join(sets, ", "), where, alias)
	return sql, a, true
}

func buildDelete(schema repository.TableSchema, id int64) (string, []any) {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(schema.Name), ident("id")), []any{id}
}
