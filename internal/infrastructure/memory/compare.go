package memory

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/gestionale-api/internal/domain"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// normalize lleva los valores a los tipos que devolvería el driver de postgres.
func normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case *int64:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC()
	case time.Time:
		return x.UTC()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return *x
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	default:
		return v
	}
}

func toInt64(v any) (int64, bool) {
	switch x := normalize(v).(type) {
	case int64:
		return x, true
	case decimal.Decimal:
		if x.IsInteger() {
			return x.IntPart(), true
		}
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := normalize(v).(type) {
	case decimal.Decimal:
		return x, true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// compareValues compara dos valores no nulos del mismo tipo lógico. ok=false si no son comparables.
func compareValues(a, b any, strcmp func(x, y string) int) (int, bool) {
	a, b = normalize(a), normalize(b)
	switch x := a.(type) {
	case decimal.Decimal:
		y, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		return x.Cmp(y), true
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
		y, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		return decimal.NewFromInt(x).Cmp(y), true
	case string:
		if y, ok := b.(string); ok {
			return strcmp(x, y), true
		}
		y, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		xd, ok := toDecimal(x)
		if !ok {
			return 0, false
		}
		return xd.Cmp(y), true
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	n, ok := compareValues(a, b, strings.Compare)
	return ok && n == 0
}

func matchAll(row repository.Row, filters []repository.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := match(row[f.Column], f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// match evalúa un filtro con semántica SQL: cualquier comparación contra NULL es falsa.
func match(v any, f repository.Filter) (bool, error) {
	switch f.Op {
	case repository.OpIsNull:
		return v == nil, nil
	case repository.OpIn:
		values, ok := f.Value.([]any)
		if !ok {
			return false, fmt.Errorf("filtro in sobre %s requiere []any: %w", f.Column, domain.ErrInvalidInput)
		}
		for _, candidate := range values {
			if equal(v, candidate) {
				return true, nil
			}
		}
		return false, nil
	case repository.OpILike:
		s, ok := v.(string)
		if !ok {
			return false, nil
		}
		pattern, ok := f.Value.(string)
		if !ok {
			return false, fmt.Errorf("filtro ilike sobre %s requiere texto: %w", f.Column, domain.ErrInvalidInput)
		}
		re, err := likeRegexp(pattern)
		if err != nil {
			return false, fmt.Errorf("patrón %q: %w", pattern, domain.ErrInvalidInput)
		}
		return re.MatchString(s), nil
	}

	if v == nil || f.Value == nil {
		return false, nil
	}
	n, ok := compareValues(v, f.Value, strings.Compare)
	if !ok {
		return false, fmt.Errorf("valor no comparable para %s: %w", f.Column, domain.ErrInvalidInput)
	}
	switch f.Op {
	case repository.OpEq:
		return n == 0, nil
	case repository.OpNeq:
		return n != 0, nil
	case repository.OpLt:
		return n < 0, nil
	case repository.OpLte:
		return n <= 0, nil
	case repository.OpGt:
		return n > 0, nil
	case repository.OpGte:
		return n >= 0, nil
	}
	return false, fmt.Errorf("operador %q: %w", f.Op, domain.ErrInvalidInput)
}

// likeRegexp traduce un patrón LIKE (% y _) a una expresión regular sin distinción de mayúsculas.
func likeRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// comparer ordena texto con la intercalación italiana; un Collator no es seguro entre goroutines,
// por eso se crea uno por consulta.
type comparer struct {
	col *collate.Collator
}

func newComparer() *comparer {
	return &comparer{col: collate.New(language.Italian, collate.IgnoreCase)}
}

// orderCompare sigue el orden por defecto de postgres: NULL al final en ASC y al principio en DESC.
func (c *comparer) orderCompare(a, b any, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		if desc {
			return -1
		}
		return 1
	case b == nil:
		if desc {
			return 1
		}
		return -1
	}
	n, ok := compareValues(a, b, c.col.CompareString)
	if !ok {
		n = strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	if desc {
		return -n
	}
	return n
}
