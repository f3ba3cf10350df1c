// Package rowstore implementa los repositorios tipados sobre el puerto genérico repository.RowStore.
// Funciona igual sobre el backend PostgreSQL y el de memoria.
package rowstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
	"github.com/jhoicas/gestionale-api/internal/domain/repository"
)

// Los valores leídos pueden venir del driver (tipos nativos) o de una relación incluida
// con row_to_json (números como float64, fechas como texto).

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

func asInt64(v any) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float64:
		return int64(x)
	case decimal.Decimal:
		return x.IntPart()
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	}
	return 0
}

func asInt64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func asDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case float64:
		return decimal.NewFromFloat(x)
	case int64:
		return decimal.NewFromInt(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case string:
		d, err := decimal.NewFromString(x)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

func asTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func asTimePtr(v any) *time.Time {
	if v == nil {
		return nil
	}
	t := asTime(v)
	if t.IsZero() {
		return nil
	}
	return &t
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

// nullable guarda el texto vacío como NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func asRow(v any) repository.Row {
	switch x := v.(type) {
	case repository.Row:
		return x
	case map[string]any:
		return repository.Row(x)
	}
	return nil
}

func customerFromRow(r repository.Row) *entity.Customer {
	return &entity.Customer{
		ID:          asInt64(r["id"]),
		FirstName:   asString(r["first_name"]),
		LastName:    asString(r["last_name"]),
		CompanyName: asString(r["company_name"]),
		Email:       asString(r["email"]),
		Phone:       asString(r["phone"]),
		Mobile:      asString(r["mobile"]),
		Address:     asString(r["address"]),
		City:        asString(r["city"]),
		PostalCode:  asString(r["postal_code"]),
		Province:    asString(r["province"]),
		FiscalCode:  asString(r["fiscal_code"]),
		VATNumber:   asString(r["vat_number"]),
		Notes:       asString(r["notes"]),
		CreatedAt:   asTime(r["created_at"]),
		UpdatedAt:   asTime(r["updated_at"]),
	}
}

func customerToRow(c *entity.Customer) repository.Row {
	return repository.Row{
		"first_name":   c.FirstName,
		"last_name":    nullable(c.LastName),
		"company_name": nullable(c.CompanyName),
		"email":        nullable(c.Email),
		"phone":        nullable(c.Phone),
		"mobile":       nullable(c.Mobile),
		"address":      nullable(c.Address),
		"city":         nullable(c.City),
		"postal_code":  nullable(c.PostalCode),
		"province":     nullable(c.Province),
		"fiscal_code":  nullable(c.FiscalCode),
		"vat_number":   nullable(c.VATNumber),
		"notes":        nullable(c.Notes),
	}
}

func productFromRow(r repository.Row) *entity.Product {
	return &entity.Product{
		ID:              asInt64(r["id"]),
		Code:            asString(r["code"]),
		Name:            asString(r["name"]),
		Description:     asString(r["description"]),
		Category:        asString(r["category"]),
		Unit:            asString(r["unit"]),
		PurchasePrice:   asDecimal(r["purchase_price"]),
		SalePrice:       asDecimal(r["sale_price"]),
		TaxRate:         asDecimal(r["tax_rate"]),
		QuantityOnHand:  asDecimal(r["quantity_on_hand"]),
		QuantityMinimum: asDecimal(r["quantity_minimum"]),
		Supplier:        asString(r["supplier"]),
		Version:         asInt64(r["version"]),
		CreatedAt:       asTime(r["created_at"]),
		UpdatedAt:       asTime(r["updated_at"]),
	}
}

// productToRow columnas editables; quantity_on_hand y version quedan fuera.
func productToRow(p *entity.Product) repository.Row {
	return repository.Row{
		"code":             p.Code,
		"name":             p.Name,
		"description":      nullable(p.Description),
		"category":         nullable(p.Category),
		"unit":             p.Unit,
		"purchase_price":   p.PurchasePrice,
		"sale_price":       p.SalePrice,
		"tax_rate":         p.TaxRate,
		"quantity_minimum": p.QuantityMinimum,
		"supplier":         nullable(p.Supplier),
	}
}

func movementFromRow(r repository.Row) *entity.StockMovement {
	return &entity.StockMovement{
		ID:        asInt64(r["id"]),
		ProductID: asInt64(r["product_id"]),
		Kind:      asString(r["kind"]),
		Quantity:  asDecimal(r["quantity"]),
		Note:      asString(r["note"]),
		MovedAt:   asTime(r["moved_at"]),
		CreatedAt: asTime(r["created_at"]),
	}
}

func invoiceFromRow(r repository.Row) *entity.Invoice {
	inv := &entity.Invoice{
		ID:          asInt64(r["id"]),
		Number:      asString(r["number"]),
		CustomerID:  asInt64Ptr(r["customer_id"]),
		IssueDate:   asTime(r["issue_date"]),
		DueDate:     asTimePtr(r["due_date"]),
		Status:      asString(r["status"]),
		TaxableBase: asDecimal(r["taxable_base"]),
		TaxRate:     asDecimal(r["tax_rate"]),
		Tax:         asDecimal(r["tax"]),
		Total:       asDecimal(r["total"]),
		Notes:       asString(r["notes"]),
		CreatedAt:   asTime(r["created_at"]),
		UpdatedAt:   asTime(r["updated_at"]),
	}
	if c := asRow(r["customer"]); c != nil {
		inv.Customer = customerFromRow(c)
	}
	return inv
}

func invoiceToRow(inv *entity.Invoice) repository.Row {
	row := repository.Row{
		"number":       inv.Number,
		"customer_id":  inv.CustomerID,
		"issue_date":   inv.IssueDate,
		"due_date":     inv.DueDate,
		"status":       inv.Status,
		"taxable_base": inv.TaxableBase,
		"tax_rate":     inv.TaxRate,
		"tax":          inv.Tax,
		"total":        inv.Total,
		"notes":        nullable(inv.Notes),
	}
	if inv.CustomerID == nil {
		row["customer_id"] = nil
	}
	if inv.DueDate == nil {
		row["due_date"] = nil
	}
	return row
}

func lineFromRow(r repository.Row) *entity.InvoiceLine {
	return &entity.InvoiceLine{
		ID:          asInt64(r["id"]),
		InvoiceID:   asInt64(r["invoice_id"]),
		ProductID:   asInt64Ptr(r["product_id"]),
		Description: asString(r["description"]),
		Quantity:    asDecimal(r["quantity"]),
		UnitPrice:   asDecimal(r["unit_price"]),
		LineTotal:   asDecimal(r["line_total"]),
		CreatedAt:   asTime(r["created_at"]),
	}
}

func lineToRow(l *entity.InvoiceLine) repository.Row {
	row := repository.Row{
		"invoice_id":  l.InvoiceID,
		"product_id":  l.ProductID,
		"description": l.Description,
		"quantity":    l.Quantity,
		"unit_price":  l.UnitPrice,
		"line_total":  l.LineTotal,
	}
	if l.ProductID == nil {
		row["product_id"] = nil
	}
	return row
}

func appointmentFromRow(r repository.Row) *entity.Appointment {
	a := &entity.Appointment{
		ID:          asInt64(r["id"]),
		CustomerID:  asInt64Ptr(r["customer_id"]),
		Title:       asString(r["title"]),
		Description: asString(r["description"]),
		StartsAt:    asTime(r["starts_at"]),
		EndsAt:      asTimePtr(r["ends_at"]),
		Location:    asString(r["location"]),
		Status:      asString(r["status"]),
		Reminder:    asBool(r["reminder"]),
		CreatedAt:   asTime(r["created_at"]),
		UpdatedAt:   asTime(r["updated_at"]),
	}
	if c := asRow(r["customer"]); c != nil {
		a.Customer = customerFromRow(c)
	}
	return a
}

func appointmentToRow(a *entity.Appointment) repository.Row {
	row := repository.Row{
		"customer_id": a.CustomerID,
		"title":       a.Title,
		"description": nullable(a.Description),
		"starts_at":   a.StartsAt,
		"ends_at":     a.EndsAt,
		"location":    nullable(a.Location),
		"status":      a.Status,
		"reminder":    a.Reminder,
	}
	if a.CustomerID == nil {
		row["customer_id"] = nil
	}
	if a.EndsAt == nil {
		row["ends_at"] = nil
	}
	return row
}
