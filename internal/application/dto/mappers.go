package dto

import (
	"time"

	"github.com/jhoicas/gestionale-api/internal/domain/entity"
)

func ProductFromEntity(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		Unit:            p.Unit,
		PurchasePrice:   p.PurchasePrice,
		SalePrice:       p.SalePrice,
		TaxRate:         p.TaxRate,
		QuantityOnHand:  p.QuantityOnHand,
		QuantityMinimum: p.QuantityMinimum,
		LowStock:        p.IsLowStock(),
		Supplier:        p.Supplier,
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		Note:      m.Note,
		MovedAt:   m.MovedAt,
	}
}

func CustomerFromEntity(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		CompanyName: c.CompanyName,
		DisplayName: c.DisplayName(),
		Email:       c.Email,
		Phone:       c.Phone,
		Mobile:      c.Mobile,
		Address:     c.Address,
		City:        c.City,
		PostalCode:  c.PostalCode,
		Province:    c.Province,
		FiscalCode:  c.FiscalCode,
		VATNumber:   c.VATNumber,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// InvoiceFromEntity incluye las líneas si se pasan.
func InvoiceFromEntity(inv *entity.Invoice, lines []*entity.InvoiceLine) InvoiceResponse {
	out := InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Status:      inv.Status,
		TaxableBase: inv.TaxableBase,
		TaxRate:     inv.TaxRate,
		Tax:         inv.Tax,
		Total:       inv.Total,
		Notes:       inv.Notes,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.Customer != nil {
		c := CustomerFromEntity(inv.Customer)
		out.Customer = &c
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, InvoiceLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return out
}

// AppointmentFromEntity calcula is_today e is_overdue respecto a now.
func AppointmentFromEntity(a *entity.Appointment, now time.Time) AppointmentResponse {
	out := AppointmentResponse{
		ID:          a.ID,
		CustomerID:  a.CustomerID,
		Title:       a.Title,
		Description: a.Description,
		StartsAt:    a.StartsAt,
		EndsAt:      a.EndsAt,
		Location:    a.Location,
		Status:      a.Status,
		Reminder:    a.Reminder,
		IsToday:     a.IsToday(now),
		IsOverdue:   a.IsOverdue(now),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Customer != nil {
		c := CustomerFromEntity(a.Customer)
		out.Customer = &c
	}
	return out
}
