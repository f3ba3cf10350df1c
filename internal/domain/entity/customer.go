package entity

import (
	"strings"
	"time"
)

// Customer representa un cliente (persona o empresa).
type Customer struct {
	ID          int64
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	Phone       string
	Mobile      string
	Address     string
	City        string
	PostalCode  string
	Province    string
	FiscalCode  string
	VATNumber   string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName devuelve la razón social si existe; si no, nombre y apellido.
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
