package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de inventario (ledger de stock).
	ErrInvalidQuantity     = fmt.Errorf("cantidad inválida: debe ser positiva: %w", ErrInvalidInput)
	ErrInvalidMovementKind = fmt.Errorf("tipo de movimiento desconocido: %w", ErrInvalidInput)
	ErrProductNotFound     = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrConcurrentUpdate    = fmt.Errorf("el registro fue modificado por otra operación: %w", ErrConflict)

	// Facturación.
	ErrInvalidAmount      = fmt.Errorf("importe inválido: %w", ErrInvalidInput)
	ErrInvoiceNotFound    = fmt.Errorf("factura no encontrada: %w", ErrNotFound)
	ErrInvalidTransition  = fmt.Errorf("transición de estado no permitida: %w", ErrConflict)
	ErrInvoiceNotEditable = fmt.Errorf("la factura ya no está en borrador: %w", ErrConflict)

	// ErrStorage identifica cualquier fallo de la capa de persistencia (red, driver, disco).
	ErrStorage = errors.New("error de almacenamiento")
)

// StorageError envuelve un fallo de persistencia con la operación y la tabla afectadas.
// errors.Is(err, ErrStorage) es verdadero para cualquier StorageError.
type StorageError struct {
	Op    string
	Table string
	Err   error
}

// NewStorageError construye el error; devuelve nil si err es nil.
func NewStorageError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Table: table, Err: err}
}

func (e *StorageError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("%s: %s: %v", ErrStorage, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", ErrStorage, e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
