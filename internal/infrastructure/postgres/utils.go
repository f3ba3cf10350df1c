package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestionale-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	notNullViolation    = "23502"
	invalidTextRepr     = "22P02"
	numericOverflow     = "22003"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return strings.Contains(err.Error(), uniqueViolation)
}

// mapError traduce errores de pgx: restricciones a errores de dominio, el resto a StorageError.
func mapError(op, table string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", table, domain.ErrDuplicate)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case foreignKeyViolation, checkViolation, notNullViolation, invalidTextRepr, numericOverflow:
			return fmt.Errorf("%s: %s: %w", table, pgErr.Message, domain.ErrInvalidInput)
		}
	}
	return domain.NewStorageError(op, table, err)
}
