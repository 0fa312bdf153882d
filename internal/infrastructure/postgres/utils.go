package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mulphico/inventory-valuation/internal/domain"
)

// Códigos SQLSTATE que el servicio traduce a errores de dominio.
const (
	pgInvalidTextRepresentation = "22P02" // p. ej. un id que no es UUID
	pgUndefinedTable            = "42P01"
)

// wrapErr envuelve el error con la operación. Un id con formato inválido es un error del cliente.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgInvalidTextRepresentation:
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidInput, pgErr.Message)
		case pgUndefinedTable:
			return fmt.Errorf("%s: falta el modelo de lectura (aplicar migrations/): %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
