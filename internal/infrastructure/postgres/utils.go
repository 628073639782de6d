package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único (23505). Los
// repos la traducen a errores de dominio: duplicados en altas y el índice
// parcial de deliveries.sale_id en agendamientos concurrentes.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrUniqueViolation
}

const pgerrUniqueViolation = "23505"

// nullIfEmpty traduce la cadena vacía del dominio a NULL en columnas de
// referencia opcionales (por ejemplo deliveries.sale_id y deliveries.lead_id).
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
