package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/factura-local/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contador transaccional por (prefijo, año) para la numeración
// de facturas. La reserva es un registro dedicado actualizado en la misma
// transacción que el guardado, no un scan de la lista: SQLite serializa los
// escritores, así que dos reservas nunca devuelven el mismo valor.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar handle o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next reserva y devuelve el siguiente valor de la secuencia (empieza en 1).
func (r *SequenceRepo) Next(ctx context.Context, prefix string, year int) (int64, error) {
	const query = `
		INSERT INTO sequences (prefix, year, next) VALUES (?, ?, 1)
		ON CONFLICT (prefix, year) DO UPDATE SET next = next + 1
		RETURNING next`
	var next int64
	if err := r.q.QueryRowContext(ctx, query, prefix, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("reservar secuencia %s-%d: %w", prefix, year, err)
	}
	return next, nil
}
