package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/factura-local/internal/application/billing"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite con los
// repositorios de facturas y secuencias atados a la tx: o confirma toda la
// escritura (registro + líneas + contador) o nada de ella.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner sobre el manejador perezoso.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	handle, err := r.db.Handle()
	if err != nil {
		return fmt.Errorf("abrir almacén: %w", err)
	}
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	invoiceRepo := NewInvoiceRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(invoiceRepo, seqRepo); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}
