package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*LazyInvoiceRepo)(nil)

// LazyInvoiceRepo repositorio atado al manejador perezoso: resuelve el handle
// en cada operación, de modo que el cableado no abre el archivo hasta el
// primer uso real.
type LazyInvoiceRepo struct {
	db *DB
}

// NewLazyInvoiceRepository construye el adaptador sobre el manejador.
func NewLazyInvoiceRepository(db *DB) *LazyInvoiceRepo {
	return &LazyInvoiceRepo{db: db}
}

func (r *LazyInvoiceRepo) repo() (*InvoiceRepo, error) {
	handle, err := r.db.Handle()
	if err != nil {
		return nil, fmt.Errorf("abrir almacén: %w", err)
	}
	return NewInvoiceRepository(handle), nil
}

// Save escribe cabecera y líneas dentro de una transacción propia: también en
// los usos directos del repositorio confirman como un todo.
func (r *LazyInvoiceRepo) Save(ctx context.Context, inv *entity.Invoice) error {
	handle, err := r.db.Handle()
	if err != nil {
		return fmt.Errorf("abrir almacén: %w", err)
	}
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := NewInvoiceRepository(tx).Save(ctx, inv); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("confirmar transacción: %w", err)
	}
	return nil
}

// GetByID delega la lectura.
func (r *LazyInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.GetByID(ctx, id)
}

// ListRecent delega la lectura top-K.
func (r *LazyInvoiceRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListRecent(ctx, limit)
}

// Delete delega el borrado idempotente.
func (r *LazyInvoiceRepo) Delete(ctx context.Context, id string) error {
	repo, err := r.repo()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
