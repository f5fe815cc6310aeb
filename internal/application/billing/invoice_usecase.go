package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/factura-local/internal/domain"
	domainbilling "github.com/jhoicas/factura-local/internal/domain/billing"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

// Límites de ListRecent.
const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 100
)

// InvoiceUseCase operaciones de consulta y mantenimiento sobre la colección:
// obtener, listar recientes, borrar, duplicar y resumen compartible.
type InvoiceUseCase struct {
	repo    repository.InvoiceRepository
	saver   *SaveInvoiceUseCase
	changes repository.ChangeBroadcaster
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repo repository.InvoiceRepository, saver *SaveInvoiceUseCase, changes repository.ChangeBroadcaster) *InvoiceUseCase {
	return &InvoiceUseCase{repo: repo, saver: saver, changes: changes}
}

// Get obtiene una factura por ID; ErrNotFound si no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListRecent devuelve las facturas más recientes (CreatedAt descendente).
// limit ≤ 0 aplica el valor por defecto; el tope evita lecturas desmedidas.
func (uc *InvoiceUseCase) ListRecent(ctx context.Context, limit int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return uc.repo.ListRecent(ctx, limit)
}

// Delete borra una factura y difunde el cambio. Idempotente: un ID
// inexistente también termina en éxito y en notificación.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.changes.Notify()
	return nil
}

// Duplicate crea y persiste una copia de la factura: ID nuevo, número limpio.
// La copia de un registro persistido válido no debe fallar la validación; si
// lo hace, el almacén contiene datos que ya no cumplen las reglas actuales.
func (uc *InvoiceUseCase) Duplicate(ctx context.Context, id string) (*entity.Invoice, error) {
	src, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	copyInv := domainbilling.Duplicate(*src)
	saved, fieldErrs, err := uc.saver.Save(ctx, copyInv)
	if err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, fmt.Errorf("%w: el registro %s no pasa la validación vigente", domain.ErrInvalidInput, id)
	}
	return saved, nil
}

// Share devuelve el resumen de una línea para compartir la factura.
func (uc *InvoiceUseCase) Share(ctx context.Context, id string) (string, error) {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if inv.Number == "" {
		return "", fmt.Errorf("%w: la factura no está finalizada", domain.ErrInvalidInput)
	}
	return domainbilling.ShareSummary(*inv), nil
}

// Changes expone la suscripción al difusor para oyentes de presentación.
func (uc *InvoiceUseCase) Changes() repository.ChangeBroadcaster {
	return uc.changes
}
