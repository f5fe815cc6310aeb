package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/factura-local/internal/domain"
	domainbilling "github.com/jhoicas/factura-local/internal/domain/billing"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

// SaveInvoiceUseCase valida, numera y persiste una factura en una sola
// transacción, y difunde el cambio tras el commit.
type SaveInvoiceUseCase struct {
	txRunner TxRunner
	changes  repository.ChangeBroadcaster
	prefix   string
	now      func() time.Time
}

// NewSaveInvoiceUseCase construye el caso de uso. prefix es el prefijo de
// numeración configurado (ej. "GST").
func NewSaveInvoiceUseCase(txRunner TxRunner, changes repository.ChangeBroadcaster, prefix string) *SaveInvoiceUseCase {
	if prefix == "" {
		prefix = "INV"
	}
	return &SaveInvoiceUseCase{
		txRunner: txRunner,
		changes:  changes,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Save ejecuta el flujo "generar factura":
//
//  1. Valida; los errores de campo se devuelven como datos, nunca como error.
//  2. Re-deriva los totales: jamás se persiste una instantánea desfasada.
//  3. Estampa CreatedAt en el primer guardado.
//  4. En una transacción: reserva un número si aún no tiene (nunca sobrescribe
//     uno asignado) y hace el upsert. La notificación se difunde solo después
//     del commit.
//
// Una violación de unicidad sobre un número recién generado se reintenta con
// un valor fresco de la secuencia; agotados los intentos, ErrNumberCollision.
func (uc *SaveInvoiceUseCase) Save(ctx context.Context, in entity.Invoice) (*entity.Invoice, map[string]string, error) {
	if fieldErrs := domainbilling.Validate(in); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	inv := domainbilling.Recalculated(in)
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = uc.now().UTC()
	}
	if inv.SchemaVersion == 0 {
		inv.SchemaVersion = entity.SchemaVersion
	}

	needsNumber := inv.Number == ""
	attempts := 1
	if needsNumber {
		attempts = maxNumberAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		candidate := inv.Clone()
		err := uc.txRunner.Run(ctx, func(
			invoiceRepo repository.InvoiceRepository,
			seqRepo repository.SequenceRepository,
		) error {
			if needsNumber {
				year := candidate.CreatedAt.Year()
				seq, err := seqRepo.Next(ctx, uc.prefix, year)
				if err != nil {
					return err
				}
				candidate.Number = FormatNumber(uc.prefix, year, seq)
			}
			return invoiceRepo.Save(ctx, &candidate)
		})
		if err == nil {
			uc.changes.Notify()
			return &candidate, nil, nil
		}
		lastErr = err
		if needsNumber && errors.Is(err, domain.ErrDuplicateNumber) {
			// Colisión reintentable: la siguiente vuelta reserva un valor fresco.
			continue
		}
		return nil, nil, err
	}
	return nil, nil, errors.Join(domain.ErrNumberCollision, lastErr)
}
