package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain/catalog"
	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// NewEmpty crea una factura vacía a partir de un preset: ID fresco, campos en
// sus valores por defecto, totales en cero y número sin asignar.
func NewEmpty(preset catalog.TaxPreset) entity.Invoice {
	inv := entity.Invoice{
		ID:       uuid.New().String(),
		Currency: preset.Currency,
		Tax: entity.Tax{
			Mode:  preset.Mode,
			Label: preset.Label,
			Rate:  preset.Rate,
		},
		Items:         []entity.InvoiceItem{},
		SchemaVersion: entity.SchemaVersion,
	}
	inv.Totals = CalculateTotals(inv.Items, inv.Tax, inv.Currency)
	return inv
}

// NewItem crea una línea con ID fresco y valores por defecto (qty 1, precio 0).
func NewItem() entity.InvoiceItem {
	return entity.InvoiceItem{
		ID:    uuid.New().String(),
		Qty:   1,
		Price: decimal.Zero,
	}
}

// Update aplica una mutación sobre una copia estructural de la factura y
// devuelve la versión nueva con los totales re-derivados. El original no se
// toca y no comparte sub-objetos mutables con el resultado: ningún camino de
// mutación puede dejar Totals desfasado respecto a Items/Tax.
func Update(inv entity.Invoice, mutate func(*entity.Invoice)) entity.Invoice {
	next := inv.Clone()
	if mutate != nil {
		mutate(&next)
	}
	next.Totals = CalculateTotals(next.Items, next.Tax, next.Currency)
	return next
}

// Recalculated devuelve la factura con los totales re-derivados. Los casos de
// uso la invocan antes de persistir para que nunca se guarde una instantánea
// desfasada.
func Recalculated(inv entity.Invoice) entity.Invoice {
	return Update(inv, nil)
}

// Duplicate crea una copia independiente de la factura: ID nuevo, número
// limpio (la copia nunca completó "generar") y CreatedAt en cero para que el
// siguiente guardado lo estampe. Las líneas conservan su contenido.
func Duplicate(inv entity.Invoice) entity.Invoice {
	return Update(inv, func(next *entity.Invoice) {
		next.ID = uuid.New().String()
		next.Number = ""
		next.CreatedAt = time.Time{}
	})
}
