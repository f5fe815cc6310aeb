package main

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

func watchedInvoice(id, number string) *entity.Invoice {
	return &entity.Invoice{
		ID:        id,
		Number:    number,
		CreatedAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
		Totals:    entity.Totals{Total: decimal.NewFromInt(295)},
	}
}

// TestCollectionFingerprint_DetectaCambios la huella solo cambia cuando la
// lista visible cambia: es lo que dispara el re-listado del sondeo.
func TestCollectionFingerprint_DetectaCambios(t *testing.T) {
	base := []*entity.Invoice{
		watchedInvoice("inv-1", "GST-2026-00001"),
		watchedInvoice("inv-2", "GST-2026-00002"),
	}

	assert.Equal(t, collectionFingerprint(base), collectionFingerprint(base),
		"la misma lista produce la misma huella")

	added := append(append([]*entity.Invoice{}, base...), watchedInvoice("inv-3", "GST-2026-00003"))
	assert.NotEqual(t, collectionFingerprint(base), collectionFingerprint(added))

	edited := []*entity.Invoice{
		watchedInvoice("inv-1", "GST-2026-00001"),
		watchedInvoice("inv-2", "GST-2026-00002"),
	}
	edited[1].Totals.Total = decimal.NewFromInt(999)
	assert.NotEqual(t, collectionFingerprint(base), collectionFingerprint(edited),
		"editar un total debe cambiar la huella")

	reordered := []*entity.Invoice{base[1], base[0]}
	assert.NotEqual(t, collectionFingerprint(base), collectionFingerprint(reordered),
		"el orden de la lista forma parte de la huella")
}

func TestCollectionFingerprint_ListaVacia(t *testing.T) {
	assert.Empty(t, collectionFingerprint(nil))
}
