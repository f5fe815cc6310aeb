package pdf_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-local/internal/domain/billing"
	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/infrastructure/pdf"
)

func buildRenderableInvoice() *entity.Invoice {
	inv := entity.Invoice{
		ID:        "inv-1",
		Number:    "GST-2026-00042",
		CreatedAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
		Seller: entity.Party{
			Name:    "Acme Corp",
			Address: "Calle 1 #2-34",
			TaxID:   "900123456-1",
		},
		Customer: entity.Party{Name: "Cliente", Address: "Av. Siempre Viva"},
		Currency: entity.Currency{Code: "INR", Symbol: "₹", MinorUnits: 2},
		Tax: entity.Tax{
			Mode:  entity.TaxModeFixedRate,
			Label: "GST (18%)",
			Rate:  decimal.NewFromFloat(0.18),
		},
		Items: []entity.InvoiceItem{
			{ID: "it-1", Name: "Consultoría", Qty: 2, Price: decimal.NewFromInt(100)},
			{ID: "it-2", Name: "Soporte", Qty: 1, Price: decimal.NewFromInt(50)},
		},
		SchemaVersion: entity.SchemaVersion,
	}
	inv.Totals = billing.CalculateTotals(inv.Items, inv.Tax, inv.Currency)
	return &inv
}

// TestGenerateInvoicePDF_ProduceDocumento el generador devuelve un documento
// PDF no vacío con la cabecera mágica estándar.
func TestGenerateInvoicePDF_ProduceDocumento(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()

	data, err := gen.GenerateInvoicePDF(context.Background(), buildRenderableInvoice())

	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

// TestGenerateInvoicePDF_ConQR el footer con QR no rompe la generación.
func TestGenerateInvoicePDF_ConQR(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()
	inv := buildRenderableInvoice()
	inv.QREnabled = true

	data, err := gen.GenerateInvoicePDF(context.Background(), inv)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

// TestGenerateInvoicePDF_SinLineas una factura sin líneas (caso límite, la
// validación la rechaza antes) tampoco debe hacer pánico al renderizar.
func TestGenerateInvoicePDF_SinLineas(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()
	inv := buildRenderableInvoice()
	inv.Items = nil
	inv.Totals = billing.CalculateTotals(inv.Items, inv.Tax, inv.Currency)

	data, err := gen.GenerateInvoicePDF(context.Background(), inv)

	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

// TestGenerateInvoicePDF_NoMutaFactura el renderizador es de solo lectura.
func TestGenerateInvoicePDF_NoMutaFactura(t *testing.T) {
	gen := pdf.NewMarotoPDFGenerator()
	inv := buildRenderableInvoice()
	before := inv.Clone()

	_, err := gen.GenerateInvoicePDF(context.Background(), inv)

	require.NoError(t, err)
	assert.Equal(t, before.Number, inv.Number)
	require.Len(t, inv.Items, len(before.Items))
	assert.True(t, before.Totals.Total.Equal(inv.Totals.Total))
}
