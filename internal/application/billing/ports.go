// Package billing contiene los casos de uso de facturación: guardar/generar,
// consultar, duplicar, borrar, exportar a PDF y compartir.
package billing

import (
	"context"

	"github.com/jhoicas/factura-local/internal/domain/entity"
	"github.com/jhoicas/factura-local/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de facturas y de secuencias de numeración.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}

// InvoicePDFGenerator función pura Invoice → documento binario. No muta la
// factura que renderiza.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
