package http

import (
	"github.com/gofiber/fiber/v2"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaveInvoice *appbilling.SaveInvoiceUseCase
	InvoiceUC   *appbilling.InvoiceUseCase
	PDFUC       *appbilling.PDFUseCase
}

// Router registra las rutas de la API local.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	invoiceHandler := NewInvoiceHandler(deps.SaveInvoice, deps.InvoiceUC)
	pdfHandler := NewPDFHandler(deps.PDFUC)
	catalogHandler := NewCatalogHandler()

	api.Get("/catalog", catalogHandler.Get)
	api.Get("/changes", invoiceHandler.Changes)

	invoices := api.Group("/invoices")
	invoices.Post("/", invoiceHandler.Save)
	invoices.Get("/", invoiceHandler.ListRecent)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/duplicate", invoiceHandler.Duplicate)
	invoices.Get("/:id/share", invoiceHandler.Share)
	invoices.Get("/:id/pdf", pdfHandler.Download)
	invoices.Post("/:id/preview", pdfHandler.Preview)

	api.Get("/previews/:token", pdfHandler.ServePreview)
	api.Delete("/previews/:token", pdfHandler.ReleasePreview)
}
