package http_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/factura-local/internal/application/dto"
)

// TestAPI_DownloadPDF la descarga llega con tipo y nombre de archivo
// deterministas.
func TestAPI_DownloadPDF(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	rec := doJSON(t, app, fiber.MethodGet, "/api/invoices/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, rec.Code)

	assert.Equal(t, "application/pdf", rec.Header().Get(fiber.HeaderContentType))
	assert.Contains(t, rec.Header().Get(fiber.HeaderContentDisposition), "Invoice_"+created.InvoiceNumber+".pdf")
	assert.Equal(t, "%PDF-stub", rec.Body.String())
}

func TestAPI_DownloadPDFInexistente404(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, fiber.MethodGet, "/api/invoices/no-existe/pdf", nil)

	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

// TestAPI_PreviewCicloCompleto crear handle, servirlo, revocarlo y comprobar
// que deja de resolver.
func TestAPI_PreviewCicloCompleto(t *testing.T) {
	app := newTestApp(t)

	created := decode[dto.InvoiceResponse](t, doJSON(t, app, fiber.MethodPost, "/api/invoices", saveBody()))

	rec := doJSON(t, app, fiber.MethodPost, "/api/invoices/"+created.ID+"/preview", nil)
	require.Equal(t, fiber.StatusCreated, rec.Code)
	preview := decode[dto.PreviewResponse](t, rec)
	require.NotEmpty(t, preview.Token)
	assert.Equal(t, "/api/previews/"+preview.Token, preview.URL)

	rec = doJSON(t, app, fiber.MethodGet, preview.URL, nil)
	require.Equal(t, fiber.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-stub", rec.Body.String())

	rec = doJSON(t, app, fiber.MethodDelete, preview.URL, nil)
	assert.Equal(t, fiber.StatusNoContent, rec.Code)

	rec = doJSON(t, app, fiber.MethodGet, preview.URL, nil)
	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}

func TestAPI_PreviewTokenDesconocido404(t *testing.T) {
	app := newTestApp(t)

	rec := doJSON(t, app, fiber.MethodGet, "/api/previews/jamas-existio", nil)

	assert.Equal(t, fiber.StatusNotFound, rec.Code)
}
