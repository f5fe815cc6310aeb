package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	"github.com/jhoicas/factura-local/internal/application/dto"
	"github.com/jhoicas/factura-local/internal/domain"
)

// PDFHandler entrega la factura renderizada: descarga con nombre determinista
// y previsualización vía token transitorio.
type PDFHandler struct {
	uc *appbilling.PDFUseCase
}

// NewPDFHandler construye el handler.
func NewPDFHandler(uc *appbilling.PDFUseCase) *PDFHandler {
	return &PDFHandler{uc: uc}
}

// Download renderiza y descarga el documento.
// GET /api/invoices/:id/pdf
func (h *PDFHandler) Download(c *fiber.Ctx) error {
	data, filename, err := h.uc.Download(c.Context(), c.Params("id"))
	if err != nil {
		return mapRenderError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Preview renderiza y registra un handle transitorio; el cliente abre la URL
// devuelta y puede revocarla antes de que expire.
// POST /api/invoices/:id/preview
func (h *PDFHandler) Preview(c *fiber.Ctx) error {
	token, err := h.uc.Preview(c.Context(), c.Params("id"))
	if err != nil {
		return mapRenderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PreviewResponse{
		Token: token,
		URL:   "/api/previews/" + token,
	})
}

// ServePreview sirve los bytes de un token vigente.
// GET /api/previews/:token
func (h *PDFHandler) ServePreview(c *fiber.Ctx) error {
	data, ok := h.uc.PreviewBytes(c.Params("token"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "previsualización expirada o revocada"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline")
	return c.Send(data)
}

// ReleasePreview revoca el token explícitamente (idempotente).
// DELETE /api/previews/:token
func (h *PDFHandler) ReleasePreview(c *fiber.Ctx) error {
	h.uc.ReleasePreview(c.Params("token"))
	return c.SendStatus(fiber.StatusNoContent)
}

// mapRenderError distingue el fallo de render del de persistencia: el usuario
// debe saber que la factura quedó guardada aunque la exportación falló.
func mapRenderError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrRender) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "RENDER_FAILED", Message: "la generación del PDF falló; la factura sigue guardada"})
	}
	return mapDomainError(c, err)
}
