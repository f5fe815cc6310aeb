package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appbilling "github.com/jhoicas/factura-local/internal/application/billing"
	"github.com/jhoicas/factura-local/internal/application/dto"
	"github.com/jhoicas/factura-local/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	saver *appbilling.SaveInvoiceUseCase
	uc    *appbilling.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(saver *appbilling.SaveInvoiceUseCase, uc *appbilling.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{saver: saver, uc: uc}
}

// Save guarda/genera una factura. Errores de validación → 422 con mapa de campos.
// POST /api/invoices
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// Si el ID ya existe, el guardado parte del registro persistido para
	// conservar número y CreatedAt.
	inv := in.ToEntity(nil)
	if in.ID != "" {
		if existing, err := h.uc.Get(c.Context(), in.ID); err == nil {
			inv = in.ToEntity(existing)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return internalError(c, err)
		}
	}

	saved, fieldErrs, err := h.saver.Save(c.Context(), inv)
	if err != nil {
		return mapDomainError(c, err)
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{Code: "VALIDATION", Fields: fieldErrs})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromEntity(saved))
}

// GetByID obtiene una factura.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.FromEntity(inv))
}

// ListRecent lista las facturas más recientes.
// GET /api/invoices?limit=5
func (h *InvoiceHandler) ListRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", appbilling.DefaultRecentLimit)
	list, err := h.uc.ListRecent(c.Context(), limit)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(dto.FromEntities(list))
}

// Delete borra una factura (idempotente).
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Duplicate crea una copia con ID nuevo y número limpio.
// POST /api/invoices/:id/duplicate
func (h *InvoiceHandler) Duplicate(c *fiber.Ctx) error {
	copyInv, err := h.uc.Duplicate(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromEntity(copyInv))
}

// Share devuelve el resumen compartible.
// GET /api/invoices/:id/share
func (h *InvoiceHandler) Share(c *fiber.Ctx) error {
	text, err := h.uc.Share(c.Context(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ShareResponse{Text: text})
}

// Changes espera la próxima señal de cambio de la colección (long-poll con
// timeout). 200 = hubo cambio, re-consulta; 204 = venció la espera.
// GET /api/changes
func (h *InvoiceHandler) Changes(c *fiber.Ctx) error {
	ch, cancel := h.uc.Changes().Subscribe()
	defer cancel()

	select {
	case <-ch:
		return c.SendStatus(fiber.StatusOK)
	case <-c.Context().Done():
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func mapDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNumberCollision):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NUMBER_COLLISION", Message: "no se pudo reservar un número único"})
	case errors.Is(err, domain.ErrDuplicateNumber):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_NUMBER", Message: "el número de factura ya existe"})
	default:
		return internalError(c, err)
	}
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
