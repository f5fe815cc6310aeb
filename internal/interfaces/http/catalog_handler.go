package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/factura-local/internal/application/dto"
	"github.com/jhoicas/factura-local/internal/domain/catalog"
)

// CatalogHandler expone el catálogo estático de monedas y presets.
type CatalogHandler struct{}

// NewCatalogHandler construye el handler.
func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

// Get devuelve monedas y presets en orden estable.
// GET /api/catalog
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	currencies := make([]dto.CurrencyDTO, 0)
	for _, cur := range catalog.Currencies() {
		currencies = append(currencies, dto.CurrencyDTO{Code: cur.Code, Symbol: cur.Symbol, MinorUnits: cur.MinorUnits})
	}
	presets := make([]dto.PresetResponse, 0)
	for _, p := range catalog.Presets() {
		presets = append(presets, dto.PresetResponse{
			Key:          p.Key,
			Name:         p.Name,
			Mode:         p.Mode,
			Label:        p.Label,
			Rate:         p.Rate,
			Currency:     dto.CurrencyDTO{Code: p.Currency.Code, Symbol: p.Currency.Symbol, MinorUnits: p.Currency.MinorUnits},
			NumberPrefix: p.NumberPrefix,
		})
	}
	return c.JSON(dto.CatalogResponse{Currencies: currencies, Presets: presets})
}
