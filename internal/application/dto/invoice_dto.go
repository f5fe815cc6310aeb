// Package dto define los cuerpos de petición/respuesta de la capa de
// presentación y su mapeo al agregado de dominio.
package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain/catalog"
	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// PartyDTO emisor o receptor.
type PartyDTO struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TaxID   string `json:"taxId,omitempty"`
}

// CurrencyDTO moneda de la factura.
type CurrencyDTO struct {
	Code       string `json:"code"`
	Symbol     string `json:"symbol"`
	MinorUnits int32  `json:"minorUnits"`
}

// TaxDTO tratamiento de impuesto.
type TaxDTO struct {
	Mode  string          `json:"mode"`
	Label string          `json:"label,omitempty"`
	Rate  decimal.Decimal `json:"rate"`
}

// ItemDTO línea de la factura.
type ItemDTO struct {
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name"`
	Qty   int64           `json:"qty"`
	Price decimal.Decimal `json:"price"`
}

// TotalsDTO instantánea derivada; solo sale en respuestas, nunca se acepta
// como entrada editable.
type TotalsDTO struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// SaveInvoiceRequest cuerpo de guardado/generación. PresetKey permite crear
// desde un preset sin repetir moneda e impuesto; si viene Currency/Tax
// explícitos, ganan.
type SaveInvoiceRequest struct {
	ID        string       `json:"id,omitempty"`
	PresetKey string       `json:"presetKey,omitempty"`
	Seller    PartyDTO     `json:"seller"`
	Customer  PartyDTO     `json:"customer"`
	Currency  *CurrencyDTO `json:"currency,omitempty"`
	Tax       *TaxDTO      `json:"tax,omitempty"`
	Items     []ItemDTO    `json:"items"`
	QREnabled bool         `json:"qrEnabled"`
}

// ToEntity convierte la petición en el agregado de dominio. El número y
// CreatedAt nunca vienen del cliente: los administra el núcleo.
func (r SaveInvoiceRequest) ToEntity(existing *entity.Invoice) entity.Invoice {
	var inv entity.Invoice
	if existing != nil {
		inv = existing.Clone()
	} else if preset, ok := catalog.PresetByKey(r.PresetKey); ok {
		inv.Currency = preset.Currency
		inv.Tax = entity.Tax{Mode: preset.Mode, Label: preset.Label, Rate: preset.Rate}
	}

	inv.ID = r.ID
	if existing != nil {
		inv.ID = existing.ID
	}
	inv.Seller = entity.Party{Name: r.Seller.Name, Address: r.Seller.Address, TaxID: r.Seller.TaxID}
	inv.Customer = entity.Party{Name: r.Customer.Name, Address: r.Customer.Address, TaxID: r.Customer.TaxID}
	if r.Currency != nil {
		inv.Currency = entity.Currency{Code: r.Currency.Code, Symbol: r.Currency.Symbol, MinorUnits: r.Currency.MinorUnits}
	}
	if r.Tax != nil {
		inv.Tax = entity.Tax{Mode: r.Tax.Mode, Label: r.Tax.Label, Rate: r.Tax.Rate}
	}
	items := make([]entity.InvoiceItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, entity.InvoiceItem{ID: it.ID, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	inv.Items = items
	inv.QREnabled = r.QREnabled
	return inv
}

// InvoiceResponse representación completa de una factura persistida.
type InvoiceResponse struct {
	ID            string      `json:"id"`
	InvoiceNumber string      `json:"invoiceNumber"`
	CreatedAt     int64       `json:"createdAt"` // epoch ms UTC
	Seller        PartyDTO    `json:"seller"`
	Customer      PartyDTO    `json:"customer"`
	Currency      CurrencyDTO `json:"currency"`
	Tax           TaxDTO      `json:"tax"`
	Items         []ItemDTO   `json:"items"`
	Totals        TotalsDTO   `json:"totals"`
	QREnabled     bool        `json:"qrEnabled"`
	SchemaVersion int         `json:"schemaVersion"`
}

// FromEntity mapea el agregado a la respuesta.
func FromEntity(inv *entity.Invoice) InvoiceResponse {
	items := make([]ItemDTO, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, ItemDTO{ID: it.ID, Name: it.Name, Qty: it.Qty, Price: it.Price})
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.Number,
		CreatedAt:     inv.CreatedAt.UTC().UnixMilli(),
		Seller:        PartyDTO{Name: inv.Seller.Name, Address: inv.Seller.Address, TaxID: inv.Seller.TaxID},
		Customer:      PartyDTO{Name: inv.Customer.Name, Address: inv.Customer.Address, TaxID: inv.Customer.TaxID},
		Currency:      CurrencyDTO{Code: inv.Currency.Code, Symbol: inv.Currency.Symbol, MinorUnits: inv.Currency.MinorUnits},
		Tax:           TaxDTO{Mode: inv.Tax.Mode, Label: inv.Tax.Label, Rate: inv.Tax.Rate},
		Items:         items,
		Totals:        TotalsDTO{Subtotal: inv.Totals.Subtotal, TaxAmount: inv.Totals.TaxAmount, Total: inv.Totals.Total},
		QREnabled:     inv.QREnabled,
		SchemaVersion: inv.SchemaVersion,
	}
}

// FromEntities mapea una lista.
func FromEntities(list []*entity.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, FromEntity(inv))
	}
	return out
}

// PresetResponse entrada del catálogo de presets.
type PresetResponse struct {
	Key          string          `json:"key"`
	Name         string          `json:"name"`
	Mode         string          `json:"mode"`
	Label        string          `json:"label,omitempty"`
	Rate         decimal.Decimal `json:"rate"`
	Currency     CurrencyDTO     `json:"currency"`
	NumberPrefix string          `json:"numberPrefix"`
}

// CatalogResponse monedas y presets soportados.
type CatalogResponse struct {
	Currencies []CurrencyDTO    `json:"currencies"`
	Presets    []PresetResponse `json:"presets"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse errores de campo devueltos como datos: ruta de
// campo → mensaje.
type ValidationErrorResponse struct {
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// ShareResponse resumen compartible.
type ShareResponse struct {
	Text string `json:"text"`
}

// PreviewResponse handle transitorio de previsualización.
type PreviewResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}
