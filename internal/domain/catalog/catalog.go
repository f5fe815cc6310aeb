// Package catalog contiene el catálogo estático de monedas y presets de
// impuesto por jurisdicción. Es configuración, no comportamiento: las vistas
// listan los presets en orden determinista y el núcleo los consume por clave.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// TaxPreset configuración de jurisdicción: etiqueta, tasa, modo de cómputo,
// moneda por defecto y prefijo sugerido para la numeración.
type TaxPreset struct {
	Key          string
	Name         string
	Mode         string
	Label        string
	Rate         decimal.Decimal
	Currency     entity.Currency
	NumberPrefix string
}

// DefaultPresetKey preset inicial al crear una factura vacía.
const DefaultPresetKey = "INDIA_GST"

var currencies = []entity.Currency{
	{Code: "INR", Symbol: "₹", MinorUnits: 2},
	{Code: "USD", Symbol: "$", MinorUnits: 2},
	{Code: "EUR", Symbol: "€", MinorUnits: 2},
	{Code: "GBP", Symbol: "£", MinorUnits: 2},
	{Code: "JPY", Symbol: "¥", MinorUnits: 0},
}

var presets = []TaxPreset{
	{
		Key:          "INDIA_GST",
		Name:         "India (GST 18%)",
		Mode:         entity.TaxModeFixedRate,
		Label:        "GST (18%)",
		Rate:         decimal.NewFromFloat(0.18),
		Currency:     currencies[0],
		NumberPrefix: "GST",
	},
	{
		Key:          "EU_VAT",
		Name:         "Unión Europea (IVA 21%)",
		Mode:         entity.TaxModeFixedRate,
		Label:        "VAT (21%)",
		Rate:         decimal.NewFromFloat(0.21),
		Currency:     currencies[2],
		NumberPrefix: "VAT",
	},
	{
		Key:          "UK_VAT",
		Name:         "Reino Unido (VAT 20%)",
		Mode:         entity.TaxModeFixedRate,
		Label:        "VAT (20%)",
		Rate:         decimal.NewFromFloat(0.20),
		Currency:     currencies[3],
		NumberPrefix: "VAT",
	},
	{
		Key:          "JP_CT",
		Name:         "Japón (Consumption Tax 10%)",
		Mode:         entity.TaxModeFixedRate,
		Label:        "CT (10%)",
		Rate:         decimal.NewFromFloat(0.10),
		Currency:     currencies[4],
		NumberPrefix: "CT",
	},
	{
		Key:          "NO_TAX",
		Name:         "Sin impuesto",
		Mode:         entity.TaxModeNone,
		Label:        "",
		Rate:         decimal.Zero,
		Currency:     currencies[1],
		NumberPrefix: "INV",
	},
}

// Currencies devuelve las monedas soportadas en orden estable.
func Currencies() []entity.Currency {
	out := make([]entity.Currency, len(currencies))
	copy(out, currencies)
	return out
}

// CurrencyByCode busca una moneda por código ISO.
func CurrencyByCode(code string) (entity.Currency, bool) {
	for _, c := range currencies {
		if c.Code == code {
			return c, true
		}
	}
	return entity.Currency{}, false
}

// Presets devuelve los presets de impuesto en orden estable.
func Presets() []TaxPreset {
	out := make([]TaxPreset, len(presets))
	copy(out, presets)
	return out
}

// PresetByKey busca un preset por clave.
func PresetByKey(key string) (TaxPreset, bool) {
	for _, p := range presets {
		if p.Key == key {
			return p, true
		}
	}
	return TaxPreset{}, false
}
