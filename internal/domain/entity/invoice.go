package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de impuesto soportados por el catálogo.
const (
	TaxModeNone      = "NONE"       // Sin impuesto: total = subtotal
	TaxModeFixedRate = "FIXED_RATE" // Tasa fija sobre el subtotal
)

// SchemaVersion versión actual del registro persistido. Se guarda junto a cada
// factura para poder migrar registros antiguos sin pérdida de datos.
const SchemaVersion = 1

// Currency moneda de la factura (del catálogo estático).
type Currency struct {
	Code       string
	Symbol     string
	MinorUnits int32 // decimales de la unidad menor (2 para INR/USD, 0 para JPY)
}

// Tax tratamiento de impuesto aplicado uniformemente al subtotal.
type Tax struct {
	Mode  string
	Label string
	Rate  decimal.Decimal // fracción, ej. 0.18 para 18%
}

// Party emisor o receptor de la factura.
type Party struct {
	Name    string
	Address string
	TaxID   string // opcional salvo que el modo de impuesto lo exija
}

// InvoiceItem línea de la factura. El importe de línea (Qty × Price) nunca se
// almacena por separado: siempre se recalcula.
type InvoiceItem struct {
	ID    string
	Name  string
	Qty   int64
	Price decimal.Decimal
}

// Totals instantánea derivada de {Items, Tax}. No es editable de forma
// independiente: todo camino de mutación la recalcula.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Invoice raíz del agregado de facturación.
//
// Invariantes:
//   - ID se asigna una vez al crear y no cambia (clave primaria del repositorio).
//   - Number queda vacío hasta completar "generar"; una vez asignado es
//     inmutable y único en el almacén. Duplicar crea un ID nuevo con Number vacío.
//   - CreatedAt se estampa en el primer guardado.
//   - Totals siempre es función pura de {Items, Tax}.
type Invoice struct {
	ID            string
	Number        string
	CreatedAt     time.Time // cero hasta el primer guardado
	Seller        Party
	Customer      Party
	Currency      Currency
	Tax           Tax
	Items         []InvoiceItem
	Totals        Totals
	QREnabled     bool // bandera de presentación consumida por el PDF
	SchemaVersion int
}

// Clone devuelve una copia estructural profunda: el slice de líneas no se
// comparte entre la copia y el original.
func (i Invoice) Clone() Invoice {
	out := i
	if i.Items != nil {
		out.Items = make([]InvoiceItem, len(i.Items))
		copy(out.Items, i.Items)
	}
	return out
}
