// Package billing contiene el núcleo puro de facturación: motor de totales,
// validador, constructores/actualizador del agregado y resumen compartible.
// Ninguna función de este paquete hace I/O ni muta su entrada.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// CalculateTotals calcula {subtotal, impuesto, total} a partir de las líneas y
// el tratamiento de impuesto, con acumulación decimal exacta.
//
// Regla de redondeo: half-up (mitad se aleja de cero), aplicada al subtotal
// acumulado y a subtotal × tasa, a los decimales de la unidad menor de la
// moneda (2 por defecto, 0 para JPY).
//
// Cantidades o precios negativos no deben llegar aquí (los rechaza el
// validador); si llegan, se fijan a cero para no producir totales negativos.
func CalculateTotals(items []entity.InvoiceItem, tax entity.Tax, currency entity.Currency) entity.Totals {
	places := currency.MinorUnits

	sum := decimal.Zero
	for _, it := range items {
		qty := it.Qty
		if qty < 0 {
			qty = 0
		}
		price := it.Price
		if price.IsNegative() {
			price = decimal.Zero
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(qty)))
	}

	subtotal := sum.Round(places)
	if subtotal.IsNegative() {
		subtotal = decimal.Zero
	}

	if tax.Mode == entity.TaxModeNone {
		return entity.Totals{
			Subtotal:  subtotal,
			TaxAmount: decimal.Zero.Round(places),
			Total:     subtotal,
		}
	}

	taxAmount := subtotal.Mul(tax.Rate).Round(places)
	return entity.Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}
