package billing

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount formatea un monto a los decimales de la moneda con separadores
// de miles. Ej: 1234567.5 INR → "1,234,567.50".
func FormatAmount(d decimal.Decimal, currency entity.Currency) string {
	s := d.StringFixed(currency.MinorUnits)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Fuera de rango de int64: sin separadores antes que un monto corrupto.
		if neg {
			return "-" + s
		}
		return s
	}

	out := amountPrinter.Sprintf("%d", n)
	if hasFrac {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ShareSummary produce el resumen de una línea que la capa de presentación
// entrega a destinos externos (WhatsApp, correo): número + total + código de
// moneda. El resultado es estable e inyectable: sin saltos de línea ni
// caracteres de control que rompan el escapado del transporte receptor.
func ShareSummary(inv entity.Invoice) string {
	s := fmt.Sprintf("Invoice %s | Total: %s %s",
		inv.Number,
		FormatAmount(inv.Totals.Total, inv.Currency),
		inv.Currency.Code,
	)
	return sanitizeLine(s)
}

// sanitizeLine elimina caracteres de control y colapsa espacios.
func sanitizeLine(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsControl(r) {
			r = ' '
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
