package billing

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// Límites de entrada.
const (
	MaxItemNameLen = 120
	MaxItemQty     = 1_000_000
)

// maxItemPrice precio unitario máximo aceptado.
var maxItemPrice = decimal.NewFromInt(100_000_000)

// taxIDPattern forma genérica de identificación fiscal (GSTIN, NIT, VAT id):
// 5 a 20 caracteres alfanuméricos o guiones.
var taxIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{5,20}$`)

// Validate produce un mapa de ruta-de-campo → mensaje legible. Mapa vacío
// significa factura válida. Las claves usan notación punteada e indexada
// (items.<i>.name) y se recalculan desde cero en cada llamada; la función
// nunca muta la factura que inspecciona.
func Validate(inv entity.Invoice) map[string]string {
	errs := make(map[string]string)

	if inv.Seller.Name == "" {
		errs["seller.name"] = "el nombre del emisor es obligatorio"
	}
	if inv.Seller.Address == "" {
		errs["seller.address"] = "la dirección del emisor es obligatoria"
	}
	if inv.Tax.Mode != entity.TaxModeNone {
		if inv.Seller.TaxID == "" {
			errs["seller.taxId"] = "la identificación fiscal es obligatoria con impuesto activo"
		} else if !taxIDPattern.MatchString(inv.Seller.TaxID) {
			errs["seller.taxId"] = "identificación fiscal con formato inválido"
		}
	}

	if len(inv.Items) == 0 {
		errs["items"] = "agrega al menos una línea"
		return errs
	}

	for i, it := range inv.Items {
		if it.Name == "" {
			errs[fmt.Sprintf("items.%d.name", i)] = "la descripción es obligatoria"
		} else if utf8.RuneCountInString(it.Name) > MaxItemNameLen {
			errs[fmt.Sprintf("items.%d.name", i)] = fmt.Sprintf("la descripción supera %d caracteres", MaxItemNameLen)
		}
		if it.Qty < 1 {
			errs[fmt.Sprintf("items.%d.qty", i)] = "la cantidad debe ser al menos 1"
		} else if it.Qty > MaxItemQty {
			errs[fmt.Sprintf("items.%d.qty", i)] = fmt.Sprintf("la cantidad supera el máximo de %d", MaxItemQty)
		}
		if it.Price.IsNegative() {
			errs[fmt.Sprintf("items.%d.price", i)] = "el precio no puede ser negativo"
		} else if it.Price.GreaterThan(maxItemPrice) {
			errs[fmt.Sprintf("items.%d.price", i)] = "el precio supera el máximo permitido"
		}
	}

	return errs
}
