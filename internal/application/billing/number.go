package billing

import "fmt"

// maxNumberAttempts reintentos ante una colisión de número generado antes de
// rendirse con ErrNumberCollision.
const maxNumberAttempts = 3

// FormatNumber formatea un número de factura determinista a partir del
// prefijo, el año y el valor reservado de la secuencia.
// Ej: ("GST", 2026, 7) → "GST-2026-00007".
func FormatNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq)
}
