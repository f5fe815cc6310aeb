package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicateNumber = errors.New("número de factura duplicado")
	ErrNumberCollision = errors.New("no se pudo reservar un número de factura único")
	ErrRender          = errors.New("generación del documento fallida")
)
