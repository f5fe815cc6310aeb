package repository

import (
	"context"

	"github.com/jhoicas/factura-local/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
//
// Contratos:
//   - Save es un upsert idempotente por ID; la escritura completa (cabecera,
//     líneas e índice de orden) confirma o se revierte como un todo.
//   - GetByID devuelve (nil, nil) si el ID no existe; nunca es un error.
//   - ListRecent devuelve hasta limit registros por CreatedAt descendente,
//     leyendo solo lo necesario del índice (top-K, no scan completo).
//   - Delete es idempotente; borrar un ID inexistente es éxito silencioso.
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
}

// SequenceRepository reserva valores de una secuencia monótona por
// (prefijo, año), serializada por el almacén: dos llamadas nunca devuelven el
// mismo valor dentro de la misma base.
type SequenceRepository interface {
	Next(ctx context.Context, prefix string, year int) (int64, error)
}

// ChangeBroadcaster señal de difusión "la colección de facturas cambió".
// Sin garantía de payload: un oyente debe re-consultar el estado actual en
// lugar de confiar en la notificación. Notify solo se dispara después de que
// la transacción confirmó.
type ChangeBroadcaster interface {
	// Subscribe devuelve un canal de señales y la función para darse de baja.
	Subscribe() (<-chan struct{}, func())
	// Notify difunde el cambio a todos los suscriptores sin bloquear.
	Notify()
}
