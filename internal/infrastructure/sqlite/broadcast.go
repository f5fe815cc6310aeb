package sqlite

import (
	"sync"

	"github.com/jhoicas/factura-local/internal/domain/repository"
)

var _ repository.ChangeBroadcaster = (*Broadcaster)(nil)

// Broadcaster difusor de cambios de la colección de facturas, propiedad del
// componente de persistencia. Los casos de uso lo disparan solo después de
// confirmar la transacción; los suscriptores deben re-consultar el estado en
// lugar de inferirlo de la señal.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewBroadcaster construye el difusor.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Subscribe registra un oyente. El segundo valor es la baja; llamarla más de
// una vez es inocuo.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Notify difunde la señal sin bloquear: un oyente lento que ya tiene una
// señal pendiente no recibe otra, y al despertar re-consulta igualmente.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
