package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPreviewTTL vida máxima de un blob de previsualización no liberado.
const DefaultPreviewTTL = 60 * time.Second

type previewEntry struct {
	data      []byte
	expiresAt time.Time
}

// PreviewStore almacén en memoria de blobs de previsualización con handles
// revocables. Cada entrada expira tras el TTL aunque el llamador nunca la
// libere, para que una sesión larga no acumule documentos sin límite.
type PreviewStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]previewEntry
}

// NewPreviewStore construye el almacén; ttl ≤ 0 aplica DefaultPreviewTTL.
func NewPreviewStore(ttl time.Duration) *PreviewStore {
	if ttl <= 0 {
		ttl = DefaultPreviewTTL
	}
	return &PreviewStore{
		ttl:     ttl,
		entries: make(map[string]previewEntry),
	}
}

// Put registra los bytes y devuelve el token transitorio.
func (s *PreviewStore) Put(data []byte) string {
	token := uuid.New().String()
	s.mu.Lock()
	s.purgeLocked(time.Now())
	s.entries[token] = previewEntry{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()
	return token
}

// Get devuelve los bytes del token si sigue vigente.
func (s *PreviewStore) Get(token string) ([]byte, bool) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if !ok || now.After(e.expiresAt) {
		delete(s.entries, token)
		return nil, false
	}
	return e.data, true
}

// Release revoca el token explícitamente. Revocar uno inexistente es inocuo.
func (s *PreviewStore) Release(token string) {
	s.mu.Lock()
	delete(s.entries, token)
	s.mu.Unlock()
}

// Run ejecuta el recolector de entradas vencidas hasta que el contexto cierre.
func (s *PreviewStore) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			s.purgeLocked(now)
			s.mu.Unlock()
		}
	}
}

func (s *PreviewStore) purgeLocked(now time.Time) {
	for token, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, token)
		}
	}
}

// Len cantidad de previsualizaciones vivas (para métricas y tests).
func (s *PreviewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
