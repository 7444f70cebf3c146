package cart

import (
	"context"
	"sync"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// SessionStore persiste las pestañas del carrito para que sobrevivan recargas.
// Implementaciones: Redis (producción) y memoria (fallback/tests).
type SessionStore interface {
	Save(ctx context.Context, session *entity.CartSession) error
	Delete(ctx context.Context, tabID string) error
	SaveActive(ctx context.Context, tabID string) error
	// LoadAll devuelve todas las pestañas persistidas y el id de la activa.
	LoadAll(ctx context.Context) ([]*entity.CartSession, string, error)
}

// MemoryStore almacén en memoria; las pestañas no sobreviven reinicios del proceso.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.CartSession
	activeID string
}

// NewMemoryStore construye el almacén en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*entity.CartSession)}
}

func (m *MemoryStore) Save(_ context.Context, session *entity.CartSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, tabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tabID)
	return nil
}

func (m *MemoryStore) SaveActive(_ context.Context, tabID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeID = tabID
	return nil
}

func (m *MemoryStore) LoadAll(_ context.Context) ([]*entity.CartSession, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*entity.CartSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, m.activeID, nil
}
