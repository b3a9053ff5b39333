package sessionstore

import (
	"context"
	"sync"

	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

var _ repository.SessionStorage = (*Memory)(nil)

// Memory almacenamiento en memoria del proceso. Seguro para uso concurrente;
// pensado para tests y desarrollo local (se pierde al reiniciar).
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory crea un almacenamiento vacío.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Len número de claves (tests).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
