// Package notify mantiene las notificaciones descartables de un visitante.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// maxPending notificaciones activas por visitante; al superarlo se descarta la más antigua.
const maxPending = 20

// Queue cola de avisos con caducidad. Los errores duran más que los éxitos.
type Queue struct {
	successTTL time.Duration
	errorTTL   time.Duration
	now        func() time.Time

	mu    sync.Mutex
	items []entity.Notification
}

// NewQueue crea la cola. Si errorTTL < successTTL se iguala a successTTL.
func NewQueue(successTTL, errorTTL time.Duration) *Queue {
	if errorTTL < successTTL {
		errorTTL = successTTL
	}
	return &Queue{successTTL: successTTL, errorTTL: errorTTL, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (q *Queue) WithClock(now func() time.Time) *Queue {
	q.now = now
	return q
}

// Push añade un aviso del nivel indicado.
func (q *Queue) Push(level entity.NoticeLevel, message string) entity.Notification {
	ttl := q.successTTL
	if level == entity.NoticeError {
		ttl = q.errorTTL
	}
	n := entity.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		ExpiresAt: q.now().Add(ttl),
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked()
	q.items = append(q.items, n)
	if over := len(q.items) - maxPending; over > 0 {
		q.items = append([]entity.Notification(nil), q.items[over:]...)
	}
	return n
}

func (q *Queue) Success(message string) entity.Notification {
	return q.Push(entity.NoticeSuccess, message)
}

func (q *Queue) Info(message string) entity.Notification {
	return q.Push(entity.NoticeInfo, message)
}

func (q *Queue) Error(message string) entity.Notification {
	return q.Push(entity.NoticeError, message)
}

// Active avisos vigentes, del más antiguo al más reciente.
func (q *Queue) Active() []entity.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked()
	return append([]entity.Notification{}, q.items...)
}

// Dismiss descarta un aviso. Devuelve false si no existía o ya caducó.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pruneLocked()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear descarta todo (cambio de sesión).
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

func (q *Queue) pruneLocked() {
	now := q.now()
	kept := q.items[:0]
	for _, n := range q.items {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	q.items = kept
}
