package repository

import "context"

// Claves persistidas por visitante.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyCart  = "cart"
)

// SessionKeys todas las claves que se borran juntas al cerrar sesión.
var SessionKeys = []string{KeyToken, KeyUser, KeyCart}

// SessionStorage puerto clave-valor que sobrevive a recargas (el equivalente
// al almacenamiento local del navegador, pero del lado del servidor).
type SessionStorage interface {
	// Get devuelve found=false (sin error) si la clave no existe.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete es idempotente: borrar claves inexistentes no es error.
	Delete(ctx context.Context, keys ...string) error
}
