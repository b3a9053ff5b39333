package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

var _ repository.SessionStorage = (*SessionStorage)(nil)

const createSessionTable = `
	CREATE TABLE IF NOT EXISTS storefront_session_kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// SessionStorage implementación del puerto SessionStorage sobre PostgreSQL.
type SessionStorage struct {
	pool *pgxpool.Pool
}

// NewSessionStorage construye el adaptador y crea la tabla si no existe.
func NewSessionStorage(ctx context.Context, pool *pgxpool.Pool) (*SessionStorage, error) {
	if _, err := pool.Exec(ctx, createSessionTable); err != nil {
		return nil, fmt.Errorf("crear tabla de sesiones: %w", err)
	}
	return &SessionStorage{pool: pool}, nil
}

// Get obtiene el valor de una clave.
func (r *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := r.pool.QueryRow(ctx, `SELECT value FROM storefront_session_kv WHERE key = $1`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session key: %w", err)
	}
	return v, true, nil
}

// Set inserta o reemplaza el valor.
func (r *SessionStorage) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storefront_session_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set session key: %w", err)
	}
	return nil
}

// Delete borra las claves indicadas en una sola sentencia.
func (r *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM storefront_session_kv WHERE key = ANY($1)`, keys); err != nil {
		return fmt.Errorf("delete session keys: %w", err)
	}
	return nil
}
