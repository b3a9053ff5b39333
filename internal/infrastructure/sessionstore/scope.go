package sessionstore

import (
	"context"

	"github.com/jhoicas/petshop-storefront/internal/domain/repository"
)

// Scoped limita un almacenamiento compartido a las claves de un visitante.
type Scoped struct {
	base   repository.SessionStorage
	prefix string
}

var _ repository.SessionStorage = (*Scoped)(nil)

// Scope devuelve la vista del visitante id sobre base ("<id>:<clave>").
func Scope(base repository.SessionStorage, id string) *Scoped {
	return &Scoped{base: base, prefix: id + ":"}
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.base.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.base.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = s.prefix + k
	}
	return s.base.Delete(ctx, scoped...)
}
