package ports

import (
	"errors"

	"github.com/jhoicas/petshop-storefront/internal/domain"
)

// UserMessage texto para mostrar: el de la API si lo trae; el genérico de
// conectividad para fallos de red; si no, el del propio error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, domain.ErrNetwork) {
		return domain.ErrNetwork.Error()
	}
	var um UserMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.ErrInvalidCredentials.Error()
	}
	return err.Error()
}
