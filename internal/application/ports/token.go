package ports

import "context"

type tokenKey struct{}

// WithToken adjunta el token del visitante al contexto de una llamada a la API.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom recupera el token adjuntado con WithToken.
func TokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

// UserMessager lo implementan los errores de la API que traen un mensaje apto para el usuario.
type UserMessager interface {
	UserMessage() string
}
