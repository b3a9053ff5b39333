package petapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jhoicas/petshop-storefront/internal/domain"
)

// APIError respuesta de error de la API. Unwrap devuelve el error de dominio
// correspondiente al código HTTP.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

// StatusCode código HTTP devuelto por la API.
func (e *APIError) StatusCode() int { return e.Status }

// UserMessage mensaje de la API para mostrar al usuario.
func (e *APIError) UserMessage() string { return e.Message }

// messagePaths rutas donde distintos backends dejan el mensaje de error.
var messagePaths = []string{"message", "error.message", "error", "errors.0.message", "errors.0.defaultMessage", "errors.0", "detail", "title"}

func newAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Message: extractMessage(status, body), kind: kindFor(status)}
}

func extractMessage(status int, body []byte) string {
	if gjson.ValidBytes(body) {
		for _, p := range messagePaths {
			if r := gjson.GetBytes(body, p); r.Type == gjson.String && strings.TrimSpace(r.Str) != "" {
				return strings.TrimSpace(r.Str)
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func kindFor(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusTooManyRequests:
		return domain.ErrTooManyAttempts
	default:
		return domain.ErrAPI
	}
}
