package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/guard"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/domain"
)

// statusCoder lo implementan los errores de la API (código HTTP de origen).
type statusCoder interface {
	StatusCode() int
}

// ErrorHandler interceptor global: traduce los errores de los handlers a
// respuestas. Un 401 de la API cierra la sesión del visitante y redirige al
// login; un 403 redirige a /unauthorized. El resto se muestra además como
// notificación de error.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}

		v := CurrentVisitor(c)
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			if v != nil {
				v.Auth.HandleUnauthorized(c.UserContext())
			}
			location := guard.LoginPath
			if c.Method() == http.MethodGet {
				location = guard.LoginLocation(c.OriginalURL())
			}
			return redirectTo(c, location, "UNAUTHORIZED", domain.ErrUnauthorized.Error())
		case errors.Is(err, domain.ErrForbidden):
			return redirectTo(c, guard.UnauthorizedPath, "FORBIDDEN", domain.ErrForbidden.Error())
		}

		status, code := classify(err)
		msg := ports.UserMessage(err)
		if status >= fiber.StatusInternalServerError && status != fiber.StatusBadGateway {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
			msg = "error interno, intente de nuevo"
		} else {
			log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("error de petición")
		}
		if v != nil {
			v.Notices.Error(msg)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
}

func classify(err error) (int, string) {
	switch {
	case domain.IsValidation(err):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"
	case errors.Is(err, domain.ErrOperationInProgress), errors.Is(err, domain.ErrOrderInFlight):
		return fiber.StatusConflict, "IN_PROGRESS"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNetwork):
		return fiber.StatusBadGateway, "NETWORK"
	case errors.Is(err, domain.ErrAPI):
		var sc statusCoder
		if errors.As(err, &sc) && sc.StatusCode() >= 400 && sc.StatusCode() < 500 {
			return sc.StatusCode(), "API_REJECTED"
		}
		return fiber.StatusBadGateway, "API_ERROR"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "INVALID_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL"
		}
		return "ERROR"
	}
}
