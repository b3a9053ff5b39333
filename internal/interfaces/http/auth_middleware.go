package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/guard"
	"github.com/jhoicas/petshop-storefront/internal/application/ports"
	"github.com/jhoicas/petshop-storefront/internal/application/visitor"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
	"github.com/jhoicas/petshop-storefront/pkg/metrics"
)

// Locals keys en Fiber.
const (
	LocalVisitor = "visitor"
	LocalUser    = "user"
)

// CookieConfig cookie que identifica al visitante.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// VisitorMiddleware identifica al visitante por cookie (la crea si falta o no
// es un UUID) y deja su estado en c.Locals.
func VisitorMiddleware(reg *visitor.Registry, cookie CookieConfig) fiber.Handler {
	if cookie.Name == "" {
		cookie.Name = "petshop_sid"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 30 * 24 * time.Hour
	}
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookie.Name)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     cookie.Name,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cookie.MaxAge / time.Second),
				Secure:   cookie.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Locals(LocalVisitor, reg.Get(c.UserContext(), id))
		return c.Next()
	}
}

// CurrentVisitor visitante de la petición (después de VisitorMiddleware).
func CurrentVisitor(c *fiber.Ctx) *visitor.Visitor {
	v, _ := c.Locals(LocalVisitor).(*visitor.Visitor)
	return v
}

// CurrentUser identidad autenticada (después de RequireAccess).
func CurrentUser(c *fiber.Ctx) *entity.UserIdentity {
	u, _ := c.Locals(LocalUser).(*entity.UserIdentity)
	return u
}

// apiContext contexto para llamar a la API con el token del visitante.
func apiContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if v := CurrentVisitor(c); v != nil {
		ctx = ports.WithToken(ctx, v.Auth.Token())
	}
	return ctx
}

// RequireAccess aplica el guard de rutas. Debe usarse DESPUÉS de VisitorMiddleware.
//
// Comportamiento:
//   - render        → c.Next().
//   - login         → 302 a /login?redirect=<ruta>.
//   - unauthorized  → 302 a /unauthorized.
//   - wait          → 503 SESSION_RESTORING con Retry-After: 1 (sesión restaurándose).
func RequireAccess(req guard.Requirement, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s entity.Session
		if v := CurrentVisitor(c); v != nil {
			s = v.Auth.Snapshot()
		}
		d := guard.Decide(s, req, c.OriginalURL())
		if m != nil {
			m.GuardDecisions.WithLabelValues(string(d.Outcome)).Inc()
		}

		switch d.Outcome {
		case guard.Render:
			c.Locals(LocalUser, s.User)
			return c.Next()
		case guard.Wait:
			c.Set(fiber.HeaderRetryAfter, "1")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "SESSION_RESTORING",
				Message: "restaurando la sesión, reintente en un momento",
			})
		case guard.RedirectLogin:
			return redirectTo(c, d.Location, "LOGIN_REQUIRED", "inicie sesión para continuar")
		default:
			return redirectTo(c, d.Location, "FORBIDDEN", "no tiene permisos para ver esta página")
		}
	}
}

// redirectTo responde con la redirección y un cuerpo JSON que la describe.
// GET/HEAD usan 302; el resto 303 para que el navegador cambie a GET.
func redirectTo(c *fiber.Ctx, location, code, message string) error {
	status := fiber.StatusFound
	if m := c.Method(); m != http.MethodGet && m != http.MethodHead {
		status = fiber.StatusSeeOther
	}
	c.Location(location)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message, Redirect: location})
}
