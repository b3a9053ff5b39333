package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/petshop-storefront/internal/application/dto"
	"github.com/jhoicas/petshop-storefront/internal/application/guard"
	"github.com/jhoicas/petshop-storefront/internal/application/usecase"
	"github.com/jhoicas/petshop-storefront/internal/domain"
	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// StaffLandingPath pantalla inicial del personal de tienda tras el login.
const StaffLandingPath = "/staff/orders"

// SessionScreen estado de sesión que consume la UI en cada carga.
type SessionScreen struct {
	Session       entity.Session        `json:"session"`
	Cart          *entity.Cart          `json:"cart,omitempty"`
	Notifications []entity.Notification `json:"notifications"`
}

// LoginScreen datos de la pantalla de login.
type LoginScreen struct {
	Session  entity.Session `json:"session"`
	Redirect string         `json:"redirect"`
}

// AuthHandler sesión del visitante: login, registro y logout.
type AuthHandler struct {
	cart *usecase.CartUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(cart *usecase.CartUseCase) *AuthHandler {
	return &AuthHandler{cart: cart}
}

// Session godoc
// @Summary      Estado de sesión del visitante
// @Tags         auth
// @Produce      json
// @Success      200  {object}  SessionScreen
// @Router       /session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	out := SessionScreen{Session: v.Auth.Snapshot(), Notifications: v.Notices.Active()}
	if out.Session.IsAuthenticated {
		out.Cart = h.cart.Cached(c.UserContext(), v.Storage)
	}
	return c.JSON(out)
}

// LoginPage devuelve la ruta a la que se volverá tras el login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	s := v.Auth.Snapshot()
	redirect := guard.ReturnPath(c.Query(guard.RedirectParam))
	if s.IsAuthenticated {
		return redirectTo(c, landing(s.User, c.Query(guard.RedirectParam)), "ALREADY_AUTHENTICATED", "ya hay una sesión iniciada")
	}
	return c.JSON(LoginScreen{Session: s, Redirect: redirect})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body      body   dto.LoginRequest  true   "username, password"
// @Param        redirect  query  string            false  "ruta a la que volver"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	if !v.AllowLogin() {
		return domain.ErrTooManyAttempts
	}
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := v.Auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.cart.Invalidate(c.UserContext(), v.Storage)
	v.Notices.Success("Bienvenido, " + displayName(user))
	return c.JSON(dto.LoginResponse{User: user, Redirect: landing(user, c.Query(guard.RedirectParam))})
}

// Register godoc
// @Summary      Registrar cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "datos de registro"
// @Success      201   {object}  dto.ErrorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := v.Auth.Register(c.UserContext(), in); err != nil {
		return err
	}
	v.Notices.Success("Cuenta creada, ya puede iniciar sesión")
	c.Location(guard.LoginPath)
	return c.Status(fiber.StatusCreated).JSON(dto.ErrorResponse{Code: "REGISTERED", Message: "cuenta creada", Redirect: guard.LoginPath})
}

// Logout cierra la sesión (la API se avisa en best effort).
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	v := CurrentVisitor(c)
	v.Auth.Logout(c.UserContext())
	v.Notices.Info("Sesión cerrada")
	return redirectTo(c, guard.LoginPath, "LOGGED_OUT", "sesión cerrada")
}

// Unauthorized pantalla de acceso denegado.
func (h *AuthHandler) Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Code:    "FORBIDDEN",
		Message: "no tiene permisos para ver esta página",
	})
}

// landing destino tras el login: la ruta pedida si es válida; si no, la
// pantalla inicial del rol.
func landing(u *entity.UserIdentity, requested string) string {
	if requested != "" {
		if p := guard.ReturnPath(requested); p != "/" {
			return p
		}
	}
	if u.Satisfies(entity.RoleEmployee) {
		return StaffLandingPath
	}
	return "/"
}

func displayName(u *entity.UserIdentity) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
