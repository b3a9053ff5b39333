// Package guard decide si un visitante puede ver una pantalla protegida.
package guard

import (
	"net/url"
	"strings"

	"github.com/jhoicas/petshop-storefront/internal/domain/entity"
)

// Rutas a las que redirige el guard.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	// RedirectParam parámetro de query con la ruta que se intentó abrir.
	RedirectParam = "redirect"
)

type kind int

const (
	kindAuthenticated kind = iota
	kindAdmin
	kindEmployeeOrAdmin
	kindRole
)

// Requirement requisito de acceso de una ruta.
type Requirement struct {
	kind kind
	role entity.Role
}

// Authenticated basta con tener sesión.
func Authenticated() Requirement { return Requirement{kind: kindAuthenticated} }

// Admin solo administradores.
func Admin() Requirement { return Requirement{kind: kindAdmin} }

// EmployeeOrAdmin empleados o administradores.
func EmployeeOrAdmin() Requirement { return Requirement{kind: kindEmployeeOrAdmin} }

// Role coincidencia exacta con el rol indicado (sin jerarquía).
func Role(r entity.Role) Requirement { return Requirement{kind: kindRole, role: r} }

func (r Requirement) String() string {
	switch r.kind {
	case kindAdmin:
		return "admin"
	case kindEmployeeOrAdmin:
		return "employee_or_admin"
	case kindRole:
		return "role:" + r.role.String()
	default:
		return "authenticated"
	}
}

// Satisfied evalúa el requisito contra una identidad.
func (r Requirement) Satisfied(u *entity.UserIdentity) bool {
	if u == nil {
		return false
	}
	switch r.kind {
	case kindAdmin:
		return u.Satisfies(entity.RoleAdministrator)
	case kindEmployeeOrAdmin:
		return u.Satisfies(entity.RoleEmployee)
	case kindRole:
		return r.role != entity.RoleUnknown && u.Is(r.role)
	default:
		return true
	}
}

// Outcome resultado de la decisión.
type Outcome string

const (
	Render               Outcome = "render"
	RedirectLogin        Outcome = "redirect_login"
	RedirectUnauthorized Outcome = "redirect_unauthorized"
	// Wait la sesión aún se está restaurando: ni mostrar ni redirigir.
	Wait Outcome = "wait"
)

// Decision resultado y, para las redirecciones, el destino.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide aplica el requisito a la sesión. path es la ruta solicitada, que viaja
// al login para volver a ella después de autenticarse.
func Decide(s entity.Session, req Requirement, path string) Decision {
	switch {
	case s.IsLoading:
		return Decision{Outcome: Wait}
	case !s.IsAuthenticated:
		return Decision{Outcome: RedirectLogin, Location: LoginLocation(path)}
	case !req.Satisfied(s.User):
		return Decision{Outcome: RedirectUnauthorized, Location: UnauthorizedPath}
	}
	return Decision{Outcome: Render}
}

// LoginLocation URL del login con la ruta de retorno.
func LoginLocation(path string) string {
	p := ReturnPath(path)
	if p == "/" {
		return LoginPath
	}
	return LoginPath + "?" + RedirectParam + "=" + url.QueryEscape(p)
}

// ReturnPath sanea una ruta de retorno: solo rutas locales, nunca de vuelta al
// login ni a otro host. Cualquier otra cosa vuelve a "/".
func ReturnPath(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, `\`) {
		return "/"
	}
	u, err := url.Parse(p)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	if u.Path == LoginPath || strings.HasPrefix(u.Path, LoginPath+"/") {
		return "/"
	}
	return p
}
