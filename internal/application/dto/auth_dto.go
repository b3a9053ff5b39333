package dto

import "github.com/jhoicas/petshop-storefront/internal/domain/entity"

// LoginRequest credenciales del formulario de login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginData contenido de data en la respuesta de login de la API.
type LoginData struct {
	Token    string   `json:"token"`
	Type     string   `json:"type,omitempty"`
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// Identity construye la identidad del usuario (con rol derivado).
func (d LoginData) Identity() *entity.UserIdentity {
	return entity.NewUserIdentity(d.ID, d.Username, d.Email, d.FullName, d.Roles)
}

// RegisterRequest datos del formulario de registro.
type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty" form:"confirmPassword"`
	FullName        string `json:"fullName" form:"fullName"`
	Phone           string `json:"phone,omitempty" form:"phone"`
}

// LoginResponse respuesta del storefront tras un login correcto.
type LoginResponse struct {
	User     *entity.UserIdentity `json:"user"`
	Redirect string               `json:"redirect"`
}

// UserSummary fila del listado de usuarios (administración).
type UserSummary struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
	Active   bool     `json:"active"`
}
