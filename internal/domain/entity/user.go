package entity

// UserIdentity identidad autenticada tal como la entrega la API en el login.
// Role es un campo derivado: el primer rol sin el prefijo ROLE_.
type UserIdentity struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
	Role     string   `json:"role"`
}

// NewUserIdentity construye la identidad y calcula el rol derivado.
func NewUserIdentity(id int64, username, email, fullName string, roles []string) *UserIdentity {
	u := &UserIdentity{
		ID:       id,
		Username: username,
		Email:    email,
		FullName: fullName,
		Roles:    append([]string(nil), roles...),
	}
	u.Normalize()
	return u
}

// Normalize recalcula Role a partir de Roles (tras deserializar datos persistidos o de la API).
func (u *UserIdentity) Normalize() {
	if len(u.Roles) == 0 {
		u.Role = ""
		return
	}
	u.Role = StripRolePrefix(u.Roles[0])
}

// Valid identidad mínima aceptable para considerar a alguien autenticado.
func (u *UserIdentity) Valid() bool {
	return u != nil && u.Username != "" && len(u.Roles) > 0
}

// HasRole comparación sin distinguir mayúsculas e ignorando el prefijo ROLE_.
// Acepta tanto nombres de la API ("ROLE_KHÁCH HÀNG") como del enum ("customer").
func (u *UserIdentity) HasRole(name string) bool {
	if u == nil || name == "" {
		return false
	}
	want := FoldRoleName(name)
	wantRole := ParseRole(name)
	for _, r := range u.Roles {
		if FoldRoleName(r) == want {
			return true
		}
		if wantRole != RoleUnknown && ParseRole(r) == wantRole {
			return true
		}
	}
	return false
}

// Is pertenencia exacta a un rol del enum (sin jerarquía).
func (u *UserIdentity) Is(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if ParseRole(r) == role {
			return true
		}
	}
	return false
}

// Satisfies pertenencia con jerarquía (administrador cubre empleado).
func (u *UserIdentity) Satisfies(role Role) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if ParseRole(r).Implies(role) {
			return true
		}
	}
	return false
}

// PrimaryRole rol del enum del primer rol declarado.
func (u *UserIdentity) PrimaryRole() Role {
	if u == nil || len(u.Roles) == 0 {
		return RoleUnknown
	}
	return ParseRole(u.Roles[0])
}
