package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// RolePrefix prefijo con el que la API serializa los roles.
const RolePrefix = "ROLE_"

// Role conjunto cerrado de roles del storefront.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdministrator
	RoleEmployee
	RoleCustomer
)

// wireRoles tabla de nombres aceptados en la API (sin prefijo) por rol.
// El primero de cada lista es el nombre canónico que se envía.
var wireRoles = map[Role][]string{
	RoleAdministrator: {"ADMIN", "QUẢN TRỊ VIÊN", "ADMINISTRATOR"},
	RoleEmployee:      {"NHÂN VIÊN", "EMPLOYEE", "STAFF"},
	RoleCustomer:      {"KHÁCH HÀNG", "CUSTOMER"},
}

// roleByName índice nombre plegado -> rol.
var roleByName = buildRoleIndex()

func buildRoleIndex() map[string]Role {
	idx := make(map[string]Role)
	for role, names := range wireRoles {
		for _, n := range names {
			idx[FoldRoleName(n)] = role
		}
	}
	for _, r := range []Role{RoleAdministrator, RoleEmployee, RoleCustomer} {
		idx[FoldRoleName(r.String())] = r
	}
	return idx
}

// FoldRoleName normaliza un nombre de rol para compararlo: quita el prefijo
// ROLE_ (en cualquier capitalización), aplica NFC y case folding.
func FoldRoleName(name string) string {
	s := norm.NFC.String(strings.TrimSpace(name))
	if len(s) >= len(RolePrefix) && strings.EqualFold(s[:len(RolePrefix)], RolePrefix) {
		s = s[len(RolePrefix):]
	}
	// cases.Caser guarda estado: uno nuevo por llamada.
	return cases.Fold().String(strings.TrimSpace(s))
}

// StripRolePrefix quita el prefijo ROLE_ conservando el resto tal cual.
func StripRolePrefix(name string) string {
	s := strings.TrimSpace(name)
	if len(s) >= len(RolePrefix) && strings.EqualFold(s[:len(RolePrefix)], RolePrefix) {
		return s[len(RolePrefix):]
	}
	return s
}

// ParseRole traduce un rol de la API (con o sin prefijo) al enum.
func ParseRole(name string) Role {
	if r, ok := roleByName[FoldRoleName(name)]; ok {
		return r
	}
	return RoleUnknown
}

// Wire nombre canónico con prefijo, tal como lo espera la API.
func (r Role) Wire() string {
	names, ok := wireRoles[r]
	if !ok {
		return ""
	}
	return RolePrefix + names[0]
}

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleEmployee:
		return "employee"
	case RoleCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// Implies jerarquía: administrador ⊇ empleado. Customer solo se implica a sí mismo.
func (r Role) Implies(other Role) bool {
	if r == RoleUnknown || other == RoleUnknown {
		return false
	}
	if r == other {
		return true
	}
	return r == RoleAdministrator && other == RoleEmployee
}
