package entity

import (
	"fmt"
	"strings"
)

// Role rol de un usuario. Se asigna en el registro y no cambia en el flujo normal.
type Role string

// Roles válidos para User.
const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// ParseRole normaliza el rol ("Admin", " FARMER ") a su valor canónico.
// Un rol desconocido es un error: nunca se degrada a un rol por defecto.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido: %q", s)
	}
	return r, nil
}

// Valid indica si el rol es uno de los tres soportados.
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable indica si el rol puede elegirse en el registro público.
// Los administradores se provisionan fuera de banda (cmd/provision_admin).
func (r Role) SelfAssignable() bool {
	return r == RoleFarmer || r == RoleBuyer
}

func (r Role) String() string { return string(r) }
