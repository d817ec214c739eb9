package access

import (
	"strings"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// View vista del cliente web y su protección.
type View struct {
	Path      string
	Protected bool          // requiere sesión
	Roles     []entity.Role // vacío = cualquier usuario autenticado
}

// Views tabla de vistas conocidas por el gate.
var Views = []View{
	{Path: "/"},
	{Path: "/login"},
	{Path: "/signup"},
	{Path: "/farmer/dashboard", Protected: true, Roles: []entity.Role{entity.RoleFarmer}},
	{Path: "/farmer/crops", Protected: true, Roles: []entity.Role{entity.RoleFarmer}},
	{Path: "/farmer/crops/new", Protected: true, Roles: []entity.Role{entity.RoleFarmer}},
	{Path: "/farmer/sales", Protected: true, Roles: []entity.Role{entity.RoleFarmer}},
	{Path: "/buyer/dashboard", Protected: true, Roles: []entity.Role{entity.RoleBuyer}},
	{Path: "/buyer/purchases", Protected: true, Roles: []entity.Role{entity.RoleBuyer}},
	{Path: "/marketplace", Protected: true, Roles: []entity.Role{entity.RoleBuyer}},
	{Path: "/admin/dashboard", Protected: true, Roles: []entity.Role{entity.RoleAdmin}},
	{Path: "/messages", Protected: true},
}

// FindView busca una vista por path exacto (sin barra final).
func FindView(path string) (View, bool) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, v := range Views {
		if v.Path == path {
			return v, true
		}
	}
	return View{}, false
}

// AuthorizeView aplica el gate a una vista. Las vistas públicas se permiten siempre,
// incluso con la sesión todavía en Unknown. ok=false si la vista no existe.
func AuthorizeView(s Session, path string) (d Decision, ok bool) {
	v, ok := FindView(path)
	if !ok {
		return Decision{}, false
	}
	if !v.Protected {
		return Decision{Outcome: OutcomeAllow}, true
	}
	return Authorize(s, v.Roles...), true
}

// HomeFor tablero al que se envía a cada rol después del login.
func HomeFor(role entity.Role) string {
	switch role {
	case entity.RoleFarmer:
		return "/farmer/dashboard"
	case entity.RoleBuyer:
		return "/buyer/dashboard"
	case entity.RoleAdmin:
		return "/admin/dashboard"
	default:
		return HomePath
	}
}
