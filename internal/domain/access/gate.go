// Package access decide si una vista o endpoint puede atenderse según el estado de la sesión
// y el rol del solicitante. Es lógica pura: no muta la sesión ni hace I/O.
package access

import (
	"slices"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// Rutas de redirección del gate.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// SessionStatus estado de la verificación de sesión.
type SessionStatus int

const (
	// SessionUnknown la verificación sigue en curso.
	SessionUnknown SessionStatus = iota
	SessionUnauthenticated
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionUnauthenticated:
		return "unauthenticated"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session estado de sesión explícito que se pasa a cada componente que lo necesita.
type Session struct {
	Status SessionStatus
	UserID string
	Role   entity.Role
}

// Unknown sesión cuya verificación no ha terminado.
func Unknown() Session { return Session{Status: SessionUnknown} }

// Unauthenticated sesión sin usuario.
func Unauthenticated() Session { return Session{Status: SessionUnauthenticated} }

// Authenticated sesión válida de un usuario con su rol.
func Authenticated(userID string, role entity.Role) Session {
	return Session{Status: SessionAuthenticated, UserID: userID, Role: role}
}

// IsAuthenticated atajo para Status == SessionAuthenticated.
func (s Session) IsAuthenticated() bool { return s.Status == SessionAuthenticated }

// Outcome resultado del gate.
type Outcome int

const (
	// OutcomeWait no hay decisión todavía: mostrar un estado neutro de carga.
	OutcomeWait Outcome = iota
	OutcomeAllow
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllow:
		return "allow"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Decision resultado de Authorize. RedirectTo solo se usa con OutcomeRedirect.
type Decision struct {
	Outcome    Outcome
	RedirectTo string
}

// Allowed atajo para Outcome == OutcomeAllow.
func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }

// Authorize decide si la sesión puede acceder a un recurso que exige alguno de requiredRoles.
// Sin requiredRoles basta con estar autenticado.
//
//   - Unknown          → Wait (sin redirección hasta que la sesión se resuelva)
//   - Unauthenticated  → RedirectTo(/login)
//   - rol no permitido → RedirectTo(/)
//   - en otro caso     → Allow
func Authorize(s Session, requiredRoles ...entity.Role) Decision {
	switch s.Status {
	case SessionAuthenticated:
	case SessionUnauthenticated:
		return Decision{Outcome: OutcomeRedirect, RedirectTo: LoginPath}
	default:
		return Decision{Outcome: OutcomeWait}
	}
	if len(requiredRoles) > 0 && !slices.Contains(requiredRoles, s.Role) {
		return Decision{Outcome: OutcomeRedirect, RedirectTo: HomePath}
	}
	return Decision{Outcome: OutcomeAllow}
}

// Require aplica Authorize y traduce la decisión a un error de dominio para los casos de uso:
// redirección a login o espera → ErrUnauthorized; rol no permitido → ErrForbidden.
func Require(s Session, requiredRoles ...entity.Role) error {
	d := Authorize(s, requiredRoles...)
	switch {
	case d.Allowed():
		return nil
	case d.Outcome == OutcomeRedirect && d.RedirectTo == HomePath:
		return domain.ErrForbidden
	default:
		return domain.ErrUnauthorized
	}
}
