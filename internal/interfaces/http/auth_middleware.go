package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// Locals keys de la sesión en Fiber.
const (
	LocalSession    = "session"
	LocalSessionErr = "session_err"
	LocalTokenID    = "token_id"
	LocalTokenExp   = "token_exp"
)

// SessionResolver resuelve el token de la petición en una sesión explícita.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (auth.ResolvedSession, error)
}

// AuthMiddleware resuelve la sesión de cada petición y la deja en c.Locals.
// Nunca rechaza: las rutas protegidas aplican RequireRole después.
func AuthMiddleware(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		resolved, err := resolver.ResolveSession(c.UserContext(), token)
		c.Locals(LocalSession, resolved.Session)
		if err != nil {
			c.Locals(LocalSessionErr, err)
		}
		if resolved.TokenID != "" {
			c.Locals(LocalTokenID, resolved.TokenID)
			c.Locals(LocalTokenExp, resolved.ExpiresAt)
		}
		return c.Next()
	}
}

// RequireRole aplica el gate de acceso. Sin roles basta con estar autenticado.
//
//	redirección a /login → 401 LOGIN_REQUIRED
//	redirección a /      → 403 FORBIDDEN
//	verificación fallida → 401 SESSION_CHECK_FAILED (retryable)
//	sesión sin resolver  → 503 SESSION_PENDING
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionCheckFailed(c) {
			return respondSessionCheckFailed(c)
		}
		d := access.Authorize(GetSession(c), roles...)
		switch {
		case d.Allowed():
			return c.Next()
		case d.Outcome == access.OutcomeWait:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "SESSION_PENDING", Message: "la sesión aún se está verificando", Retryable: true,
			})
		case d.RedirectTo == access.LoginPath:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code: "LOGIN_REQUIRED", Message: "debes iniciar sesión", RedirectTo: d.RedirectTo,
			})
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Message: "no tienes permiso para este recurso", RedirectTo: d.RedirectTo,
			})
		}
	}
}

// GetSession devuelve la sesión resuelta por AuthMiddleware; Unknown si el middleware no corrió.
func GetSession(c *fiber.Ctx) access.Session {
	s, ok := c.Locals(LocalSession).(access.Session)
	if !ok {
		return access.Unknown()
	}
	return s
}

// GetUserID devuelve el UserID de la sesión (vacío si no hay sesión).
func GetUserID(c *fiber.Ctx) string {
	return GetSession(c).UserID
}

// GetRole devuelve el rol de la sesión.
func GetRole(c *fiber.Ctx) string {
	return string(GetSession(c).Role)
}

func tokenInfo(c *fiber.Ctx) (string, time.Time) {
	id, _ := c.Locals(LocalTokenID).(string)
	exp, _ := c.Locals(LocalTokenExp).(time.Time)
	return id, exp
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
