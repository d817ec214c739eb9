package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	apphttp "github.com/jhoicas/farmlink-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-000000000001"

// stubResolver devuelve siempre la misma sesión; el token se ignora.
type stubResolver struct {
	session access.Session
	err     error
}

func (r stubResolver) ResolveSession(context.Context, string) (auth.ResolvedSession, error) {
	return auth.ResolvedSession{Session: r.session, TokenID: "jti-1"}, r.err
}

// buildGateApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para resolver la sesión
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildGateApp(resolver apphttp.SessionResolver, allowedRoles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(resolver),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c), "user_id": apphttp.GetUserID(c)})
		},
	)
	return app
}

func getProtected(t *testing.T, app *fiber.App) (*http.Response, dto.ErrorResponse) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	if resp.StatusCode != http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitidoPasa(t *testing.T) {
	app := buildGateApp(stubResolver{session: access.Authenticated(testUserID, entity.RoleAdmin)}, entity.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, testUserID, body["user_id"])
}

func TestRequireRole_MultiRol(t *testing.T) {
	app := buildGateApp(stubResolver{session: access.Authenticated(testUserID, entity.RoleFarmer)}, entity.RoleFarmer, entity.RoleAdmin)
	resp, _ := getProtected(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_SinRolesBastaEstarAutenticado(t *testing.T) {
	app := buildGateApp(stubResolver{session: access.Authenticated(testUserID, entity.RoleBuyer)})
	resp, _ := getProtected(t, app)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoPermitidoRedirigeAlInicio(t *testing.T) {
	app := buildGateApp(stubResolver{session: access.Authenticated(testUserID, entity.RoleBuyer)}, entity.RoleFarmer)
	resp, body := getProtected(t, app)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "/", body.RedirectTo)
}

func TestRequireRole_SinSesionRedirigeALogin(t *testing.T) {
	app := buildGateApp(stubResolver{session: access.Unauthenticated()}, entity.RoleFarmer)
	resp, body := getProtected(t, app)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "LOGIN_REQUIRED", body.Code)
	assert.Equal(t, "/login", body.RedirectTo)
}

func TestRequireRole_FalloDelStoreFallaCerrado(t *testing.T) {
	resolver := stubResolver{
		session: access.Unauthenticated(),
		err:     domain.Transient("check token revocation", errors.New("connection refused")),
	}
	app := buildGateApp(resolver)
	resp, body := getProtected(t, app)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SESSION_CHECK_FAILED", body.Code)
	assert.True(t, body.Retryable)
}

func TestRequireRole_SesionSinResolverEspera(t *testing.T) {
	// sin AuthMiddleware la sesión queda en Unknown
	app := fiber.New()
	app.Get("/protected", apphttp.RequireRole(entity.RoleFarmer), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, body := getProtected(t, app)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "SESSION_PENDING", body.Code)
	assert.Empty(t, body.RedirectTo, "mientras espera no se redirige")
}
