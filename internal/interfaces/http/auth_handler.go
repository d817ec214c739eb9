package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/auth"
	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
)

// AuthHandler maneja registro, login, logout y consulta de sesión.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	errors *ErrorMapper
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, errors *ErrorMapper) *AuthHandler {
	return &AuthHandler{uc: uc, errors: errors}
}

// SignUp godoc
// @Summary      Registrar agricultor o comprador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignUpRequest  true  "email, password, name, role (farmer|buyer)"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in dto.SignUpRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.SignUp(c.UserContext(), in)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SignIn(c.UserContext(), in)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el token actual)
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenID, exp := tokenInfo(c)
	if err := h.uc.SignOut(c.UserContext(), tokenID, exp); err != nil {
		return h.errors.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.uc.Me(c.UserContext(), GetUserID(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(user)
}

// Session godoc
// @Summary      Estado de la sesión
// @Description  Nunca falla por falta de sesión: devuelve status=unauthenticated. Si el almacén de revocación no responde devuelve 401 SESSION_CHECK_FAILED.
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	if sessionCheckFailed(c) {
		return respondSessionCheckFailed(c)
	}
	s := GetSession(c)
	out := dto.SessionResponse{Status: s.Status.String(), Home: access.HomePath}
	if s.IsAuthenticated() {
		out.UserID = s.UserID
		out.Role = string(s.Role)
		out.Home = access.HomeFor(s.Role)
	}
	return c.JSON(out)
}

// View godoc
// @Summary      Decisión del gate para una vista del cliente
// @Tags         session
// @Produce      json
// @Param        path  query  string  true  "ruta de la vista, ej. /farmer/dashboard"
// @Success      200   {object}  dto.ViewDecisionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/session/views [get]
func (h *AuthHandler) View(c *fiber.Ctx) error {
	if sessionCheckFailed(c) {
		return respondSessionCheckFailed(c)
	}
	path := c.Query("path")
	d, ok := access.AuthorizeView(GetSession(c), path)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_VIEW", Message: "vista desconocida"})
	}
	return c.JSON(dto.ViewDecisionResponse{Path: path, Decision: d.Outcome.String(), RedirectTo: d.RedirectTo})
}

// sessionCheckFailed indica que AuthMiddleware no pudo verificar la sesión (store caído).
func sessionCheckFailed(c *fiber.Ctx) bool {
	err, ok := c.Locals(LocalSessionErr).(error)
	return ok && err != nil
}

func respondSessionCheckFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:       "SESSION_CHECK_FAILED",
		Message:    "no se pudo verificar la sesión, intenta de nuevo",
		RedirectTo: access.LoginPath,
		Retryable:  true,
	})
}
