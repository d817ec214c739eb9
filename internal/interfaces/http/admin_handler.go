package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/usecase"
)

// AdminHandler administración de usuarios y de todos los cultivos.
type AdminHandler struct {
	users    *usecase.UserUseCase
	listings *usecase.ListingUseCase
	errors   *ErrorMapper
}

// NewAdminHandler construye el handler.
func NewAdminHandler(users *usecase.UserUseCase, listings *usecase.ListingUseCase, errors *ErrorMapper) *AdminHandler {
	return &AdminHandler{users: users, listings: listings, errors: errors}
}

// ListUsers godoc
// @Summary      Listar usuarios
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.users.List(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// DeleteUser godoc
// @Summary      Eliminar usuario
// @Description  Revoca sus sesiones y desactiva sus cultivos. Los administradores no se pueden eliminar.
// @Tags         admin
// @Security     Bearer
// @Param        id   path  string  true  "ID del usuario"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return h.errors.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListListings godoc
// @Summary      Listar todos los cultivos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ListingListResponse
// @Router       /api/admin/listings [get]
func (h *AdminHandler) ListListings(c *fiber.Ctx) error {
	out, err := h.listings.ListAll(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}
