package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/analytics"
)

// DashboardHandler tableros por rol.
type DashboardHandler struct {
	uc     *analytics.DashboardUseCase
	errors *ErrorMapper
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, errors *ErrorMapper) *DashboardHandler {
	return &DashboardHandler{uc: uc, errors: errors}
}

// Farmer godoc
// @Summary      Tablero del agricultor
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FarmerDashboardDTO
// @Router       /api/dashboard/farmer [get]
func (h *DashboardHandler) Farmer(c *fiber.Ctx) error {
	out, err := h.uc.Farmer(c.UserContext(), GetSession(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Buyer godoc
// @Summary      Tablero del comprador
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BuyerDashboardDTO
// @Router       /api/dashboard/buyer [get]
func (h *DashboardHandler) Buyer(c *fiber.Ctx) error {
	out, err := h.uc.Buyer(c.UserContext(), GetSession(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Admin godoc
// @Summary      Tablero del administrador
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AdminDashboardDTO
// @Router       /api/dashboard/admin [get]
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	out, err := h.uc.Admin(c.UserContext(), GetSession(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}
