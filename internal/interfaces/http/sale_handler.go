package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/usecase"
)

// SaleHandler historial de ventas y compras, y comprobante PDF.
type SaleHandler struct {
	uc     *usecase.SaleUseCase
	errors *ErrorMapper
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *usecase.SaleUseCase, errors *ErrorMapper) *SaleHandler {
	return &SaleHandler{uc: uc, errors: errors}
}

// SalesReport godoc
// @Summary      Reporte de ventas del agricultor
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.SalesReportResponse
// @Router       /api/sales [get]
func (h *SaleHandler) SalesReport(c *fiber.Ctx) error {
	out, err := h.uc.SalesReport(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// PurchaseHistory godoc
// @Summary      Historial de compras del comprador
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.PurchaseHistoryResponse
// @Router       /api/purchases [get]
func (h *SaleHandler) PurchaseHistory(c *fiber.Ctx) error {
	out, err := h.uc.PurchaseHistory(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
