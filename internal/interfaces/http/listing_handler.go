package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// ListingHandler cultivos publicados: CRUD del agricultor, marketplace y compra.
type ListingHandler struct {
	uc       *usecase.ListingUseCase
	purchase *marketplace.PurchaseUseCase
	errors   *ErrorMapper
}

// NewListingHandler construye el handler.
func NewListingHandler(uc *usecase.ListingUseCase, purchase *marketplace.PurchaseUseCase, errors *ErrorMapper) *ListingHandler {
	return &ListingHandler{uc: uc, purchase: purchase, errors: errors}
}

// Create godoc
// @Summary      Publicar cultivo
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateListingRequest  true  "Datos del cultivo"
// @Success      201   {object}  dto.ListingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateListingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetSession(c), in)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine godoc
// @Summary      Mis cultivos
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ListingListResponse
// @Router       /api/listings/mine [get]
func (h *ListingHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetSession(c), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Marketplace godoc
// @Summary      Cultivos disponibles para comprar
// @Tags         marketplace
// @Security     Bearer
// @Produce      json
// @Param        category  query  string  false  "filtrar por categoría"
// @Param        limit     query  int     false  "máximo 100"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ListingListResponse
// @Router       /api/marketplace [get]
func (h *ListingHandler) Marketplace(c *fiber.Ctx) error {
	out, err := h.uc.Marketplace(c.UserContext(), GetSession(c), c.Query("category"), pageFromQuery(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cultivo por ID
// @Tags         listings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cultivo"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetSession(c), c.Params("id"))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cultivo (parcial)
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del cultivo"
// @Param        body  body  dto.UpdateListingRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ListingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [patch]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateListingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetSession(c), c.Params("id"), in)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Activar o desactivar cultivo
// @Tags         listings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del cultivo"
// @Param        body  body  dto.SetListingStatusRequest  true  "active | inactive"
// @Success      200   {object}  dto.ListingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/status [put]
func (h *ListingHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetListingStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetStatus(c.UserContext(), GetSession(c), c.Params("id"), entity.ListingStatus(in.Status))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cultivo
// @Tags         listings
// @Security     Bearer
// @Param        id   path  string  true  "ID del cultivo"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetSession(c), c.Params("id")); err != nil {
		return h.errors.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Purchase godoc
// @Summary      Comprar un cultivo
// @Description  Descuenta la cantidad y registra la venta en una sola transacción. Si otro comprador se llevó el stock responde 409 con la cantidad disponible.
// @Tags         marketplace
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del cultivo"
// @Param        body  body  dto.PurchaseRequest  true  "cantidad"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/purchase [post]
func (h *ListingHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sale, err := h.purchase.Purchase(c.UserContext(), GetUserID(c), c.Params("id"), in.Quantity)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// Categories godoc
// @Summary      Catálogo de tipos de cultivo
// @Tags         marketplace
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	return c.JSON(h.uc.Categories())
}
