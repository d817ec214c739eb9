package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/messaging"
)

// MessageHandler mensajes directos.
type MessageHandler struct {
	uc     *messaging.UseCase
	errors *ErrorMapper
}

// NewMessageHandler construye el handler.
func NewMessageHandler(uc *messaging.UseCase, errors *ErrorMapper) *MessageHandler {
	return &MessageHandler{uc: uc, errors: errors}
}

// Send godoc
// @Summary      Enviar mensaje
// @Tags         messages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendMessageRequest  true  "destinatario, cultivo opcional y texto"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Send(c.UserContext(), GetSession(c), in)
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Thread godoc
// @Summary      Conversación con otro usuario
// @Description  Marca como leídos los mensajes recibidos.
// @Tags         messages
// @Security     Bearer
// @Produce      json
// @Param        userId  path   string  true   "ID del otro usuario"
// @Param        limit   query  int     false  "últimos N mensajes"
// @Success      200  {object}  dto.ThreadResponse
// @Router       /api/messages/with/{userId} [get]
func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	out, err := h.uc.Thread(c.UserContext(), GetSession(c), c.Params("userId"), c.QueryInt("limit", 0))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}

// Unread godoc
// @Summary      Mensajes sin leer
// @Tags         messages
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadResponse
// @Router       /api/messages/unread [get]
func (h *MessageHandler) Unread(c *fiber.Ctx) error {
	out, err := h.uc.Unread(c.UserContext(), GetSession(c))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	return c.JSON(out)
}
