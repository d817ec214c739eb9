package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/ws"
)

// WSHandler canal de notificaciones en tiempo real.
type WSHandler struct {
	hub      *ws.Hub
	resolver SessionResolver
	errors   *ErrorMapper
}

// NewWSHandler construye el handler.
func NewWSHandler(hub *ws.Hub, resolver SessionResolver, errors *ErrorMapper) *WSHandler {
	return &WSHandler{hub: hub, resolver: resolver, errors: errors}
}

// Upgrade exige un upgrade WebSocket y una sesión válida en ?access_token=
// (los navegadores no permiten cabeceras en el handshake).
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	resolved, err := h.resolver.ResolveSession(c.UserContext(), c.Query("access_token"))
	if err != nil {
		return h.errors.Respond(c, err)
	}
	if !resolved.Session.IsAuthenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "LOGIN_REQUIRED", Message: "debes iniciar sesión"})
	}
	c.Locals("ws_user_id", resolved.Session.UserID)
	return c.Next()
}

// Connect godoc
// @Summary      Notificaciones en tiempo real (WebSocket)
// @Description  Empuja {"type":"message","message":{...}} cada vez que el usuario recibe un mensaje.
// @Tags         messages
// @Param        access_token  query  string  true  "JWT de la sesión"
// @Success      101
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      426  {object}  dto.ErrorResponse
// @Router       /ws [get]
func (h *WSHandler) Connect() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(string)
		client := ws.NewClient(h.hub, conn, userID)
		if !h.hub.Register(client) {
			// el servidor se está apagando
			_ = conn.Close()
			return
		}
		go client.WritePump()
		client.ReadPump()
	})
}
