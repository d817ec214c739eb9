package ws

import (
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	// Tiempo máximo para escribir un mensaje al peer.
	writeWait = 10 * time.Second

	// Tiempo máximo sin recibir pong.
	pongWait = 60 * time.Second

	// Debe ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	// El canal es solo de bajada; lo que mande el cliente se descarta.
	maxMessageSize = 512

	sendBuffer = 32
)

// Client una conexión WebSocket de un usuario autenticado.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// NewClient crea el cliente; conn puede ser nil en tests que solo usan el canal Send.
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		UserID: userID,
	}
}

// ReadPump mantiene viva la conexión (pongs) hasta que el peer la cierre.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug().Err(err).Str("user_id", c.UserID).Msg("ws cierre inesperado")
			}
			return
		}
	}
}

// WritePump vuelca Send al socket y envía pings periódicos.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// el hub cerró el canal
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
