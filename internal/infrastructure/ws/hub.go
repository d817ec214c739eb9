// Package ws entrega en tiempo real los mensajes directos a las conexiones WebSocket abiertas.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/messaging"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

var _ messaging.Notifier = (*Hub)(nil)

// Event sobre que viaja por el socket.
type Event struct {
	Type    string               `json:"type"` // "message"
	Message *dto.MessageResponse `json:"message,omitempty"`
}

// Hub mantiene las conexiones activas agrupadas por usuario.
// Un usuario puede tener varias pestañas abiertas; cada una es un Client.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	// done se cierra cuando Run termina; desde entonces Register y Unregister no bloquean.
	done chan struct{}

	userClients map[string]map[*Client]struct{}
	mutex       sync.Mutex
	log         *logger.Logger
}

// NewHub crea el hub. Hay que arrancar Run en una goroutine.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		userClients: make(map[string]map[*Client]struct{}),
		log:         log,
	}
}

// Run procesa altas y bajas hasta que ctx se cancele; al salir cierra todas las conexiones.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register da de alta el cliente. Devuelve false si el hub ya se detuvo:
// el llamador debe cerrar la conexión.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister da de baja el cliente. Tras la parada del hub no hace nada: closeAll ya cerró Send.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done se cierra cuando el hub deja de atender altas y bajas.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) add(client *Client) {
	h.mutex.Lock()
	conns, ok := h.userClients[client.UserID]
	if !ok {
		conns = make(map[*Client]struct{})
		h.userClients[client.UserID] = conns
	}
	conns[client] = struct{}{}
	count := len(conns)
	h.mutex.Unlock()

	h.log.Debug().Str("user_id", client.UserID).Int("conexiones", count).Msg("ws conectado")
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.dropLocked(client)
}

// dropLocked quita el cliente y cierra su canal; requiere h.mutex tomado.
// Solo cierra Send si el cliente seguía registrado, así nunca se cierra dos veces.
func (h *Hub) dropLocked(client *Client) {
	conns, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.userClients, client.UserID)
		h.log.Debug().Str("user_id", client.UserID).Msg("ws desconectado (offline)")
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, conns := range h.userClients {
		for client := range conns {
			close(client.Send)
		}
	}
	h.userClients = make(map[string]map[*Client]struct{})
}

// SendToUser encola payload en todas las conexiones del usuario.
// Un cliente con el buffer lleno se considera colgado y se desconecta.
func (h *Hub) SendToUser(userID string, payload []byte) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for client := range h.userClients[userID] {
		select {
		case client.Send <- payload:
			sent++
		default:
			h.log.Warn().Str("user_id", userID).Msg("ws buffer lleno, se cierra la conexión")
			h.dropLocked(client)
		}
	}
	return sent
}

// NotifyMessage implementa messaging.Notifier.
func (h *Hub) NotifyMessage(userID string, msg dto.MessageResponse) {
	payload, err := json.Marshal(Event{Type: "message", Message: &msg})
	if err != nil {
		h.log.Error().Err(err).Msg("ws: no se pudo serializar el mensaje")
		return
	}
	h.SendToUser(userID, payload)
}

// IsUserOnline indica si el usuario tiene alguna conexión abierta.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.userClients[userID]) > 0
}
