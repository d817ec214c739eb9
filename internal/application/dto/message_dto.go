package dto

import "time"

// SendMessageRequest entrada para enviar un mensaje.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
	ListingID  string `json:"listing_id" validate:"omitempty,uuid"`
	Body       string `json:"body" validate:"required,max=2000"`
}

// MessageResponse salida de un mensaje.
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	ListingID  string    `json:"listing_id,omitempty"`
	Body       string    `json:"body"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// ThreadResponse conversación entre el usuario actual y otro usuario.
type ThreadResponse struct {
	WithUserID string            `json:"with_user_id"`
	Messages   []MessageResponse `json:"messages"`
	MarkedRead int               `json:"marked_read"`
}

// UnreadResponse cantidad de mensajes sin leer.
type UnreadResponse struct {
	Unread int `json:"unread"`
}
