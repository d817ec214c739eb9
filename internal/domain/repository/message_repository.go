package repository

import (
	"context"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// MessageRepository puerto de persistencia para mensajes (append-only salvo el flag de leído).
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	// Thread devuelve la conversación entre dos usuarios en orden de creación ascendente.
	Thread(ctx context.Context, userA, userB string, limit int) ([]*entity.Message, error)
	// MarkRead marca como leídos los mensajes de senderID hacia receiverID. Devuelve cuántos cambió.
	MarkRead(ctx context.Context, receiverID, senderID string) (int, error)
	CountUnread(ctx context.Context, receiverID string) (int, error)
}
