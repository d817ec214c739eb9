package postgres

import (
	"context"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo implementación de MessageRepository sobre PostgreSQL.
type MessageRepo struct {
	q Querier
}

// NewMessageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMessageRepository(q Querier) *MessageRepo {
	return &MessageRepo{q: q}
}

// Create inserta un mensaje.
func (r *MessageRepo) Create(ctx context.Context, m *entity.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, listing_id, body, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.SenderID, m.ReceiverID, nullIfEmpty(m.ListingID), m.Body, m.Read, m.CreatedAt)
	if err != nil {
		return wrapErr("insert message", err)
	}
	return nil
}

// Thread últimos limit mensajes entre dos usuarios, en orden cronológico.
func (r *MessageRepo) Thread(ctx context.Context, userA, userB string, limit int) ([]*entity.Message, error) {
	if !validID(userA) || !validID(userB) {
		return nil, nil
	}
	query := `
		SELECT id, sender_id, receiver_id, listing_id, body, read, created_at FROM (
			SELECT id, sender_id, receiver_id, listing_id, body, read, created_at
			FROM messages
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) t ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, userA, userB, limitOrAll(limit))
	if err != nil {
		return nil, wrapErr("message thread", err)
	}
	defer rows.Close()
	var list []*entity.Message
	for rows.Next() {
		var (
			m         entity.Message
			listingID *string
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &listingID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, wrapErr("scan message", err)
		}
		m.ListingID = derefString(listingID)
		list = append(list, &m)
	}
	return list, wrapRowsErr("message thread", rows.Err())
}

// MarkRead marca como leídos los mensajes de senderID a receiverID.
func (r *MessageRepo) MarkRead(ctx context.Context, receiverID, senderID string) (int, error) {
	if !validID(receiverID) || !validID(senderID) {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE messages SET read = true WHERE receiver_id = $1 AND sender_id = $2 AND NOT read`,
		receiverID, senderID)
	if err != nil {
		return 0, wrapErr("mark messages read", err)
	}
	return int(tag.RowsAffected()), nil
}

// CountUnread mensajes sin leer del usuario.
func (r *MessageRepo) CountUnread(ctx context.Context, receiverID string) (int, error) {
	if !validID(receiverID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM messages WHERE receiver_id = $1 AND NOT read`, receiverID).Scan(&n); err != nil {
		return 0, wrapErr("count unread messages", err)
	}
	return n, nil
}
