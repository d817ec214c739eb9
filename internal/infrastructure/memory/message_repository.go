package memory

import (
	"context"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepository)(nil)

// MessageRepository implementación en memoria de repository.MessageRepository.
type MessageRepository struct {
	h handle
}

func (r *MessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	return r.h.write(func(st *state) error {
		c := *msg
		st.messages = append(st.messages, &c)
		return nil
	})
}

// Thread devuelve los últimos limit mensajes de la conversación, en orden ascendente.
func (r *MessageRepository) Thread(ctx context.Context, userA, userB string, limit int) ([]*entity.Message, error) {
	var out []*entity.Message
	err := r.h.read(func(st *state) error {
		for _, m := range st.messages {
			if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
				c := *m
				out = append(out, &c)
			}
		}
		if limit > 0 && len(out) > limit {
			out = out[len(out)-limit:]
		}
		return nil
	})
	return out, err
}

func (r *MessageRepository) MarkRead(ctx context.Context, receiverID, senderID string) (int, error) {
	n := 0
	err := r.h.write(func(st *state) error {
		for i, m := range st.messages {
			if m.ReceiverID == receiverID && m.SenderID == senderID && !m.Read {
				c := *m
				c.Read = true
				st.messages[i] = &c
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *MessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		for _, m := range st.messages {
			if m.ReceiverID == receiverID && !m.Read {
				n++
			}
		}
		return nil
	})
	return n, err
}
