// Package messaging mensajes directos entre usuarios del marketplace.
package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

const (
	// MaxBodyLen longitud máxima de un mensaje en caracteres.
	MaxBodyLen         = 2000
	defaultThreadLimit = 200
)

// Notifier entrega en tiempo real un mensaje nuevo a las conexiones abiertas de un usuario.
// La entrega es best-effort: el mensaje ya quedó persistido.
type Notifier interface {
	NotifyMessage(userID string, msg dto.MessageResponse)
}

// UseCase envío y lectura de conversaciones.
type UseCase struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	notifier    Notifier
	log         *logger.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso. notifier puede ser nil (sin push en tiempo real).
func NewUseCase(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	notifier Notifier,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// Send persiste un mensaje de la sesión hacia in.ReceiverID y lo notifica al receptor.
func (uc *UseCase) Send(ctx context.Context, s access.Session, in dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: el mensaje está vacío", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > MaxBodyLen {
		return nil, fmt.Errorf("%w: el mensaje supera %d caracteres", domain.ErrInvalidInput, MaxBodyLen)
	}
	if in.ReceiverID == "" || in.ReceiverID == s.UserID {
		return nil, fmt.Errorf("%w: destinatario inválido", domain.ErrInvalidInput)
	}
	receiver, err := uc.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.ListingID != "" {
		listing, err := uc.listingRepo.GetByID(ctx, in.ListingID)
		if err != nil {
			return nil, err
		}
		if listing == nil {
			return nil, domain.ErrNotFound
		}
	}

	msg := &entity.Message{
		ID:         uuid.New().String(),
		SenderID:   s.UserID,
		ReceiverID: receiver.ID,
		ListingID:  in.ListingID,
		Body:       body,
		CreatedAt:  uc.now(),
	}
	if err := uc.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	out := toMessageResponse(msg)
	if uc.notifier != nil {
		uc.notifier.NotifyMessage(receiver.ID, *out)
	}
	return out, nil
}

// Thread conversación entre la sesión y otherID en orden cronológico.
// Marca como leídos los mensajes recibidos de otherID.
func (uc *UseCase) Thread(ctx context.Context, s access.Session, otherID string, limit int) (*dto.ThreadResponse, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	if otherID == "" || otherID == s.UserID {
		return nil, fmt.Errorf("%w: conversación inválida", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > defaultThreadLimit {
		limit = defaultThreadLimit
	}
	msgs, err := uc.messageRepo.Thread(ctx, s.UserID, otherID, limit)
	if err != nil {
		return nil, err
	}
	marked, err := uc.messageRepo.MarkRead(ctx, s.UserID, otherID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		r := toMessageResponse(m)
		if m.ReceiverID == s.UserID {
			r.Read = true
		}
		items = append(items, *r)
	}
	if marked > 0 {
		uc.log.Debug().Str("user_id", s.UserID).Str("with", otherID).Int("marked", marked).Msg("mensajes marcados como leídos")
	}
	return &dto.ThreadResponse{WithUserID: otherID, Messages: items, MarkedRead: marked}, nil
}

// Unread cantidad de mensajes sin leer de la sesión.
func (uc *UseCase) Unread(ctx context.Context, s access.Session) (*dto.UnreadResponse, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	n, err := uc.messageRepo.CountUnread(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadResponse{Unread: n}, nil
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ListingID:  m.ListingID,
		Body:       m.Body,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}
