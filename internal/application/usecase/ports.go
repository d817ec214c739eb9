package usecase

import (
	"context"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// ReceiptGenerator genera el comprobante PDF de una venta.
// farmer o buyer pueden ser nil si la cuenta ya fue eliminada.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, farmer, buyer *entity.User) ([]byte, error)
}

// SessionRevoker invalida las sesiones abiertas de un usuario.
type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID string) error
}
