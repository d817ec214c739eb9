package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale registro inmutable de una compra (append-only).
// UnitPrice y TotalPrice se capturan al momento de la compra; no referencian el precio vivo del cultivo.
type Sale struct {
	ID          string
	ListingID   string
	FarmerID    string
	BuyerID     string
	ListingName string // snapshot para historial y recibo
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal // Quantity × UnitPrice
	CreatedAt   time.Time
}

// InvolvesUser indica si el usuario es comprador o vendedor de la venta.
func (s *Sale) InvolvesUser(userID string) bool {
	return s.BuyerID == userID || s.FarmerID == userID
}
