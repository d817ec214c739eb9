package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus estado de publicación de un cultivo.
type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
)

// Decimales admitidos, los mismos que guardan las columnas NUMERIC del esquema.
// Una venta puede llegar a QuantityScale+PriceScale decimales en su total.
const (
	QuantityScale int32 = 3
	PriceScale    int32 = 2
)

// FitsScale indica si d no tiene más de places decimales significativos.
func FitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}

// Valid indica si el estado es active o inactive.
func (s ListingStatus) Valid() bool {
	return s == ListingActive || s == ListingInactive
}

// Listing cultivo publicado por un agricultor.
// Invariante: Quantity >= 0. Pasa a inactive automáticamente cuando una compra lo deja en 0.
type Listing struct {
	ID          string
	FarmerID    string
	Name        string
	Category    string
	PlantedDate time.Time
	HarvestDate time.Time
	Quantity    decimal.Decimal
	Unit        string // kg, lb, unidades...
	UnitPrice   decimal.Decimal
	Status      ListingStatus
	ImageURL    string // opcional
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el cultivo puede comprarse.
func (l *Listing) IsActive() bool { return l.Status == ListingActive }

// Available indica si aparece en el marketplace (activo y con existencias).
func (l *Listing) Available() bool {
	return l.IsActive() && l.Quantity.GreaterThan(decimal.Zero)
}

// OwnedBy indica si el usuario es el agricultor dueño del cultivo.
func (l *Listing) OwnedBy(userID string) bool { return l.FarmerID == userID }

// ApplyPurchase descuenta q del inventario y desactiva el cultivo si se agota.
// El llamador ya validó 0 < q <= Quantity.
func (l *Listing) ApplyPurchase(q decimal.Decimal, now time.Time) {
	l.Quantity = l.Quantity.Sub(q)
	if l.Quantity.IsZero() {
		l.Status = ListingInactive
	}
	l.UpdatedAt = now
}
