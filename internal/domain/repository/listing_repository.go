package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// ListingFilter filtros para listados de cultivos.
type ListingFilter struct {
	FarmerID      string
	Category      string
	OnlyAvailable bool // status = active y quantity > 0
	Limit         int // 0 = sin límite
	Offset        int
}

// ListingPatch edición parcial de un cultivo: solo se escriben los campos no nil.
// El estado no se edita por aquí (UpdateStatus y DecrementStock) y la cantidad solo si se envía,
// así una edición de precio o nombre nunca pisa el stock descontado por una compra concurrente.
type ListingPatch struct {
	Name        *string
	Category    *string
	PlantedDate *time.Time
	HarvestDate *time.Time
	Quantity    *decimal.Decimal
	Unit        *string
	UnitPrice   *decimal.Decimal
	ImageURL    *string
	UpdatedAt   time.Time
}

// ListingRepository define el puerto de persistencia para Listing (usable con pool o tx).
// GetByID devuelve (nil, nil) si no existe.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Listing, error)
	// Update aplica patch en una sola escritura y devuelve el cultivo resultante.
	// domain.ErrNotFound si no existe.
	Update(ctx context.Context, id string, patch ListingPatch) (*entity.Listing, error)
	UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error
	// DecrementStock resta q solo si el cultivo está activo y quantity >= q, en una sola
	// sentencia condicional. Si se agota, lo marca inactive. ok=false si la condición no se cumplió.
	DecrementStock(ctx context.Context, id string, q decimal.Decimal) (updated *entity.Listing, ok bool, err error)
	List(ctx context.Context, filter ListingFilter) ([]*entity.Listing, error)
	// Count aplica los mismos filtros que List ignorando Limit y Offset.
	Count(ctx context.Context, filter ListingFilter) (int, error)
	Delete(ctx context.Context, id string) error
}
