package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

// SalesTotals agregados de ventas para reportes y dashboards.
type SalesTotals struct {
	Count    int
	Quantity decimal.Decimal
	Revenue  decimal.Decimal
}

// SaleRepository puerto append-only para Sale: no hay Update ni Delete.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// ListByFarmer y ListByBuyer ordenan de la más reciente a la más antigua.
	ListByFarmer(ctx context.Context, farmerID string, limit, offset int) ([]*entity.Sale, error)
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Sale, error)
	// Totals agrega por farmerID o buyerID (vacío = sin filtro).
	Totals(ctx context.Context, farmerID, buyerID string) (SalesTotals, error)
}
