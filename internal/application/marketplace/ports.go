package marketplace

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto visible (ni descuento de stock ni venta).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		listingRepo repository.ListingRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// PurchaseObserver recibe el resultado de cada intento de compra (métricas).
// outcome: "ok", "insufficient_stock", "unavailable", "invalid", "error".
type PurchaseObserver interface {
	ObservePurchase(outcome string, quantity, total decimal.Decimal)
}

type nopObserver struct{}

func (nopObserver) ObservePurchase(string, decimal.Decimal, decimal.Decimal) {}
