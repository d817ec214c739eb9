package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/pkg/logger"
)

// Resultados reportados al PurchaseObserver.
const (
	OutcomeOK                = "ok"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeUnavailable       = "unavailable"
	OutcomeInvalid           = "invalid"
	OutcomeError             = "error"
)

// PurchaseUseCase compra de un cultivo: descuento condicional de inventario y registro
// de la venta en una sola transacción.
type PurchaseUseCase struct {
	txRunner TxRunner
	observer PurchaseObserver
	log      *logger.Logger
	now      func() time.Time
}

// NewPurchaseUseCase construye el caso de uso. observer y log pueden ser nil.
func NewPurchaseUseCase(txRunner TxRunner, observer PurchaseObserver, log *logger.Logger) *PurchaseUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseUseCase{txRunner: txRunner, observer: observer, log: log, now: time.Now}
}

// Purchase descuenta quantity del cultivo y registra la venta a nombre de buyerID.
//
// Errores:
//   - domain.ErrInvalidQuantity si quantity <= 0 o tiene más de 3 decimales (no se toca el almacenamiento)
//   - domain.ErrListingUnavailable si el cultivo no existe o está inactivo
//   - *domain.InsufficientStockError (errors.Is ErrInsufficientStock) con la cantidad disponible
//   - errores envueltos con domain.ErrTransient si el backend falla
//
// El total es el producto exacto quantity × precio, con el precio leído dentro de la transacción
// y no con el que vio el cliente.
func (uc *PurchaseUseCase) Purchase(ctx context.Context, buyerID, listingID string, quantity decimal.Decimal) (*dto.SaleResponse, error) {
	if !quantity.GreaterThan(decimal.Zero) || !entity.FitsScale(quantity, entity.QuantityScale) {
		uc.observer.ObservePurchase(OutcomeInvalid, quantity, decimal.Zero)
		return nil, domain.ErrInvalidQuantity
	}
	if buyerID == "" || listingID == "" {
		uc.observer.ObservePurchase(OutcomeInvalid, quantity, decimal.Zero)
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(listingRepo repository.ListingRepository, saleRepo repository.SaleRepository) error {
		// Bloquea la fila para que precio y stock validados sean los mismos que se descuentan
		listing, err := listingRepo.GetForUpdate(ctx, listingID)
		if err != nil {
			return err
		}
		if listing == nil || !listing.IsActive() {
			return domain.ErrListingUnavailable
		}
		if quantity.GreaterThan(listing.Quantity) {
			return &domain.InsufficientStockError{Available: listing.Quantity}
		}

		updated, ok, err := listingRepo.DecrementStock(ctx, listingID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			// Otra compra ganó la carrera entre la lectura y el descuento
			available := decimal.Zero
			if updated != nil && updated.IsActive() {
				available = updated.Quantity
			}
			return &domain.InsufficientStockError{Available: available}
		}

		sale = &entity.Sale{
			ID:          uuid.New().String(),
			ListingID:   listing.ID,
			FarmerID:    listing.FarmerID,
			BuyerID:     buyerID,
			ListingName: listing.Name,
			Unit:        listing.Unit,
			Quantity:    quantity,
			UnitPrice:   listing.UnitPrice,
			TotalPrice:  quantity.Mul(listing.UnitPrice),
			CreatedAt:   uc.now(),
		}
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		uc.observer.ObservePurchase(outcomeFor(err), quantity, decimal.Zero)
		if errors.Is(err, domain.ErrTransient) {
			uc.log.Error().Err(err).Str("listing_id", listingID).Str("buyer_id", buyerID).Msg("compra: fallo del backend")
		}
		return nil, err
	}

	uc.observer.ObservePurchase(OutcomeOK, sale.Quantity, sale.TotalPrice)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("listing_id", sale.ListingID).
		Str("buyer_id", buyerID).
		Str("quantity", sale.Quantity.String()).
		Str("total", sale.TotalPrice.String()).
		Msg("compra registrada")
	return ToSaleResponse(sale), nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, domain.ErrListingUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// ToSaleResponse mapea una venta a su DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	return &dto.SaleResponse{
		ID:          s.ID,
		ListingID:   s.ListingID,
		ListingName: s.ListingName,
		FarmerID:    s.FarmerID,
		BuyerID:     s.BuyerID,
		Quantity:    s.Quantity,
		Unit:        s.Unit,
		UnitPrice:   s.UnitPrice,
		TotalPrice:  s.TotalPrice,
		CreatedAt:   s.CreatedAt,
	}
}
