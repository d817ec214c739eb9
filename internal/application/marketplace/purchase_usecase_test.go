package marketplace_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/memory"
)

const (
	farmerID = "f0000000-0000-0000-0000-000000000001"
	buyerID  = "b0000000-0000-0000-0000-000000000001"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObservePurchase(outcome string, _, _ decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func seedListing(t *testing.T, store *memory.Store, id string, qty, price string, status entity.ListingStatus) {
	t.Helper()
	now := time.Now()
	err := store.Listings().Create(context.Background(), &entity.Listing{
		ID:        id,
		FarmerID:  farmerID,
		Name:      "Tomate chonto",
		Category:  "Vegetables",
		Quantity:  decimal.RequireFromString(qty),
		Unit:      "kg",
		UnitPrice: decimal.RequireFromString(price),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestPurchase_DescuentaYRegistraVenta(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "10", "2.50", entity.ListingActive)
	obs := &recordingObserver{}
	uc := marketplace.NewPurchaseUseCase(store, obs, nil)

	sale, err := uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(sale.Quantity))
	assert.True(t, decimal.RequireFromString("10").Equal(sale.TotalPrice), "total = 4 × 2.50")
	assert.Equal(t, farmerID, sale.FarmerID)
	assert.Equal(t, "Tomate chonto", sale.ListingName)

	l, err := store.Listings().GetByID(context.Background(), "l1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6).Equal(l.Quantity))
	assert.Equal(t, entity.ListingActive, l.Status)

	sales, err := store.Sales().ListByBuyer(context.Background(), buyerID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
	assert.Equal(t, []string{marketplace.OutcomeOK}, obs.outcomes)
}

func TestPurchase_AgotarDesactivaCultivo(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "5", "1", entity.ListingActive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)

	_, err := uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(5))
	require.NoError(t, err)

	l, _ := store.Listings().GetByID(context.Background(), "l1")
	assert.True(t, l.Quantity.IsZero())
	assert.Equal(t, entity.ListingInactive, l.Status)

	_, err = uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrListingUnavailable)
}

func TestPurchase_Rechazos(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "activo", "3", "1", entity.ListingActive)
	seedListing(t, store, "inactivo", "3", "1", entity.ListingInactive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		listingID string
		qty       decimal.Decimal
		want      error
	}{
		{"cantidad cero", "activo", decimal.Zero, domain.ErrInvalidQuantity},
		{"cantidad negativa", "activo", decimal.NewFromInt(-2), domain.ErrInvalidQuantity},
		{"no existe", "nope", decimal.NewFromInt(1), domain.ErrListingUnavailable},
		{"inactivo", "inactivo", decimal.NewFromInt(1), domain.ErrListingUnavailable},
		{"excede stock", "activo", decimal.NewFromInt(4), domain.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Purchase(ctx, buyerID, tt.listingID, tt.qty)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// ningún rechazo dejó efectos
	l, _ := store.Listings().GetByID(ctx, "activo")
	assert.True(t, decimal.NewFromInt(3).Equal(l.Quantity))
	totals, err := store.Sales().Totals(ctx, "", "")
	require.NoError(t, err)
	assert.Zero(t, totals.Count)
}

func TestPurchase_StockInsuficienteInformaDisponible(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "3", "1", entity.ListingActive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)

	_, err := uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(7))
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, decimal.NewFromInt(3).Equal(stockErr.Available))
}

func TestPurchase_ComprasConcurrentesNoSobrevenden(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "10", "1", entity.ListingActive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, stock int
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(6))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				stock++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, stock)
	l, _ := store.Listings().GetByID(context.Background(), "l1")
	assert.True(t, decimal.NewFromInt(4).Equal(l.Quantity))
}

// failingTx simula la caída del backend después del descuento: nada debe quedar aplicado.
type failingTx struct {
	store *memory.Store
}

func (f failingTx) Run(ctx context.Context, fn func(repository.ListingRepository, repository.SaleRepository) error) error {
	return f.store.Run(ctx, func(lr repository.ListingRepository, sr repository.SaleRepository) error {
		if err := fn(lr, failingSales{sr}); err != nil {
			return err
		}
		return nil
	})
}

type failingSales struct{ repository.SaleRepository }

func (failingSales) Create(context.Context, *entity.Sale) error {
	return domain.Transient("insert sale", errors.New("connection reset"))
}

func TestPurchase_FalloAlRegistrarVentaNoDescuenta(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "10", "1", entity.ListingActive)
	obs := &recordingObserver{}
	uc := marketplace.NewPurchaseUseCase(failingTx{store}, obs, nil)

	_, err := uc.Purchase(context.Background(), buyerID, "l1", decimal.NewFromInt(2))
	require.ErrorIs(t, err, domain.ErrTransient)

	l, _ := store.Listings().GetByID(context.Background(), "l1")
	assert.True(t, decimal.NewFromInt(10).Equal(l.Quantity), "rollback: el stock no cambia")
	assert.Equal(t, []string{marketplace.OutcomeError}, obs.outcomes)
}

func TestPurchase_CantidadFraccionariaTotalExacto(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "1", "0.01", entity.ListingActive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)
	ctx := context.Background()

	sale, err := uc.Purchase(ctx, buyerID, "l1", decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.005").Equal(sale.TotalPrice), "total = 0.5 × 0.01 sin redondear, got %s", sale.TotalPrice)

	sale, err = uc.Purchase(ctx, buyerID, "l1", decimal.RequireFromString("0.125"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.00125").Equal(sale.TotalPrice))

	l, _ := store.Listings().GetByID(ctx, "l1")
	assert.True(t, decimal.RequireFromString("0.375").Equal(l.Quantity))

	_, err = uc.Purchase(ctx, buyerID, "l1", decimal.RequireFromString("0.0001"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "más decimales de los que guarda el inventario")
	l, _ = store.Listings().GetByID(ctx, "l1")
	assert.True(t, decimal.RequireFromString("0.375").Equal(l.Quantity))
}

func TestPurchase_ReactivadoSinExistencias(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "1", "2", entity.ListingActive)
	uc := marketplace.NewPurchaseUseCase(store, nil, nil)
	ctx := context.Background()

	_, err := uc.Purchase(ctx, buyerID, "l1", decimal.NewFromInt(1))
	require.NoError(t, err)
	// el dueño lo vuelve a activar sin reponer existencias
	require.NoError(t, store.Listings().UpdateStatus(ctx, "l1", entity.ListingActive))

	_, err = uc.Purchase(ctx, buyerID, "l1", decimal.NewFromInt(1))
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	assert.True(t, stockErr.Available.IsZero())

	totals, err := store.Sales().Totals(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Count)
}

// priceEditTx cambia el precio justo antes de que empiece la transacción de compra,
// como una edición del agricultor que llega entre la cotización y la confirmación.
type priceEditTx struct {
	store *memory.Store
	price decimal.Decimal
}

func (p priceEditTx) Run(ctx context.Context, fn func(repository.ListingRepository, repository.SaleRepository) error) error {
	if _, err := p.store.Listings().Update(ctx, "l1", repository.ListingPatch{UnitPrice: &p.price, UpdatedAt: time.Now()}); err != nil {
		return err
	}
	return p.store.Run(ctx, fn)
}

func TestPurchase_EdicionDePrecioConcurrente(t *testing.T) {
	store := memory.NewStore()
	seedListing(t, store, "l1", "10", "2", entity.ListingActive)
	ctx := context.Background()

	uc := marketplace.NewPurchaseUseCase(priceEditTx{store: store, price: decimal.NewFromInt(3)}, nil, nil)
	sale, err := uc.Purchase(ctx, buyerID, "l1", decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(sale.UnitPrice), "se cobra el precio vigente dentro de la transacción")
	assert.True(t, decimal.NewFromInt(12).Equal(sale.TotalPrice))

	// una edición posterior no altera la venta ni devuelve el stock vendido
	later := decimal.NewFromInt(9)
	_, err = store.Listings().Update(ctx, "l1", repository.ListingPatch{UnitPrice: &later, UpdatedAt: time.Now()})
	require.NoError(t, err)

	stored, err := store.Sales().GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(stored.UnitPrice))
	assert.True(t, decimal.NewFromInt(12).Equal(stored.TotalPrice))
	l, _ := store.Listings().GetByID(ctx, "l1")
	assert.True(t, decimal.NewFromInt(6).Equal(l.Quantity))
	assert.True(t, later.Equal(l.UnitPrice))
}
