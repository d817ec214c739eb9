package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/memory"
)

var (
	farmer      = access.Authenticated("farmer-1", entity.RoleFarmer)
	otherFarmer = access.Authenticated("farmer-2", entity.RoleFarmer)
	buyer       = access.Authenticated("buyer-1", entity.RoleBuyer)
	admin       = access.Authenticated("admin-1", entity.RoleAdmin)
)

func day(s string) dto.Date {
	t, _ := time.Parse("2006-01-02", s)
	return dto.Date{Time: t}
}

func newListingRequest() dto.CreateListingRequest {
	return dto.CreateListingRequest{
		Name:        "Papa criolla",
		Category:    "  Vegetable ",
		PlantedDate: day("2026-03-01"),
		HarvestDate: day("2026-06-15"),
		Quantity:    decimal.NewFromInt(120),
		UnitPrice:   decimal.RequireFromString("3.20"),
	}
}

func TestListingCreate(t *testing.T) {
	uc := usecase.NewListingUseCase(memory.NewStore().Listings())
	ctx := context.Background()

	out, err := uc.Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)
	assert.Equal(t, "farmer-1", out.FarmerID)
	assert.Equal(t, "kg", out.Unit, "unidad por defecto")
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, "vegetable", out.Category)

	_, err = uc.Create(ctx, buyer, newListingRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, access.Unauthenticated(), newListingRequest())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	bad := newListingRequest()
	bad.Quantity = decimal.Zero
	_, err = uc.Create(ctx, farmer, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	bad = newListingRequest()
	bad.HarvestDate = day("2026-01-01")
	_, err = uc.Create(ctx, farmer, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListingOwnership(t *testing.T) {
	uc := usecase.NewListingUseCase(memory.NewStore().Listings())
	ctx := context.Background()
	l, err := uc.Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)

	price := decimal.RequireFromString("4")
	_, err = uc.Update(ctx, otherFarmer, l.ID, dto.UpdateListingRequest{UnitPrice: &price})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Update(ctx, buyer, l.ID, dto.UpdateListingRequest{UnitPrice: &price})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := uc.Update(ctx, farmer, l.ID, dto.UpdateListingRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.UnitPrice))

	_, err = uc.SetStatus(ctx, otherFarmer, l.ID, entity.ListingInactive)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	st, err := uc.SetStatus(ctx, admin, l.ID, entity.ListingInactive)
	require.NoError(t, err)
	assert.Equal(t, "inactive", st.Status)

	// inactivo: el comprador ya no lo ve, el dueño sí
	_, err = uc.GetByID(ctx, buyer, l.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetByID(ctx, farmer, l.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, otherFarmer, l.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, farmer, l.ID))
	_, err = uc.GetByID(ctx, farmer, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingMarketplace(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewListingUseCase(store.Listings())
	ctx := context.Background()

	a, err := uc.Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)
	fruit := newListingRequest()
	fruit.Name, fruit.Category = "Mango", "Fruit"
	_, err = uc.Create(ctx, otherFarmer, fruit)
	require.NoError(t, err)
	hidden, err := uc.Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)
	_, err = uc.SetStatus(ctx, farmer, hidden.ID, entity.ListingInactive)
	require.NoError(t, err)

	all, err := uc.Marketplace(ctx, buyer, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	veg, err := uc.Marketplace(ctx, buyer, "VEGETABLE", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, veg.Items, 1)
	assert.Equal(t, a.ID, veg.Items[0].ID)

	mine, err := uc.ListMine(ctx, farmer, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 2, "el agricultor ve también sus inactivos")

	_, err = uc.ListAll(ctx, farmer, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	everything, err := uc.ListAll(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, everything.Items, 3)
}

func TestListingCategories(t *testing.T) {
	uc := usecase.NewListingUseCase(memory.NewStore().Listings())
	cats := uc.Categories()
	require.Len(t, cats, len(entity.DefaultCategories))
	assert.Equal(t, "vegetable", cats[0].Code)
}

// purchaseAfterRead ejecuta una compra justo después de la lectura que hace Update,
// antes de que escriba: la ventana en la que una edición podía pisar el descuento.
type purchaseAfterRead struct {
	repository.ListingRepository
	purchase func()
	once     bool
}

func (r *purchaseAfterRead) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	l, err := r.ListingRepository.GetByID(ctx, id)
	if !r.once && r.purchase != nil {
		r.once = true
		r.purchase()
	}
	return l, err
}

func TestListingUpdate_NoRevierteCompraConcurrente(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	created, err := usecase.NewListingUseCase(store.Listings()).Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)

	purchases := marketplace.NewPurchaseUseCase(store, nil, nil)
	repo := &purchaseAfterRead{ListingRepository: store.Listings()}
	repo.purchase = func() {
		_, err := purchases.Purchase(ctx, buyer.UserID, created.ID, decimal.NewFromInt(120))
		require.NoError(t, err)
	}
	uc := usecase.NewListingUseCase(repo)

	price := decimal.RequireFromString("3.50")
	out, err := uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(out.UnitPrice))

	l, err := store.Listings().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, l.Quantity.IsZero(), "la edición de precio no devuelve el stock vendido, got %s", l.Quantity)
	assert.Equal(t, entity.ListingInactive, l.Status)
	assert.True(t, price.Equal(l.UnitPrice))
	totals, err := store.Sales().Totals(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Count)
}

func TestListingUpdate_Parcial(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewListingUseCase(store.Listings())
	ctx := context.Background()
	created, err := uc.Create(ctx, farmer, newListingRequest())
	require.NoError(t, err)

	name := "Papa pastusa"
	out, err := uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, created.Category, out.Category)
	assert.True(t, created.Quantity.Equal(out.Quantity))
	assert.True(t, created.UnitPrice.Equal(out.UnitPrice))

	harvest := day("2026-02-01")
	_, err = uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{HarvestDate: &harvest})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la cosecha quedaría antes de la siembra")

	qty := decimal.RequireFromString("80.5")
	out, err = uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, qty.Equal(out.Quantity))
}

func TestListingEscalaDecimal(t *testing.T) {
	uc := usecase.NewListingUseCase(memory.NewStore().Listings())
	ctx := context.Background()

	req := newListingRequest()
	req.Quantity = decimal.RequireFromString("12.125")
	req.UnitPrice = decimal.RequireFromString("0.01")
	created, err := uc.Create(ctx, farmer, req)
	require.NoError(t, err)

	req = newListingRequest()
	req.Quantity = decimal.RequireFromString("1.0005")
	_, err = uc.Create(ctx, farmer, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = newListingRequest()
	req.UnitPrice = decimal.RequireFromString("0.005")
	_, err = uc.Create(ctx, farmer, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	price := decimal.RequireFromString("2.999")
	_, err = uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{UnitPrice: &price})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	qty := decimal.RequireFromString("3.14159")
	_, err = uc.Update(ctx, farmer, created.ID, dto.UpdateListingRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
