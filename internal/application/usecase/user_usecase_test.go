package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/usecase"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/memory"
)

type recordingRevoker struct {
	revoked []string
}

func (r *recordingRevoker) RevokeUserSessions(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type failingRevoker struct {
	calls int
}

func (r *failingRevoker) RevokeUserSessions(context.Context, string) error {
	r.calls++
	return domain.Transient("revoke user", errors.New("redis caído"))
}

func seedUser(t *testing.T, store *memory.Store, id string, role entity.Role) {
	t.Helper()
	now := time.Now()
	require.NoError(t, store.Users().Create(context.Background(), &entity.User{
		ID: id, Email: id + "@farmlink.test", Name: id, Role: role, CreatedAt: now, UpdatedAt: now,
	}))
}

func TestUserDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, farmer.UserID, entity.RoleFarmer)
	seedUser(t, store, admin.UserID, entity.RoleAdmin)
	require.NoError(t, store.Listings().Create(ctx, &entity.Listing{
		ID: "l1", FarmerID: farmer.UserID, Name: "Papa", Category: "vegetable",
		Quantity: decimal.NewFromInt(5), Unit: "kg", Status: entity.ListingActive,
	}))

	revoker := &recordingRevoker{}
	uc := usecase.NewUserUseCase(store.Users(), store.Listings(), revoker, nil)

	assert.ErrorIs(t, uc.Delete(ctx, buyer, farmer.UserID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Delete(ctx, admin, admin.UserID), domain.ErrForbidden, "los admin no se eliminan por API")
	assert.ErrorIs(t, uc.Delete(ctx, admin, "nadie"), domain.ErrUserNotFound)

	require.NoError(t, uc.Delete(ctx, admin, farmer.UserID))
	assert.Equal(t, []string{farmer.UserID}, revoker.revoked)

	u, err := store.Users().GetByID(ctx, farmer.UserID)
	require.NoError(t, err)
	assert.Nil(t, u)
	l, err := store.Listings().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingInactive, l.Status, "sus cultivos salen del marketplace")

	list, err := uc.List(ctx, admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)
}

func TestUserDelete_FalloAlRevocarConservaLaCuenta(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, farmer.UserID, entity.RoleFarmer)
	require.NoError(t, store.Listings().Create(ctx, &entity.Listing{
		ID: "l1", FarmerID: farmer.UserID, Name: "Papa", Category: "vegetable",
		Quantity: decimal.NewFromInt(5), Unit: "kg", Status: entity.ListingActive,
	}))

	failing := &failingRevoker{}
	uc := usecase.NewUserUseCase(store.Users(), store.Listings(), failing, nil)
	err := uc.Delete(ctx, admin, farmer.UserID)
	assert.ErrorIs(t, err, domain.ErrTransient)

	u, err := store.Users().GetByID(ctx, farmer.UserID)
	require.NoError(t, err)
	require.NotNil(t, u, "sin revocación no se borra la cuenta")
	l, err := store.Listings().GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, entity.ListingActive, l.Status)

	// el reintento encuentra al usuario y completa la baja
	revoker := &recordingRevoker{}
	uc = usecase.NewUserUseCase(store.Users(), store.Listings(), revoker, nil)
	require.NoError(t, uc.Delete(ctx, admin, farmer.UserID))
	assert.Equal(t, []string{farmer.UserID}, revoker.revoked)
	u, err = store.Users().GetByID(ctx, farmer.UserID)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserList_Total(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedUser(t, store, farmer.UserID, entity.RoleFarmer)
	seedUser(t, store, buyer.UserID, entity.RoleBuyer)
	seedUser(t, store, admin.UserID, entity.RoleAdmin)
	uc := usecase.NewUserUseCase(store.Users(), store.Listings(), &recordingRevoker{}, nil)

	list, err := uc.List(ctx, admin, dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 3, list.Page.Total)
}
