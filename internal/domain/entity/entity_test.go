package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/domain/entity"
)

func TestParseRole_NormalizaMayusculas(t *testing.T) {
	for _, in := range []string{"admin", "Admin", "ADMIN", " admin "} {
		r, err := entity.ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, entity.RoleAdmin, r)
	}

	_, err := entity.ParseRole("superuser")
	assert.Error(t, err)
	_, err = entity.ParseRole("")
	assert.Error(t, err)
}

func TestRole_SelfAssignable(t *testing.T) {
	assert.True(t, entity.RoleFarmer.SelfAssignable())
	assert.True(t, entity.RoleBuyer.SelfAssignable())
	assert.False(t, entity.RoleAdmin.SelfAssignable())
}

func TestListing_ApplyPurchase(t *testing.T) {
	now := time.Now()
	l := &entity.Listing{Quantity: decimal.NewFromInt(5), Status: entity.ListingActive}

	l.ApplyPurchase(decimal.NewFromInt(2), now)
	assert.True(t, l.Quantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, entity.ListingActive, l.Status)

	l.ApplyPurchase(decimal.NewFromInt(3), now)
	assert.True(t, l.Quantity.IsZero())
	assert.Equal(t, entity.ListingInactive, l.Status, "al agotarse pasa a inactive")
	assert.False(t, l.Available())
}
