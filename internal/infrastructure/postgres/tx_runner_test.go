package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
	"github.com/jhoicas/farmlink-api/internal/infrastructure/postgres"
)

var readCommitted = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func TestPurchase_SobrePostgresHaceCommit(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectQuery(`SELECT .* FROM listings WHERE id = \$1 FOR UPDATE`).
		WithArgs(listingID).
		WillReturnRows(listingRows("10", "2.50", "active"))
	mock.ExpectQuery(decrementSQL).
		WithArgs(listingID, dec("4")).
		WillReturnRows(listingRows("6", "2.50", "active"))
	mock.ExpectExec(`INSERT INTO sales`).
		WithArgs(pgxmock.AnyArg(), listingID, farmerID, buyerID, "Papa criolla", "kg",
			dec("4"), dec("2.50"), dec("10"), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	uc := marketplace.NewPurchaseUseCase(postgres.NewTxRunner(mock), nil, nil)
	sale, err := uc.Purchase(context.Background(), buyerID, listingID, decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(sale.TotalPrice))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_SobrePostgresStockInsuficienteHaceRollback(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectQuery(`SELECT .* FROM listings WHERE id = \$1 FOR UPDATE`).
		WithArgs(listingID).
		WillReturnRows(listingRows("3", "2.50", "active"))
	mock.ExpectRollback()

	uc := marketplace.NewPurchaseUseCase(postgres.NewTxRunner(mock), nil, nil)
	_, err := uc.Purchase(context.Background(), buyerID, listingID, decimal.NewFromInt(5))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, decimal.NewFromInt(3).Equal(stockErr.Available))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_ErrorAlInsertarVentaHaceRollback(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted)
	mock.ExpectQuery(`SELECT .* FROM listings WHERE id = \$1 FOR UPDATE`).
		WithArgs(listingID).
		WillReturnRows(listingRows("10", "2.50", "active"))
	mock.ExpectQuery(decrementSQL).
		WithArgs(listingID, dec("1")).
		WillReturnRows(listingRows("9", "2.50", "active"))
	mock.ExpectExec(`INSERT INTO sales`).
		WillReturnError(&pgconn.PgError{Code: "08006"})
	mock.ExpectRollback()

	uc := marketplace.NewPurchaseUseCase(postgres.NewTxRunner(mock), nil, nil)
	_, err := uc.Purchase(context.Background(), buyerID, listingID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrTransient)
	require.NoError(t, mock.ExpectationsWereMet(), "el descuento se revierte con la tx")
}

func TestTxRunner_FalloAlIniciar(t *testing.T) {
	mock := newMock(t)
	mock.ExpectBeginTx(readCommitted).WillReturnError(&pgconn.PgError{Code: "57P03"})

	called := false
	err := postgres.NewTxRunner(mock).Run(context.Background(), func(_ repository.ListingRepository, _ repository.SaleRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}
