package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, listing_id, farmer_id, buyer_id, listing_name, unit,
	quantity, unit_price, total_price, created_at`

// SaleRepo implementación append-only de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.ListingID, s.FarmerID, s.BuyerID, s.ListingName, s.Unit,
		s.Quantity, s.UnitPrice, s.TotalPrice, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert sale", err)
	}
	return nil
}

// GetByID obtiene una venta; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if !validID(id) {
		return nil, nil
	}
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get sale", err)
	}
	return s, nil
}

// ListByFarmer ventas del agricultor, más recientes primero.
func (r *SaleRepo) ListByFarmer(ctx context.Context, farmerID string, limit, offset int) ([]*entity.Sale, error) {
	return r.list(ctx, `farmer_id = $1`, farmerID, limit, offset)
}

// ListByBuyer compras del comprador, más recientes primero.
func (r *SaleRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Sale, error) {
	return r.list(ctx, `buyer_id = $1`, buyerID, limit, offset)
}

func (r *SaleRepo) list(ctx context.Context, cond, id string, limit, offset int) ([]*entity.Sale, error) {
	if !validID(id) {
		return []*entity.Sale{}, nil
	}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE ` + cond + `
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, id, limitOrAll(limit), offset)
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, wrapErr("scan sale", err)
		}
		list = append(list, s)
	}
	return list, wrapRowsErr("list sales", rows.Err())
}

// Totals cantidad, unidades y valor de las ventas filtradas por agricultor y/o comprador.
func (r *SaleRepo) Totals(ctx context.Context, farmerID, buyerID string) (repository.SalesTotals, error) {
	if (farmerID != "" && !validID(farmerID)) || (buyerID != "" && !validID(buyerID)) {
		return repository.SalesTotals{}, nil
	}
	query := `
		SELECT count(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(total_price), 0)
		FROM sales
		WHERE ($1::uuid IS NULL OR farmer_id = $1::uuid) AND ($2::uuid IS NULL OR buyer_id = $2::uuid)`
	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, nullIfEmpty(farmerID), nullIfEmpty(buyerID)).Scan(&t.Count, &t.Quantity, &t.Revenue); err != nil {
		return repository.SalesTotals{}, wrapErr("sales totals", err)
	}
	return t, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.ListingID, &s.FarmerID, &s.BuyerID, &s.ListingName, &s.Unit,
		&s.Quantity, &s.UnitPrice, &s.TotalPrice, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
