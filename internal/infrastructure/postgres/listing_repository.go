package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

const listingColumns = `id, farmer_id, name, category, planted_date, harvest_date,
	quantity, unit, unit_price, status, image_url, created_at, updated_at`

// ListingRepo implementación de ListingRepository sobre PostgreSQL (usable con pool o tx).
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

// Create inserta un cultivo.
func (r *ListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (` + listingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.FarmerID, l.Name, l.Category, l.PlantedDate, l.HarvestDate,
		l.Quantity, l.Unit, l.UnitPrice, string(l.Status), nullIfEmpty(l.ImageURL), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert listing", err)
	}
	return nil
}

// GetByID obtiene un cultivo; (nil, nil) si no existe.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	return scanOneListing(r.q.QueryRow(ctx, query, id), "get listing")
}

// GetForUpdate obtiene el cultivo y bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *ListingRepo) GetForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1 FOR UPDATE`
	return scanOneListing(r.q.QueryRow(ctx, query, id), "get listing for update")
}

// Update escribe solo las columnas presentes en el patch. quantity y status no se tocan salvo
// que el patch traiga la cantidad, así no se revierte un descuento hecho por una compra.
func (r *ListingRepo) Update(ctx context.Context, id string, p repository.ListingPatch) (*entity.Listing, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	args := []any{id}
	sets := []string{}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Name != nil {
		set("name", *p.Name)
	}
	if p.Category != nil {
		set("category", *p.Category)
	}
	if p.PlantedDate != nil {
		set("planted_date", *p.PlantedDate)
	}
	if p.HarvestDate != nil {
		set("harvest_date", *p.HarvestDate)
	}
	if p.Quantity != nil {
		set("quantity", *p.Quantity)
	}
	if p.Unit != nil {
		set("unit", *p.Unit)
	}
	if p.UnitPrice != nil {
		set("unit_price", *p.UnitPrice)
	}
	if p.ImageURL != nil {
		set("image_url", nullIfEmpty(*p.ImageURL))
	}
	set("updated_at", p.UpdatedAt)

	query := `UPDATE listings SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + listingColumns
	l, err := scanListing(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("update listing", err)
	}
	return l, nil
}

// UpdateStatus cambia el estado del cultivo.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `UPDATE listings SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return wrapErr("update listing status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock descuenta q con una sola sentencia condicional: la fila solo cambia si el cultivo
// sigue activo y tiene al menos q. Si queda en 0 pasa a inactive en la misma sentencia.
func (r *ListingRepo) DecrementStock(ctx context.Context, id string, q decimal.Decimal) (*entity.Listing, bool, error) {
	if !validID(id) {
		return nil, false, nil
	}
	query := `
		UPDATE listings SET
			quantity   = quantity - $2,
			status     = CASE WHEN quantity - $2 = 0 THEN 'inactive' ELSE status END,
			updated_at = now()
		WHERE id = $1 AND status = 'active' AND quantity >= $2
		RETURNING ` + listingColumns
	l, err := scanListing(r.q.QueryRow(ctx, query, id, q))
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, wrapErr("decrement stock", err)
	}
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// List cultivos filtrados, del más reciente al más antiguo.
func (r *ListingRepo) List(ctx context.Context, f repository.ListingFilter) ([]*entity.Listing, error) {
	where, args := listingWhere(f)
	args = append(args, limitOrAll(f.Limit), f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM listings %s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		listingColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list listings", err)
	}
	defer rows.Close()
	var list []*entity.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, wrapErr("scan listing", err)
		}
		list = append(list, l)
	}
	return list, wrapRowsErr("list listings", rows.Err())
}

// Count aplica los filtros de List sin paginar.
func (r *ListingRepo) Count(ctx context.Context, f repository.ListingFilter) (int, error) {
	where, args := listingWhere(f)
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM listings `+where, args...).Scan(&n); err != nil {
		return 0, wrapErr("count listings", err)
	}
	return n, nil
}

// Delete elimina el cultivo. Las ventas guardan su propio snapshot (sin FK).
func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete listing", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func listingWhere(f repository.ListingFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.FarmerID != "" {
		if !validID(f.FarmerID) {
			// ningún cultivo puede pertenecer a un id que no es UUID
			return "WHERE false", args
		}
		args = append(args, f.FarmerID)
		conds = append(conds, fmt.Sprintf("farmer_id = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("lower(category) = lower($%d)", len(args)))
	}
	if f.OnlyAvailable {
		conds = append(conds, "status = 'active' AND quantity > 0")
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func scanOneListing(row pgx.Row, op string) (*entity.Listing, error) {
	l, err := scanListing(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return l, nil
}

func scanListing(row pgx.Row) (*entity.Listing, error) {
	var (
		l        entity.Listing
		status   string
		imageURL *string
	)
	err := row.Scan(
		&l.ID, &l.FarmerID, &l.Name, &l.Category, &l.PlantedDate, &l.HarvestDate,
		&l.Quantity, &l.Unit, &l.UnitPrice, &status, &imageURL, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.ListingStatus(status)
	l.ImageURL = derefString(imageURL)
	return &l, nil
}
