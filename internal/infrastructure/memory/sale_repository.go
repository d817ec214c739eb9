package memory

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepository)(nil)

// SaleRepository implementación en memoria, append-only.
type SaleRepository struct {
	h handle
}

func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.h.write(func(st *state) error {
		for _, s := range st.sales {
			if s.ID == sale.ID {
				return domain.ErrDuplicate
			}
		}
		c := *sale
		st.sales = append(st.sales, &c)
		return nil
	})
}

func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		for _, s := range st.sales {
			if s.ID == id {
				c := *s
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) ListByFarmer(ctx context.Context, farmerID string, limit, offset int) ([]*entity.Sale, error) {
	return r.list(func(s *entity.Sale) bool { return s.FarmerID == farmerID }, limit, offset)
}

func (r *SaleRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.Sale, error) {
	return r.list(func(s *entity.Sale) bool { return s.BuyerID == buyerID }, limit, offset)
}

// list recorre del final al inicio: las ventas se agregan en orden de creación.
func (r *SaleRepository) list(match func(*entity.Sale) bool, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.read(func(st *state) error {
		var all []*entity.Sale
		for _, s := range slices.Backward(st.sales) {
			if match(s) {
				c := *s
				all = append(all, &c)
			}
		}
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *SaleRepository) Totals(ctx context.Context, farmerID, buyerID string) (repository.SalesTotals, error) {
	t := repository.SalesTotals{Quantity: decimal.Zero, Revenue: decimal.Zero}
	err := r.h.read(func(st *state) error {
		for _, s := range st.sales {
			if farmerID != "" && s.FarmerID != farmerID {
				continue
			}
			if buyerID != "" && s.BuyerID != buyerID {
				continue
			}
			t.Count++
			t.Quantity = t.Quantity.Add(s.Quantity)
			t.Revenue = t.Revenue.Add(s.TotalPrice)
		}
		return nil
	})
	return t, err
}
