package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepository)(nil)

// ListingRepository implementación en memoria de repository.ListingRepository.
type ListingRepository struct {
	h handle
}

func (r *ListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.listings[listing.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *listing
		st.listings[listing.ID] = &c
		return nil
	})
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var out *entity.Listing
	err := r.h.read(func(st *state) error {
		if l, ok := st.listings[id]; ok {
			c := *l
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: la exclusión la da el lock de Store.Run.
func (r *ListingRepository) GetForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	return r.GetByID(ctx, id)
}

// Update aplica el patch sobre el valor vigente bajo el lock, nunca sobre una copia leída antes.
func (r *ListingRepository) Update(ctx context.Context, id string, patch repository.ListingPatch) (*entity.Listing, error) {
	var out *entity.Listing
	err := r.h.write(func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *l
		applyPatch(&c, patch)
		st.listings[id] = &c
		res := c
		out = &res
		return nil
	})
	return out, err
}

func applyPatch(l *entity.Listing, p repository.ListingPatch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.PlantedDate != nil {
		l.PlantedDate = *p.PlantedDate
	}
	if p.HarvestDate != nil {
		l.HarvestDate = *p.HarvestDate
	}
	if p.Quantity != nil {
		l.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		l.Unit = *p.Unit
	}
	if p.UnitPrice != nil {
		l.UnitPrice = *p.UnitPrice
	}
	if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}
	l.UpdatedAt = p.UpdatedAt
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	return r.h.write(func(st *state) error {
		l, ok := st.listings[id]
		if !ok {
			return domain.ErrNotFound
		}
		c := *l
		c.Status = status
		st.listings[id] = &c
		return nil
	})
}

func (r *ListingRepository) DecrementStock(ctx context.Context, id string, q decimal.Decimal) (*entity.Listing, bool, error) {
	var (
		out *entity.Listing
		ok  bool
	)
	err := r.h.write(func(st *state) error {
		l, found := st.listings[id]
		if !found {
			return nil
		}
		c := *l
		out = &c
		if !l.IsActive() || l.Quantity.LessThan(q) {
			return nil
		}
		n := *l
		n.ApplyPurchase(q, nowUTC())
		st.listings[id] = &n
		res := n
		out, ok = &res, true
		return nil
	})
	return out, ok, err
}

func (r *ListingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, error) {
	var out []*entity.Listing
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Listing, 0, len(st.listings))
		for _, l := range st.listings {
			if !matches(l, filter) {
				continue
			}
			c := *l
			all = append(all, &c)
		}
		slices.SortFunc(all, func(a, b *entity.Listing) int {
			if n := b.CreatedAt.Compare(a.CreatedAt); n != 0 {
				return n
			}
			return cmp.Compare(a.ID, b.ID)
		})
		out = page(all, filter.Limit, filter.Offset)
		return nil
	})
	return out, err
}

func (r *ListingRepository) Count(ctx context.Context, filter repository.ListingFilter) (int, error) {
	n := 0
	err := r.h.read(func(st *state) error {
		for _, l := range st.listings {
			if matches(l, filter) {
				n++
			}
		}
		return nil
	})
	return n, err
}

func matches(l *entity.Listing, f repository.ListingFilter) bool {
	if f.FarmerID != "" && l.FarmerID != f.FarmerID {
		return false
	}
	if f.Category != "" && !strings.EqualFold(l.Category, f.Category) {
		return false
	}
	if f.OnlyAvailable && !l.Available() {
		return false
	}
	return true
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.listings[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.listings, id)
		return nil
	})
}
