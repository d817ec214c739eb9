package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

const defaultUnit = "kg"

// ListingUseCase ciclo de vida de los cultivos publicados: alta, edición, estado y baja.
// Solo el agricultor dueño o un admin pueden modificar un cultivo.
type ListingUseCase struct {
	repo repository.ListingRepository
	now  func() time.Time
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(repo repository.ListingRepository) *ListingUseCase {
	return &ListingUseCase{repo: repo, now: time.Now}
}

// Create publica un cultivo del agricultor de la sesión con estado active.
func (uc *ListingUseCase) Create(ctx context.Context, s access.Session, in dto.CreateListingRequest) (*dto.ListingResponse, error) {
	if err := access.Require(s, entity.RoleFarmer); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	category := uc.normalizeCategory(in.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: nombre y categoría son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Quantity.GreaterThan(decimal.Zero) || !entity.FitsScale(in.Quantity, entity.QuantityScale) {
		return nil, domain.ErrInvalidQuantity
	}
	if err := validatePrice(in.UnitPrice); err != nil {
		return nil, err
	}
	if err := validateDates(in.PlantedDate.Time, in.HarvestDate.Time); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}

	now := uc.now()
	listing := &entity.Listing{
		ID:          uuid.New().String(),
		FarmerID:    s.UserID,
		Name:        name,
		Category:    category,
		PlantedDate: in.PlantedDate.Time,
		HarvestDate: in.HarvestDate.Time,
		Quantity:    in.Quantity,
		Unit:        unit,
		UnitPrice:   in.UnitPrice,
		Status:      entity.ListingActive,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return ToListingResponse(listing), nil
}

// GetByID devuelve un cultivo. Los disponibles en el marketplace los ve cualquier usuario
// autenticado; los demás solo su dueño o un admin.
func (uc *ListingUseCase) GetByID(ctx context.Context, s access.Session, id string) (*dto.ListingResponse, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	listing, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !listing.Available() && !canManage(s, listing) {
		return nil, domain.ErrForbidden
	}
	return ToListingResponse(listing), nil
}

// Update aplica los campos presentes en in. Solo se escriben esos campos: cantidad y estado
// quedan como los dejó la última compra salvo que in.Quantity venga informado.
func (uc *ListingUseCase) Update(ctx context.Context, s access.Session, id string, in dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	current, err := uc.getManaged(ctx, s, id)
	if err != nil {
		return nil, err
	}
	patch := repository.ListingPatch{UpdatedAt: uc.now()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := uc.normalizeCategory(*in.Category)
		if category == "" {
			return nil, fmt.Errorf("%w: la categoría es obligatoria", domain.ErrInvalidInput)
		}
		patch.Category = &category
	}
	if in.PlantedDate != nil || in.HarvestDate != nil {
		planted, harvest := current.PlantedDate, current.HarvestDate
		if in.PlantedDate != nil {
			planted = in.PlantedDate.Time
			patch.PlantedDate = &planted
		}
		if in.HarvestDate != nil {
			harvest = in.HarvestDate.Time
			patch.HarvestDate = &harvest
		}
		if err := validateDates(planted, harvest); err != nil {
			return nil, err
		}
	}
	if in.Quantity != nil {
		if in.Quantity.LessThan(decimal.Zero) || !entity.FitsScale(*in.Quantity, entity.QuantityScale) {
			return nil, domain.ErrInvalidQuantity
		}
		q := *in.Quantity
		patch.Quantity = &q
	}
	if in.Unit != nil {
		if u := strings.TrimSpace(*in.Unit); u != "" {
			patch.Unit = &u
		}
	}
	if in.UnitPrice != nil {
		if err := validatePrice(*in.UnitPrice); err != nil {
			return nil, err
		}
		price := *in.UnitPrice
		patch.UnitPrice = &price
	}
	if in.ImageURL != nil {
		img := strings.TrimSpace(*in.ImageURL)
		patch.ImageURL = &img
	}
	updated, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return ToListingResponse(updated), nil
}

// SetStatus activa o desactiva el cultivo manualmente.
func (uc *ListingUseCase) SetStatus(ctx context.Context, s access.Session, id string, status entity.ListingStatus) (*dto.ListingResponse, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	listing, err := uc.getManaged(ctx, s, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	listing.Status = status
	return ToListingResponse(listing), nil
}

// Delete elimina el cultivo. Las ventas registradas conservan su snapshot.
func (uc *ListingUseCase) Delete(ctx context.Context, s access.Session, id string) error {
	if _, err := uc.getManaged(ctx, s, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// ListMine cultivos del agricultor de la sesión (todos los estados).
func (uc *ListingUseCase) ListMine(ctx context.Context, s access.Session, page dto.PageRequest) (*dto.ListingListResponse, error) {
	if err := access.Require(s, entity.RoleFarmer); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.list(ctx, repository.ListingFilter{FarmerID: s.UserID, Limit: page.Limit, Offset: page.Offset}, page)
}

// Marketplace cultivos activos con existencias, opcionalmente filtrados por categoría.
func (uc *ListingUseCase) Marketplace(ctx context.Context, s access.Session, category string, page dto.PageRequest) (*dto.ListingListResponse, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.list(ctx, repository.ListingFilter{
		Category:      uc.normalizeCategory(category),
		OnlyAvailable: true,
		Limit:         page.Limit,
		Offset:        page.Offset,
	}, page)
}

// ListAll todos los cultivos (admin).
func (uc *ListingUseCase) ListAll(ctx context.Context, s access.Session, page dto.PageRequest) (*dto.ListingListResponse, error) {
	if err := access.Require(s, entity.RoleAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.list(ctx, repository.ListingFilter{Limit: page.Limit, Offset: page.Offset}, page)
}

func (uc *ListingUseCase) list(ctx context.Context, f repository.ListingFilter, page dto.PageRequest) (*dto.ListingListResponse, error) {
	listings, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ListingResponse, 0, len(listings))
	for _, l := range listings {
		items = append(items, *ToListingResponse(l))
	}
	return &dto.ListingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *ListingUseCase) get(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrNotFound
	}
	return listing, nil
}

func (uc *ListingUseCase) getManaged(ctx context.Context, s access.Session, id string) (*entity.Listing, error) {
	if err := access.Require(s, entity.RoleFarmer, entity.RoleAdmin); err != nil {
		return nil, err
	}
	listing, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(s, listing) {
		return nil, domain.ErrForbidden
	}
	return listing, nil
}

// normalizeCategory "  Vegetable " → "vegetable".
// cases.Caser guarda estado: se crea uno por llamada.
func (uc *ListingUseCase) normalizeCategory(s string) string {
	return cases.Lower(language.Und).String(strings.Join(strings.Fields(s), " "))
}

// Categories catálogo de tipos de cultivo para el selector del cliente.
func (uc *ListingUseCase) Categories() []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, 0, len(entity.DefaultCategories))
	for _, c := range entity.DefaultCategories {
		out = append(out, dto.CategoryResponse{Code: c.Code, Name: c.Name})
	}
	return out
}

func canManage(s access.Session, l *entity.Listing) bool {
	return s.Role == entity.RoleAdmin || (s.Role == entity.RoleFarmer && l.OwnedBy(s.UserID))
}

func validatePrice(p decimal.Decimal) error {
	if p.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if !entity.FitsScale(p, entity.PriceScale) {
		return fmt.Errorf("%w: el precio admite como máximo %d decimales", domain.ErrInvalidInput, entity.PriceScale)
	}
	return nil
}

func validateDates(planted, harvest time.Time) error {
	if planted.IsZero() || harvest.IsZero() {
		return fmt.Errorf("%w: fechas de siembra y cosecha obligatorias", domain.ErrInvalidInput)
	}
	if harvest.Before(planted) {
		return fmt.Errorf("%w: la cosecha no puede ser anterior a la siembra", domain.ErrInvalidInput)
	}
	return nil
}

// ToListingResponse mapea un cultivo a su DTO.
func ToListingResponse(l *entity.Listing) *dto.ListingResponse {
	if l == nil {
		return nil
	}
	return &dto.ListingResponse{
		ID:          l.ID,
		FarmerID:    l.FarmerID,
		Name:        l.Name,
		Category:    l.Category,
		PlantedDate: dto.Date{Time: l.PlantedDate},
		HarvestDate: dto.Date{Time: l.HarvestDate},
		Quantity:    l.Quantity,
		Unit:        l.Unit,
		UnitPrice:   l.UnitPrice,
		Status:      string(l.Status),
		ImageURL:    l.ImageURL,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
