package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Date fecha de calendario (YYYY-MM-DD) en JSON.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON acepta "YYYY-MM-DD" o RFC3339.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// MarshalJSON serializa como "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// CreateListingRequest entrada para publicar un cultivo.
type CreateListingRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"required"`
	PlantedDate Date            `json:"planted_date" validate:"required"`
	HarvestDate Date            `json:"harvest_date" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required,gt=0"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	ImageURL    string          `json:"image_url"`
}

// UpdateListingRequest entrada para editar un cultivo (campos opcionales).
type UpdateListingRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	PlantedDate *Date            `json:"planted_date"`
	HarvestDate *Date            `json:"harvest_date"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Unit        *string          `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	ImageURL    *string          `json:"image_url"`
}

// SetListingStatusRequest activa o desactiva un cultivo.
type SetListingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

// ListingResponse salida de un cultivo.
type ListingResponse struct {
	ID          string          `json:"id"`
	FarmerID    string          `json:"farmer_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	PlantedDate Date            `json:"planted_date"`
	HarvestDate Date            `json:"harvest_date"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Status      string          `json:"status"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ListingListResponse lista paginada de cultivos.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryResponse tipo de cultivo del catálogo.
type CategoryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
