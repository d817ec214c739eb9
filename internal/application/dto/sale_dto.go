package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest cantidad a comprar de un cultivo.
type PurchaseRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"required,gt=0"`
}

// SaleResponse salida de una venta / compra.
type SaleResponse struct {
	ID          string          `json:"id"`
	ListingID   string          `json:"listing_id"`
	ListingName string          `json:"listing_name"`
	FarmerID    string          `json:"farmer_id"`
	BuyerID     string          `json:"buyer_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SalesReportResponse historial de ventas de un agricultor con sus totales.
type SalesReportResponse struct {
	Items             []SaleResponse  `json:"items"`
	TotalSales        int             `json:"total_sales"`
	TotalQuantitySold decimal.Decimal `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageSale       decimal.Decimal `json:"average_sale"`
	Page              PageResponse    `json:"page"`
}

// PurchaseHistoryResponse historial de compras de un comprador.
type PurchaseHistoryResponse struct {
	Items          []SaleResponse  `json:"items"`
	TotalPurchases int             `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	Page           PageResponse    `json:"page"`
}
