package dto

import "github.com/shopspring/decimal"

// FarmerDashboardDTO respuesta de GET /api/dashboard/farmer.
type FarmerDashboardDTO struct {
	TotalListings  int             `json:"total_listings"`
	ActiveListings int             `json:"active_listings"`
	TotalSales     int             `json:"total_sales"`
	Revenue        decimal.Decimal `json:"revenue"`
	UnreadMessages int             `json:"unread_messages"`
}

// BuyerDashboardDTO respuesta de GET /api/dashboard/buyer.
type BuyerDashboardDTO struct {
	TotalPurchases    int             `json:"total_purchases"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AvailableListings int             `json:"available_listings"`
	UnreadMessages    int             `json:"unread_messages"`
}

// AdminDashboardDTO respuesta de GET /api/dashboard/admin.
type AdminDashboardDTO struct {
	UsersByRole    map[string]int  `json:"users_by_role"`
	TotalListings  int             `json:"total_listings"`
	ActiveListings int             `json:"active_listings"`
	TotalSales     int             `json:"total_sales"`
	Revenue        decimal.Decimal `json:"revenue"`
}
