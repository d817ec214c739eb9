// Package analytics contiene los casos de uso de los tableros de cada rol.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

// DashboardUseCase genera los resúmenes de los tableros de agricultor, comprador y admin.
//
// Fuente de datos: repositorios de solo lectura. Cada tablero lanza sus consultas en paralelo.
type DashboardUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	saleRepo    repository.SaleRepository
	messageRepo repository.MessageRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	saleRepo repository.SaleRepository,
	messageRepo repository.MessageRepository,
) *DashboardUseCase {
	return &DashboardUseCase{userRepo: userRepo, listingRepo: listingRepo, saleRepo: saleRepo, messageRepo: messageRepo}
}

type countResult struct {
	n   int
	err error
}

type totalsResult struct {
	totals repository.SalesTotals
	err    error
}

// Farmer resumen del agricultor de la sesión.
//
// Cuatro llamadas en paralelo:
//  1. Count(farmer)              → TotalListings
//  2. Count(farmer, disponibles) → ActiveListings
//  3. Totals(farmer)             → TotalSales + Revenue
//  4. CountUnread                → UnreadMessages
func (uc *DashboardUseCase) Farmer(ctx context.Context, s access.Session) (*dto.FarmerDashboardDTO, error) {
	if err := access.Require(s, entity.RoleFarmer); err != nil {
		return nil, err
	}

	totalCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	salesCh := make(chan totalsResult, 1)
	unreadCh := make(chan countResult, 1)

	go func() {
		n, err := uc.listingRepo.Count(ctx, repository.ListingFilter{FarmerID: s.UserID})
		totalCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.listingRepo.Count(ctx, repository.ListingFilter{FarmerID: s.UserID, OnlyAvailable: true})
		activeCh <- countResult{n, err}
	}()
	go func() {
		t, err := uc.saleRepo.Totals(ctx, s.UserID, "")
		salesCh <- totalsResult{t, err}
	}()
	go func() {
		n, err := uc.messageRepo.CountUnread(ctx, s.UserID)
		unreadCh <- countResult{n, err}
	}()

	total := <-totalCh
	active := <-activeCh
	sales := <-salesCh
	unread := <-unreadCh

	if total.err != nil {
		return nil, fmt.Errorf("dashboard: cultivos: %w", total.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("dashboard: cultivos activos: %w", active.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", sales.err)
	}
	if unread.err != nil {
		return nil, fmt.Errorf("dashboard: mensajes: %w", unread.err)
	}

	return &dto.FarmerDashboardDTO{
		TotalListings:  total.n,
		ActiveListings: active.n,
		TotalSales:     sales.totals.Count,
		Revenue:        sales.totals.Revenue,
		UnreadMessages: unread.n,
	}, nil
}

// Buyer resumen del comprador de la sesión.
func (uc *DashboardUseCase) Buyer(ctx context.Context, s access.Session) (*dto.BuyerDashboardDTO, error) {
	if err := access.Require(s, entity.RoleBuyer); err != nil {
		return nil, err
	}

	purchasesCh := make(chan totalsResult, 1)
	availableCh := make(chan countResult, 1)
	unreadCh := make(chan countResult, 1)

	go func() {
		t, err := uc.saleRepo.Totals(ctx, "", s.UserID)
		purchasesCh <- totalsResult{t, err}
	}()
	go func() {
		n, err := uc.listingRepo.Count(ctx, repository.ListingFilter{OnlyAvailable: true})
		availableCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.messageRepo.CountUnread(ctx, s.UserID)
		unreadCh <- countResult{n, err}
	}()

	purchases := <-purchasesCh
	available := <-availableCh
	unread := <-unreadCh

	if purchases.err != nil {
		return nil, fmt.Errorf("dashboard: compras: %w", purchases.err)
	}
	if available.err != nil {
		return nil, fmt.Errorf("dashboard: marketplace: %w", available.err)
	}
	if unread.err != nil {
		return nil, fmt.Errorf("dashboard: mensajes: %w", unread.err)
	}

	return &dto.BuyerDashboardDTO{
		TotalPurchases:    purchases.totals.Count,
		TotalSpent:        purchases.totals.Revenue,
		AvailableListings: available.n,
		UnreadMessages:    unread.n,
	}, nil
}

// Admin resumen global de la plataforma.
func (uc *DashboardUseCase) Admin(ctx context.Context, s access.Session) (*dto.AdminDashboardDTO, error) {
	if err := access.Require(s, entity.RoleAdmin); err != nil {
		return nil, err
	}

	type rolesResult struct {
		byRole map[entity.Role]int
		err    error
	}
	rolesCh := make(chan rolesResult, 1)
	totalCh := make(chan countResult, 1)
	activeCh := make(chan countResult, 1)
	salesCh := make(chan totalsResult, 1)

	go func() {
		m, err := uc.userRepo.CountByRole(ctx)
		rolesCh <- rolesResult{m, err}
	}()
	go func() {
		n, err := uc.listingRepo.Count(ctx, repository.ListingFilter{})
		totalCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.listingRepo.Count(ctx, repository.ListingFilter{OnlyAvailable: true})
		activeCh <- countResult{n, err}
	}()
	go func() {
		t, err := uc.saleRepo.Totals(ctx, "", "")
		salesCh <- totalsResult{t, err}
	}()

	roles := <-rolesCh
	total := <-totalCh
	active := <-activeCh
	sales := <-salesCh

	if roles.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", roles.err)
	}
	if total.err != nil {
		return nil, fmt.Errorf("dashboard: cultivos: %w", total.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("dashboard: cultivos activos: %w", active.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: ventas: %w", sales.err)
	}

	byRole := map[string]int{
		entity.RoleFarmer.String(): 0,
		entity.RoleBuyer.String():  0,
		entity.RoleAdmin.String():  0,
	}
	for r, n := range roles.byRole {
		byRole[r.String()] = n
	}
	return &dto.AdminDashboardDTO{
		UsersByRole:    byRole,
		TotalListings:  total.n,
		ActiveListings: active.n,
		TotalSales:     sales.totals.Count,
		Revenue:        sales.totals.Revenue,
	}, nil
}
