package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/farmlink-api/internal/application/dto"
	"github.com/jhoicas/farmlink-api/internal/application/marketplace"
	"github.com/jhoicas/farmlink-api/internal/domain"
	"github.com/jhoicas/farmlink-api/internal/domain/access"
	"github.com/jhoicas/farmlink-api/internal/domain/entity"
	"github.com/jhoicas/farmlink-api/internal/domain/repository"
)

// SaleUseCase consultas sobre el historial de ventas: reporte del agricultor,
// compras del comprador y comprobante PDF.
type SaleUseCase struct {
	saleRepo  repository.SaleRepository
	userRepo  repository.UserRepository
	generator ReceiptGenerator
}

// NewSaleUseCase construye el caso de uso. generator puede ser nil si no se sirven comprobantes.
func NewSaleUseCase(saleRepo repository.SaleRepository, userRepo repository.UserRepository, generator ReceiptGenerator) *SaleUseCase {
	return &SaleUseCase{saleRepo: saleRepo, userRepo: userRepo, generator: generator}
}

// SalesReport ventas del agricultor de la sesión, más recientes primero, con totales.
func (uc *SaleUseCase) SalesReport(ctx context.Context, s access.Session, page dto.PageRequest) (*dto.SalesReportResponse, error) {
	if err := access.Require(s, entity.RoleFarmer); err != nil {
		return nil, err
	}
	page.DefaultPage()
	sales, err := uc.saleRepo.ListByFarmer(ctx, s.UserID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	totals, err := uc.saleRepo.Totals(ctx, s.UserID, "")
	if err != nil {
		return nil, err
	}
	avg := decimal.Zero
	if totals.Count > 0 {
		avg = totals.Revenue.Div(decimal.NewFromInt(int64(totals.Count))).Round(2)
	}
	return &dto.SalesReportResponse{
		Items:             toSaleResponses(sales),
		TotalSales:        totals.Count,
		TotalQuantitySold: totals.Quantity,
		TotalRevenue:      totals.Revenue,
		AverageSale:       avg,
		Page:              dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: totals.Count},
	}, nil
}

// PurchaseHistory compras del comprador de la sesión, más recientes primero.
func (uc *SaleUseCase) PurchaseHistory(ctx context.Context, s access.Session, page dto.PageRequest) (*dto.PurchaseHistoryResponse, error) {
	if err := access.Require(s, entity.RoleBuyer); err != nil {
		return nil, err
	}
	page.DefaultPage()
	sales, err := uc.saleRepo.ListByBuyer(ctx, s.UserID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	totals, err := uc.saleRepo.Totals(ctx, "", s.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.PurchaseHistoryResponse{
		Items:          toSaleResponses(sales),
		TotalPurchases: totals.Count,
		TotalSpent:     totals.Revenue,
		Page:           dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: totals.Count},
	}, nil
}

// GetByID devuelve una venta si la sesión es su comprador, su vendedor o un admin.
func (uc *SaleUseCase) GetByID(ctx context.Context, s access.Session, id string) (*dto.SaleResponse, error) {
	sale, err := uc.visibleSale(ctx, s, id)
	if err != nil {
		return nil, err
	}
	return marketplace.ToSaleResponse(sale), nil
}

// Receipt genera el comprobante PDF de la venta.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la venta no existe.
//   - domain.ErrForbidden       si la sesión no participa en la venta.
func (uc *SaleUseCase) Receipt(ctx context.Context, s access.Session, id string) ([]byte, string, error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("comprobantes deshabilitados")
	}
	sale, err := uc.visibleSale(ctx, s, id)
	if err != nil {
		return nil, "", err
	}
	farmer, err := uc.userRepo.GetByID(ctx, sale.FarmerID)
	if err != nil {
		return nil, "", err
	}
	buyer, err := uc.userRepo.GetByID(ctx, sale.BuyerID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, sale, farmer, buyer)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("comprobante-%s.pdf", shortID(sale.ID)), nil
}

func (uc *SaleUseCase) visibleSale(ctx context.Context, s access.Session, id string) (*entity.Sale, error) {
	if err := access.Require(s); err != nil {
		return nil, err
	}
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if s.Role != entity.RoleAdmin && !sale.InvolvesUser(s.UserID) {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func toSaleResponses(sales []*entity.Sale) []dto.SaleResponse {
	out := make([]dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, *marketplace.ToSaleResponse(s))
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
