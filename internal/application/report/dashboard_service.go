package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appsales "github.com/smartpos/backend/internal/application/sales"
	"github.com/smartpos/backend/internal/domain/catalog"
	"github.com/smartpos/backend/internal/domain/inventory"
	"github.com/smartpos/backend/internal/domain/partner"
	"github.com/smartpos/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// DashboardResponse is the shop's front-page snapshot
type DashboardResponse struct {
	TodaySales      decimal.Decimal          `json:"today_sales"`
	TodayCount      int64                    `json:"today_count"`
	MonthSales      decimal.Decimal          `json:"month_sales"`
	MonthCount      int64                    `json:"month_count"`
	ActiveProducts  int64                    `json:"active_products"`
	ActiveCustomers int64                    `json:"active_customers"`
	LowStockCount   int64                    `json:"low_stock_count"`
	RecentSales     []appsales.SaleResponse  `json:"recent_sales"`
	GeneratedAt     time.Time                `json:"generated_at"`
}

const recentSalesLimit = 5

// DashboardService aggregates the shop's headline numbers. Day and month
// boundaries are computed in the configured shop timezone, not UTC.
type DashboardService struct {
	saleRepo      sales.SaleRepository
	productRepo   catalog.ProductRepository
	customerRepo  partner.CustomerRepository
	inventoryRepo inventory.InventoryRepository
	location      *time.Location
	logger        *zap.Logger
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	saleRepo sales.SaleRepository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	inventoryRepo inventory.InventoryRepository,
	location *time.Location,
	logger *zap.Logger,
) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		inventoryRepo: inventoryRepo,
		location:      location,
		logger:        logger,
		now:           time.Now,
	}
}

// GetStats assembles the dashboard snapshot for a shop
func (s *DashboardService) GetStats(ctx context.Context, shopID uuid.UUID) (*DashboardResponse, error) {
	now := s.now().In(s.location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.location)
	monthEnd := monthStart.AddDate(0, 1, 0)

	todaySales, err := s.saleRepo.SumTotalBetween(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	todayCount, err := s.saleRepo.CountBetween(ctx, shopID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	monthSales, err := s.saleRepo.SumTotalBetween(ctx, shopID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	monthCount, err := s.saleRepo.CountBetween(ctx, shopID, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	activeProducts, err := s.productRepo.CountActive(ctx, shopID)
	if err != nil {
		return nil, err
	}
	activeCustomers, err := s.customerRepo.CountActive(ctx, shopID)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.inventoryRepo.CountBelowMinimum(ctx, shopID)
	if err != nil {
		return nil, err
	}

	recent, err := s.saleRepo.FindRecent(ctx, shopID, recentSalesLimit)
	if err != nil {
		return nil, err
	}
	recentResponses := make([]appsales.SaleResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, *appsales.ToSaleResponse(&recent[i]))
	}

	return &DashboardResponse{
		TodaySales:      todaySales,
		TodayCount:      todayCount,
		MonthSales:      monthSales,
		MonthCount:      monthCount,
		ActiveProducts:  activeProducts,
		ActiveCustomers: activeCustomers,
		LowStockCount:   lowStock,
		RecentSales:     recentResponses,
		GeneratedAt:     now,
	}, nil
}
