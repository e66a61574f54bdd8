package service

import (
	"context"
	"time"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
)

const (
	DefaultSalesDays = 7
	MaxSalesDays     = 366
)

type DashboardService interface {
	GetDailySales(ctx context.Context, days int) ([]repository.DailySalesData, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetLowStock(ctx context.Context) ([]model.Product, error)
}

type dashboardService struct {
	txRepo            repository.TransactionRepository
	productRepo       repository.ProductRepository
	lowStockThreshold int
	now               func() time.Time
}

func NewDashboardService(txRepo repository.TransactionRepository, productRepo repository.ProductRepository, lowStockThreshold int) DashboardService {
	return &dashboardService{
		txRepo:            txRepo,
		productRepo:       productRepo,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *dashboardService) GetDailySales(ctx context.Context, days int) ([]repository.DailySalesData, error) {
	if days < 1 {
		days = DefaultSalesDays
	}
	if days > MaxSalesDays {
		days = MaxSalesDays
	}
	endDate := s.now()
	startDate := startOfDay(endDate).AddDate(0, 0, -(days - 1))

	sales, err := s.txRepo.GetDailySales(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if sales == nil {
		sales = []repository.DailySalesData{}
	}
	return sales, nil
}

// GetDashboardStats reports sales since local midnight.
func (s *dashboardService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats(ctx, s.lowStockThreshold, startOfDay(s.now()))
}

func (s *dashboardService) GetLowStock(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.FindLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
