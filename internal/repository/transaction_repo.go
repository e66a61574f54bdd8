package repository

import (
	"context"
	"time"

	"go-supermarket-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	// CreateHeader and CreateItem run inside the caller's transaction.
	CreateHeader(tx *gorm.DB, header *model.Transaction) error
	CreateItem(tx *gorm.DB, item *model.TransactionItem) error

	FindAll(ctx context.Context, page, limit int) ([]model.Transaction, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	GetDailySales(ctx context.Context, startDate, endDate time.Time) ([]DailySalesData, error)
	GetDashboardStats(ctx context.Context, lowStockThreshold int, salesSince time.Time) (*DashboardStats, error)
}

// DailySalesData untuk chart data
type DailySalesData struct {
	Date      string          `json:"date"`
	Sales     int64           `json:"sales"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts   int64           `json:"total_products"`
	LowStockCount   int64           `json:"low_stock_count"`
	OutOfStockCount int64           `json:"out_of_stock_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
	SalesCount      int64           `json:"sales_count"`
	Revenue         decimal.Decimal `json:"revenue"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) CreateHeader(tx *gorm.DB, header *model.Transaction) error {
	return tx.Omit(clause.Associations).Create(header).Error
}

func (r *transactionRepo) CreateItem(tx *gorm.DB, item *model.TransactionItem) error {
	return tx.Omit(clause.Associations).Create(item).Error
}

func (r *transactionRepo) FindAll(ctx context.Context, page, limit int) ([]model.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = NormalizePage(page, limit)
	var transactions []model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("transaction_date DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("Items").
		// Sold products stay visible after they are soft-deleted from the catalogue
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) GetDailySales(ctx context.Context, startDate, endDate time.Time) ([]DailySalesData, error) {
	type headerRow struct {
		Date    string
		Sales   int64
		Revenue decimal.Decimal
	}
	type unitRow struct {
		Date  string
		Units int64
	}

	var headers []headerRow
	err := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(`
			CAST(DATE(transaction_date) AS TEXT) as date,
			COUNT(*) as sales,
			COALESCE(SUM(total_amount), 0) as revenue
		`).
		Where("transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transaction_date)").
		Order("date ASC").
		Scan(&headers).Error
	if err != nil {
		return nil, err
	}

	var units []unitRow
	err = r.db.WithContext(ctx).Table("transaction_items AS ti").
		Select(`
			CAST(DATE(t.transaction_date) AS TEXT) as date,
			COALESCE(SUM(ti.quantity), 0) as units
		`).
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Where("t.transaction_date BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(t.transaction_date)").
		Scan(&units).Error
	if err != nil {
		return nil, err
	}

	unitsByDate := make(map[string]int64, len(units))
	for _, u := range units {
		unitsByDate[u.Date] = u.Units
	}

	results := make([]DailySalesData, 0, len(headers))
	for _, h := range headers {
		results = append(results, DailySalesData{
			Date:      h.Date,
			Sales:     h.Sales,
			UnitsSold: unitsByDate[h.Date],
			Revenue:   h.Revenue,
		})
	}
	return results, nil
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context, lowStockThreshold int, salesSince time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Product{}).
		Where("quantity_in_stock > 0 AND quantity_in_stock <= ?", lowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Product{}).
		Where("quantity_in_stock <= 0").
		Count(&stats.OutOfStockCount).Error; err != nil {
		return nil, err
	}

	// Stock valuation at cost
	if err := db.Model(&model.Product{}).
		Select("COALESCE(SUM(quantity_in_stock * buying_price), 0)").
		Row().Scan(&stats.StockValuation); err != nil {
		return nil, err
	}

	if err := db.Model(&model.Transaction{}).
		Where("transaction_date >= ?", salesSince).
		Count(&stats.SalesCount).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&model.Transaction{}).
		Where("transaction_date >= ?", salesSince).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&stats.Revenue); err != nil {
		return nil, err
	}

	return &stats, nil
}
