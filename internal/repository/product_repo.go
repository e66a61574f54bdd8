package repository

import (
	"context"
	"strings"

	"go-supermarket-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	Search   string
	Category string
	Status   string
	Page     int
	Limit    int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
	FindAvailable(ctx context.Context) ([]model.POSProduct, error)
	FindLowStock(ctx context.Context, threshold int) ([]model.Product, error)

	// DecrementStock runs inside the caller's transaction.
	DecrementStock(tx *gorm.DB, id uuid.UUID, quantity, lowStockThreshold int, updatedBy string) (bool, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindAll(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Scopes(productFilterScope(filter)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := NormalizePage(filter.Page, filter.Limit)
	var products []model.Product
	err := r.db.WithContext(ctx).
		Scopes(productFilterScope(filter)).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	return products, total, err
}

func productFilterScope(filter ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(filter.Search); s != "" {
			term := "%" + strings.ToLower(s) + "%"
			db = db.Where(
				"LOWER(name) LIKE ? OR LOWER(barcode) LIKE ? OR LOWER(category) LIKE ? OR LOWER(supplier) LIKE ?",
				term, term, term, term,
			)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
		return db
	}
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update applies a column -> value map built from model.Col* names.
func (r *productRepo) Update(ctx context.Context, id uuid.UUID, changes map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", id).Update(model.ColUpdatedBy, deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

// FindAvailable lists products that can currently be sold, ordered by name.
func (r *productRepo) FindAvailable(ctx context.Context) ([]model.POSProduct, error) {
	products := []model.POSProduct{}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("id, barcode, name, selling_price, quantity_in_stock").
		Where("quantity_in_stock > 0").
		Order("name ASC").
		Scan(&products).Error
	return products, err
}

func (r *productRepo) FindLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("quantity_in_stock <= ?", threshold).
		Order("quantity_in_stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

// DecrementStock subtracts quantity from the product only when enough stock is
// left, in one statement, and re-derives the status from the new quantity.
// It reports false when no row matched: the product is missing, deleted, or
// short on stock.
func (r *productRepo) DecrementStock(tx *gorm.DB, id uuid.UUID, quantity, lowStockThreshold int, updatedBy string) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity_in_stock >= ?", id, quantity).
		Updates(map[string]interface{}{
			model.ColQuantityInStock: gorm.Expr("quantity_in_stock - ?", quantity),
			model.ColStatus: gorm.Expr(
				"CASE WHEN quantity_in_stock - ? <= 0 THEN ? WHEN quantity_in_stock - ? <= ? THEN ? ELSE ? END",
				quantity, string(model.StatusOutOfStock),
				quantity, lowStockThreshold, string(model.StatusLowStock),
				string(model.StatusInStock),
			),
			model.ColUpdatedBy: updatedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// NormalizePage clamps page to >= 1 and limit to [1, MaxPageLimit].
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
