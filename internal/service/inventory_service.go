package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/ws"
	"go-supermarket-pos/pkg/logger"
	"go-supermarket-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var ErrNegativePrice = errors.New("prices must not be negative")

type CreateProductRequest struct {
	Barcode         string           `json:"barcode" validate:"required,max=50"`
	Name            string           `json:"name" validate:"required,max=100"`
	Category        string           `json:"category" validate:"required,max=50"`
	QuantityInStock int              `json:"quantity_in_stock" validate:"gte=0"`
	Unit            string           `json:"unit" validate:"omitempty,max=20"`
	BuyingPrice     *decimal.Decimal `json:"buying_price" validate:"required"`
	SellingPrice    *decimal.Decimal `json:"selling_price" validate:"required"`
	ExpiryDate      string           `json:"expiry_date" validate:"omitempty,date_ymd"`
	Supplier        string           `json:"supplier" validate:"omitempty,max=100"`
	Status          string           `json:"status" validate:"omitempty,product_status"`
	Description     string           `json:"description"`
}

// UpdateProductRequest carries only the fields the client sent. An empty
// expiry_date clears the date.
type UpdateProductRequest struct {
	Barcode         *string          `json:"barcode" validate:"omitempty,min=1,max=50"`
	Name            *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Category        *string          `json:"category" validate:"omitempty,min=1,max=50"`
	QuantityInStock *int             `json:"quantity_in_stock" validate:"omitempty,gte=0"`
	Unit            *string          `json:"unit" validate:"omitempty,max=20"`
	BuyingPrice     *decimal.Decimal `json:"buying_price"`
	SellingPrice    *decimal.Decimal `json:"selling_price"`
	ExpiryDate      *string          `json:"expiry_date" validate:"omitempty,date_ymd"`
	Supplier        *string          `json:"supplier" validate:"omitempty,max=100"`
	Status          *string          `json:"status" validate:"omitempty,product_status"`
	Description     *string          `json:"description"`
}

type ProductListResponse struct {
	Count      int             `json:"count"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int64           `json:"total_pages"`
	Products   []model.Product `json:"products"`
}

type TransactionListResponse struct {
	Count        int                 `json:"count"`
	Total        int64               `json:"total"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
	Transactions []model.Transaction `json:"transactions"`
}

type InventoryService interface {
	CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter) (*ProductListResponse, error)
	ListTransactions(ctx context.Context, page, limit int) (*TransactionListResponse, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
}

type inventoryService struct {
	productRepo       repository.ProductRepository
	transactionRepo   repository.TransactionRepository
	wsHub             *ws.Hub
	cache             CatalogCache
	lowStockThreshold int
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, hub *ws.Hub, cache CatalogCache, lowStockThreshold int) InventoryService {
	return &inventoryService{
		productRepo:       pRepo,
		transactionRepo:   tRepo,
		wsHub:             hub,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *CreateProductRequest, actor Actor) (*model.Product, error) {
	// 1. Validasi Struct Dasar
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if req.BuyingPrice.IsNegative() || req.SellingPrice.IsNegative() {
		return nil, ErrNegativePrice
	}

	// 2. Cek Duplikasi Barcode
	if err := s.ensureBarcodeFree(ctx, req.Barcode, uuid.Nil); err != nil {
		return nil, err
	}

	product := &model.Product{
		Barcode:         req.Barcode,
		Name:            req.Name,
		Category:        req.Category,
		QuantityInStock: req.QuantityInStock,
		Unit:            req.Unit,
		BuyingPrice:     *req.BuyingPrice,
		SellingPrice:    *req.SellingPrice,
		Supplier:        req.Supplier,
		Description:     req.Description,
	}
	if product.Unit == "" {
		product.Unit = "piece"
	}
	if req.ExpiryDate != "" {
		expiry, _ := time.Parse(dateLayout, req.ExpiryDate)
		product.ExpiryDate = &expiry
	}
	if req.Status != "" {
		product.Status = model.StockStatus(req.Status)
	} else {
		product.Status = model.StatusFor(product.QuantityInStock, s.lowStockThreshold)
	}

	// 3. Set Audit Fields
	product.CreatedBy = actor.ID.String()
	product.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateBarcode
		}
		return nil, err
	}

	s.productChanged(product, "product_created", actor, fmt.Sprintf("%s created product '%s'", actor.Name, product.Name))
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest, actor Actor) (*model.Product, error) {
	if err := validator.FirstError(req); err != nil {
		return nil, err
	}
	if (req.BuyingPrice != nil && req.BuyingPrice.IsNegative()) || (req.SellingPrice != nil && req.SellingPrice.IsNegative()) {
		return nil, ErrNegativePrice
	}

	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	changes := productChanges(req)
	if len(changes) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if req.Barcode != nil && *req.Barcode != existing.Barcode {
		if err := s.ensureBarcodeFree(ctx, *req.Barcode, id); err != nil {
			return nil, err
		}
	}
	// Status follows quantity unless the client set it.
	if req.QuantityInStock != nil && req.Status == nil {
		changes[model.ColStatus] = string(model.StatusFor(*req.QuantityInStock, s.lowStockThreshold))
	}
	changes[model.ColUpdatedBy] = actor.ID.String()

	if err := s.productRepo.Update(ctx, id, changes); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrProductNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrDuplicateBarcode
		}
		return nil, err
	}

	updated, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.productChanged(updated, "product_updated", actor, fmt.Sprintf("%s updated product '%s'", actor.Name, updated.Name))
	return updated, nil
}

// productChanges resolves the present fields of req into fixed column names.
func productChanges(req *UpdateProductRequest) map[string]interface{} {
	changes := map[string]interface{}{}
	if req.Barcode != nil {
		changes[model.ColBarcode] = *req.Barcode
	}
	if req.Name != nil {
		changes[model.ColName] = *req.Name
	}
	if req.Category != nil {
		changes[model.ColCategory] = *req.Category
	}
	if req.QuantityInStock != nil {
		changes[model.ColQuantityInStock] = *req.QuantityInStock
	}
	if req.Unit != nil {
		changes[model.ColUnit] = *req.Unit
	}
	if req.BuyingPrice != nil {
		changes[model.ColBuyingPrice] = *req.BuyingPrice
	}
	if req.SellingPrice != nil {
		changes[model.ColSellingPrice] = *req.SellingPrice
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			changes[model.ColExpiryDate] = nil
		} else {
			expiry, _ := time.Parse(dateLayout, *req.ExpiryDate)
			changes[model.ColExpiryDate] = expiry
		}
	}
	if req.Supplier != nil {
		changes[model.ColSupplier] = *req.Supplier
	}
	if req.Status != nil {
		changes[model.ColStatus] = *req.Status
	}
	if req.Description != nil {
		changes[model.ColDescription] = *req.Description
	}
	return changes
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	existing, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Delete(ctx, id, actor.ID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.productChanged(existing, "product_deleted", actor, fmt.Sprintf("%s deleted product '%s'", actor.Name, existing.Name))
	return nil
}

func (s *inventoryService) ensureBarcodeFree(ctx context.Context, barcode string, self uuid.UUID) error {
	existing, err := s.productRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return ErrDuplicateBarcode
	}
	return nil
}

func (s *inventoryService) productChanged(p *model.Product, action string, actor Actor, message string) {
	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.cache.Delete(ctx, CatalogCacheKey); err != nil {
			logger.Warn("failed to invalidate POS catalog cache: %v", err)
		}
		cancel()
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: action,
		Data: map[string]interface{}{
			"id":                p.ID,
			"barcode":           p.Barcode,
			"name":              p.Name,
			"quantity_in_stock": p.QuantityInStock,
			"status":            p.Status,
			"selling_price":     p.SellingPrice,
		},
		User:    actor.wsActor(),
		Message: message,
	})
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	return product, err
}

func (s *inventoryService) ListProducts(ctx context.Context, filter repository.ProductFilter) (*ProductListResponse, error) {
	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}

	page, limit := repository.NormalizePage(filter.Page, filter.Limit)

	return &ProductListResponse{
		Count:      len(products),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		Products:   products,
	}, nil
}

func (s *inventoryService) ListTransactions(ctx context.Context, page, limit int) (*TransactionListResponse, error) {
	transactions, total, err := s.transactionRepo.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}
	page, limit = repository.NormalizePage(page, limit)
	return &TransactionListResponse{
		Count:        len(transactions),
		Total:        total,
		Page:         page,
		Limit:        limit,
		Transactions: transactions,
	}, nil
}

func (s *inventoryService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	return transaction, err
}
