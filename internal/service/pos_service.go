package service

import (
	"context"
	"fmt"
	"time"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/ws"
	"go-supermarket-pos/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogCacheKey holds the JSON-encoded POS catalog.
const CatalogCacheKey = "pos:catalog"

// CatalogCache is the subset of the redis client the services use.
// A nil CatalogCache disables caching.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Actor is the authenticated user performing a call.
type Actor struct {
	ID       uuid.UUID
	Username string
	Name     string
}

func (a Actor) wsActor() *ws.Actor {
	return &ws.Actor{ID: a.ID.String(), Username: a.Username, Name: a.Name}
}

type SaleItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// SaleRequest is one POS checkout. WorkerID, TotalAmount and PaymentMethod are
// stored as given; a nil WorkerID falls back to the acting user.
type SaleRequest struct {
	WorkerID      uuid.UUID       `json:"worker_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Items         []SaleItem      `json:"items"`
}

type CatalogResponse struct {
	Products []model.POSProduct `json:"products"`
}

type POSService interface {
	RecordSale(ctx context.Context, req SaleRequest, actor Actor) (*model.Transaction, error)
	Catalog(ctx context.Context) (*CatalogResponse, error)
}

type POSOptions struct {
	LowStockThreshold int
	CatalogTTL        time.Duration
}

type posService struct {
	db              *gorm.DB
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	wsHub           *ws.Hub
	cache           CatalogCache
	opts            POSOptions
}

func NewPOSService(db *gorm.DB, pRepo repository.ProductRepository, tRepo repository.TransactionRepository, hub *ws.Hub, cache CatalogCache, opts POSOptions) POSService {
	return &posService{
		db:              db,
		productRepo:     pRepo,
		transactionRepo: tRepo,
		wsHub:           hub,
		cache:           cache,
		opts:            opts,
	}
}

func validateSale(req SaleRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyLineItems
	}
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return fmt.Errorf("%w: item %d has no product_id", ErrInvalidLineItem, i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be greater than 0", ErrInvalidLineItem, i)
		}
	}
	return nil
}

// RecordSale writes the transaction header and its lines and deducts stock for
// every line, all in one store transaction. Either every line is recorded and
// deducted or the store is left untouched.
func (s *posService) RecordSale(ctx context.Context, req SaleRequest, actor Actor) (*model.Transaction, error) {
	if err := validateSale(req); err != nil {
		return nil, err
	}
	if req.WorkerID == uuid.Nil {
		req.WorkerID = actor.ID
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	header := &model.Transaction{
		WorkerID:      req.WorkerID,
		TotalAmount:   req.TotalAmount,
		PaymentMethod: req.PaymentMethod,
	}
	if err := s.transactionRepo.CreateHeader(tx, header); err != nil {
		return nil, &StoreError{Op: "insert transaction", Err: err}
	}

	updatedBy := actor.ID.String()
	header.Items = make([]model.TransactionItem, 0, len(req.Items))
	for _, line := range req.Items {
		item := model.TransactionItem{
			TransactionID: header.ID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
		}
		if err := s.transactionRepo.CreateItem(tx, &item); err != nil {
			return nil, &StoreError{Op: "insert transaction item", Err: err}
		}

		ok, err := s.productRepo.DecrementStock(tx, line.ProductID, line.Quantity, s.opts.LowStockThreshold, updatedBy)
		if err != nil {
			return nil, &StoreError{Op: "decrement stock", Err: err}
		}
		if !ok {
			return nil, &InsufficientStockError{ProductID: line.ProductID}
		}
		header.Items = append(header.Items, item)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, &StoreError{Op: "commit", Err: err}
	}
	committed = true

	s.afterSale(header, actor)
	return header, nil
}

// afterSale runs only once the sale is durable.
func (s *posService) afterSale(sale *model.Transaction, actor Actor) {
	s.invalidateCatalog()

	lines := make([]map[string]interface{}, 0, len(sale.Items))
	for _, item := range sale.Items {
		lines = append(lines, map[string]interface{}{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
		})
	}
	s.wsHub.Publish(ws.Event{
		Type:   ws.EventSaleRecorded,
		Action: "transaction_created",
		Data: map[string]interface{}{
			"transaction_id": sale.ID,
			"worker_id":      sale.WorkerID,
			"total_amount":   sale.TotalAmount,
			"payment_method": sale.PaymentMethod,
			"items":          lines,
		},
		User:    actor.wsActor(),
		Message: fmt.Sprintf("%s recorded a sale of %d line(s)", actor.Name, len(sale.Items)),
	})
}

func (s *posService) invalidateCatalog() {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, CatalogCacheKey); err != nil {
		logger.Warn("failed to invalidate POS catalog cache: %v", err)
	}
}

// Catalog lists the products a till can sell, from the cache when possible.
func (s *posService) Catalog(ctx context.Context) (*CatalogResponse, error) {
	if s.cache != nil {
		var cached CatalogResponse
		hit, err := s.cache.GetJSON(ctx, CatalogCacheKey, &cached)
		if err != nil {
			logger.Warn("POS catalog cache read failed: %v", err)
		} else if hit {
			return &cached, nil
		}
	}

	products, err := s.productRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}
	resp := &CatalogResponse{Products: products}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, CatalogCacheKey, resp, s.opts.CatalogTTL); err != nil {
			logger.Warn("POS catalog cache write failed: %v", err)
		}
	}
	return resp, nil
}
