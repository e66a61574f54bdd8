package service

import (
	"context"
	"fmt"
	"time"

	"go-supermarket-pos/internal/model"
	"go-supermarket-pos/internal/repository"
	"go-supermarket-pos/internal/ws"
	"go-supermarket-pos/pkg/logger"

	"github.com/robfig/cron/v3"
)

type LowStockItem struct {
	ID              string            `json:"id"`
	Barcode         string            `json:"barcode"`
	Name            string            `json:"name"`
	QuantityInStock int               `json:"quantity_in_stock"`
	Status          model.StockStatus `json:"status"`
}

// AlertService periodically broadcasts products at or below the low-stock
// threshold.
type AlertService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
	threshold   int
	cron        *cron.Cron
}

func NewAlertService(productRepo repository.ProductRepository, hub *ws.Hub, threshold int) *AlertService {
	return &AlertService{
		productRepo: productRepo,
		wsHub:       hub,
		threshold:   threshold,
		cron:        cron.New(cron.WithSeconds()),
	}
}

// Start schedules Scan with a six-field cron spec. An empty spec leaves the
// job disabled.
func (s *AlertService) Start(spec string) error {
	if spec == "" {
		logger.Info("Low-stock alert job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.Scan(ctx); err != nil {
			logger.Error("Low-stock scan failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid alert schedule %q: %w", spec, err)
	}
	s.cron.Start()
	logger.Info("Low-stock alert job scheduled (%s)", spec)
	return nil
}

// Stop waits for a running scan to finish.
func (s *AlertService) Stop() {
	<-s.cron.Stop().Done()
}

// Scan broadcasts one low_stock_alert listing every low-stock product and
// returns them. Nothing is sent when no product is low.
func (s *AlertService) Scan(ctx context.Context) ([]LowStockItem, error) {
	products, err := s.productRepo.FindLowStock(ctx, s.threshold)
	if err != nil {
		return nil, err
	}

	items := make([]LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, LowStockItem{
			ID:              p.ID.String(),
			Barcode:         p.Barcode,
			Name:            p.Name,
			QuantityInStock: p.QuantityInStock,
			Status:          p.Status,
		})
	}
	if len(items) == 0 {
		return items, nil
	}

	s.wsHub.Publish(ws.Event{
		Type:    ws.EventLowStockAlert,
		Data:    items,
		Message: fmt.Sprintf("%d product(s) at or below %d units", len(items), s.threshold),
	})
	return items, nil
}
