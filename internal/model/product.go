package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type StockStatus string

const (
	StatusInStock    StockStatus = "In stock"
	StatusLowStock   StockStatus = "Low stock"
	StatusOutOfStock StockStatus = "Out of stock"
)

// Column names used by partial updates and the conditional decrement.
const (
	ColBarcode         = "barcode"
	ColName            = "name"
	ColCategory        = "category"
	ColQuantityInStock = "quantity_in_stock"
	ColUnit            = "unit"
	ColBuyingPrice     = "buying_price"
	ColSellingPrice    = "selling_price"
	ColExpiryDate      = "expiry_date"
	ColSupplier        = "supplier"
	ColStatus          = "status"
	ColDescription     = "description"
	ColUpdatedBy       = "updated_by"
)

// Product is a row of the inventory ledger.
type Product struct {
	BaseModel
	Barcode         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"barcode"`
	Name            string          `gorm:"type:varchar(100);not null;index" json:"name"`
	Category        string          `gorm:"type:varchar(50);index" json:"category"`
	QuantityInStock int             `gorm:"not null;default:0" json:"quantity_in_stock"`
	Unit            string          `gorm:"type:varchar(20);default:'piece'" json:"unit"`
	BuyingPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"buying_price"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"selling_price"`
	ExpiryDate      *time.Time      `gorm:"type:date" json:"expiry_date,omitempty"`
	Supplier        string          `gorm:"type:varchar(100)" json:"supplier"`
	Status          StockStatus     `gorm:"type:varchar(20);not null;default:'In stock'" json:"status"`
	Description     string          `gorm:"type:text" json:"description"`
}

// StatusFor derives the stock status of a quantity given the low-stock threshold.
func StatusFor(quantity, lowStockThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= lowStockThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// IsValidStatus reports whether s is one of the three ledger statuses.
func IsValidStatus(s string) bool {
	switch StockStatus(s) {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// POSProduct is the slim catalog row served to the POS terminal.
type POSProduct struct {
	ID              string          `json:"id"`
	Barcode         string          `json:"barcode"`
	Name            string          `json:"name"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	QuantityInStock int             `json:"quantity_in_stock"`
}
