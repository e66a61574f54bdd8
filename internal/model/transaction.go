package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the header of a POS sale. Rows are written once and never
// updated, so it carries no soft delete.
type Transaction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key;" json:"id"`
	WorkerID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"worker_id"`
	TotalAmount     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaymentMethod   string            `gorm:"type:varchar(20)" json:"payment_method"`
	TransactionDate time.Time         `gorm:"not null;index" json:"transaction_date"`
	Items           []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// TransactionItem is one sold line. It only exists as a child of a Transaction.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now()
	}
	return
}

func (i *TransactionItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
