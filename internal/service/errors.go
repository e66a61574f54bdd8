package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyLineItems    = errors.New("sale has no line items")
	ErrInvalidLineItem   = errors.New("invalid line item")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrStore             = errors.New("store error")

	ErrProductNotFound     = errors.New("product not found")
	ErrDuplicateBarcode    = errors.New("Product with this barcode already exists")
	ErrNoFieldsToUpdate    = errors.New("No valid fields to update")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// InsufficientStockError names the product whose conditional decrement
// matched no row.
type InsufficientStockError struct {
	ProductID uuid.UUID
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductID)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// StoreError wraps an unexpected failure of the store during Op.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// IsBadRequest reports whether err is a client mistake in a sale request.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrEmptyLineItems) ||
		errors.Is(err, ErrInvalidLineItem) ||
		errors.Is(err, ErrInsufficientStock)
}
