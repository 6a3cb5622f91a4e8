// Package reconcile keeps medicine stock, the inventory snapshot and the daily
// financial rows consistent with purchases, sales and returns.
//
// The stock rules are pure functions over domain values; persistence is left
// to the caller. The inventory and financial reconcilers take small store
// interfaces so they run unchanged against the database or inside a transaction.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"medsales/m/domain"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrReturnExceedsSale = errors.New("return exceeds sale quantity")
)

// RuleError is a rejected stock movement. Nothing was changed.
type RuleError struct {
	Err       error
	Requested int64
	Available int64
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%v: requested %d, available %d", e.Err, e.Requested, e.Available)
}

func (e *RuleError) Unwrap() error { return e.Err }

func ApplyPurchase(m domain.Medicine, quantity int64) domain.Medicine {
	m.Stock += quantity
	return m
}

// ApplySale takes quantity out of stock and returns the frozen sale total.
func ApplySale(m domain.Medicine, quantity int64) (domain.Medicine, decimal.Decimal, error) {
	if m.Stock < quantity {
		return m, decimal.Zero, &RuleError{Err: ErrInsufficientStock, Requested: quantity, Available: m.Stock}
	}
	m.Stock -= quantity
	total := m.Price.Mul(decimal.NewFromInt(quantity)).Round(2)
	return m, total, nil
}

// ApplyReturn puts quantity back into stock and shrinks the sale in place.
// The limit is the sale's remaining quantity, not what was originally sold.
func ApplyReturn(s domain.Sale, m domain.Medicine, quantity int64) (domain.Sale, domain.Medicine, error) {
	if quantity > s.Quantity {
		return s, m, &RuleError{Err: ErrReturnExceedsSale, Requested: quantity, Available: s.Quantity}
	}
	s.Quantity -= quantity
	m.Stock += quantity
	return s, m, nil
}

// Refund is the amount owed for a return at the medicine's current price. It is
// reported to the caller and never stored.
func Refund(m domain.Medicine, quantity int64) decimal.Decimal {
	return m.Price.Mul(decimal.NewFromInt(quantity)).Round(2)
}
