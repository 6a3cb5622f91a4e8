package domain

import "github.com/shopspring/decimal"

type Medicine struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int64           `db:"stock" json:"stock"`
	SupplierID  *int64          `db:"supplier_id" json:"supplier_id,omitempty"`
}
