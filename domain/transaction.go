package domain

import "github.com/shopspring/decimal"

type Purchase struct {
	ID           int64  `db:"id" json:"id"`
	MedicineID   int64  `db:"medicine_id" json:"medicine_id"`
	SupplierID   *int64 `db:"supplier_id" json:"supplier_id,omitempty"`
	Quantity     int64  `db:"quantity" json:"quantity"`
	PurchaseDate Date   `db:"purchase_date" json:"purchase_date"`
}

// Sale records one sale of a medicine. TotalPrice is frozen at creation;
// Quantity shrinks in place as returns are processed against it.
type Sale struct {
	ID         int64           `db:"id" json:"id"`
	MedicineID int64           `db:"medicine_id" json:"medicine_id"`
	CustomerID *int64          `db:"customer_id" json:"customer_id,omitempty"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	SaleDate   Date            `db:"sale_date" json:"sale_date"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
}

type Return struct {
	ID         int64 `db:"id" json:"id"`
	SaleID     int64 `db:"sale_id" json:"sale_id"`
	Quantity   int64 `db:"quantity" json:"quantity"`
	ReturnDate Date  `db:"return_date" json:"return_date"`
}

// SaleDetail is a Sale joined with the names it references.
type SaleDetail struct {
	Sale
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	CustomerName *string `db:"customer_name" json:"customer_name,omitempty"`
}

// ReturnDetail is a Return joined with its Sale and the Sale's medicine.
// SaleQuantity and SaleTotal are the sale's current values.
type ReturnDetail struct {
	Return
	MedicineID    int64           `db:"medicine_id" json:"medicine_id"`
	MedicineName  string          `db:"medicine_name" json:"medicine_name"`
	MedicinePrice decimal.Decimal `db:"medicine_price" json:"medicine_price"`
	SaleQuantity  int64           `db:"sale_quantity" json:"sale_quantity"`
	SaleTotal     decimal.Decimal `db:"sale_total" json:"sale_total"`
}
