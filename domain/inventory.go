package domain

import "github.com/shopspring/decimal"

// Inventory is the running per-medicine quantity snapshot. It is adjusted by
// reconciliation calls and never recomputed from history.
type Inventory struct {
	ID          int64 `db:"id" json:"id"`
	MedicineID  int64 `db:"medicine_id" json:"medicine_id"`
	Quantity    int64 `db:"quantity" json:"quantity"`
	LastUpdated Date  `db:"last_updated" json:"last_updated"`
}

// InventoryLine puts a medicine's stock next to its inventory snapshot.
type InventoryLine struct {
	MedicineID        int64           `db:"medicine_id" json:"medicine_id"`
	Name              string          `db:"name" json:"name"`
	Price             decimal.Decimal `db:"price" json:"price"`
	Stock             int64           `db:"stock" json:"stock"`
	InventoryQuantity *int64          `db:"inventory_quantity" json:"inventory_quantity"`
	LastUpdated       *Date           `db:"last_updated" json:"last_updated,omitempty"`
}

// Drift is stock minus the snapshot quantity; a missing snapshot counts as zero.
func (l InventoryLine) Drift() int64 {
	if l.InventoryQuantity == nil {
		return l.Stock
	}
	return l.Stock - *l.InventoryQuantity
}
