package reconcile

import (
	"context"
	"errors"
	"fmt"

	"medsales/m/domain"
	"medsales/m/internal/store"
)

type InventoryStore interface {
	InventoryByMedicine(ctx context.Context, medicineID int64) (domain.Inventory, error)
	CreateInventory(ctx context.Context, inv *domain.Inventory) error
	UpdateInventory(ctx context.Context, inv domain.Inventory) error
}

// AdjustInventory applies delta to the medicine's snapshot. A medicine with no
// snapshot yet gets one holding exactly delta.
func AdjustInventory(ctx context.Context, st InventoryStore, medicineID, delta int64, today domain.Date) (domain.Inventory, error) {
	inv, err := st.InventoryByMedicine(ctx, medicineID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		inv = domain.Inventory{MedicineID: medicineID, Quantity: delta, LastUpdated: today}
		if err := st.CreateInventory(ctx, &inv); err != nil {
			return domain.Inventory{}, fmt.Errorf("adjust inventory: %w", err)
		}
		return inv, nil
	case err != nil:
		return domain.Inventory{}, fmt.Errorf("adjust inventory: %w", err)
	}

	inv.Quantity += delta
	inv.LastUpdated = today
	if err := st.UpdateInventory(ctx, inv); err != nil {
		return domain.Inventory{}, fmt.Errorf("adjust inventory: %w", err)
	}
	return inv, nil
}
