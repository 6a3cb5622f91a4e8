package store

import (
	"context"
	"fmt"

	"medsales/m/domain"
)

const financialColumns = `id, date, total_sales, total_purchases, net_profit`

func (q *Queries) InventoryByMedicine(ctx context.Context, medicineID int64) (domain.Inventory, error) {
	var inv domain.Inventory
	if err := q.get(ctx, &inv, `SELECT id, medicine_id, quantity, last_updated FROM inventory WHERE medicine_id = ?`, medicineID); err != nil {
		return domain.Inventory{}, fmt.Errorf("get inventory for medicine %d: %w", medicineID, err)
	}
	return inv, nil
}

func (q *Queries) CreateInventory(ctx context.Context, inv *domain.Inventory) error {
	id, err := q.insert(ctx, `INSERT INTO inventory (medicine_id, quantity, last_updated) VALUES (?, ?, ?)`,
		inv.MedicineID, inv.Quantity, inv.LastUpdated)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}
	inv.ID = id
	return nil
}

func (q *Queries) UpdateInventory(ctx context.Context, inv domain.Inventory) error {
	if err := q.execOne(ctx, `UPDATE inventory SET quantity = ?, last_updated = ? WHERE id = ?`,
		inv.Quantity, inv.LastUpdated, inv.ID); err != nil {
		return fmt.Errorf("update inventory %d: %w", inv.ID, err)
	}
	return nil
}

// InventoryLines lists every medicine with its snapshot, if any.
func (q *Queries) InventoryLines(ctx context.Context) ([]domain.InventoryLine, error) {
	lines := []domain.InventoryLine{}
	err := q.selectAll(ctx, &lines, `SELECT m.id AS medicine_id, m.name, m.price, m.stock,
                i.quantity AS inventory_quantity, i.last_updated
                FROM medicines m
                LEFT JOIN inventory i ON i.medicine_id = m.id
                ORDER BY m.id`)
	if err != nil {
		return nil, fmt.Errorf("list inventory lines: %w", err)
	}
	return lines, nil
}

func (q *Queries) FinancialByDate(ctx context.Context, date domain.Date) (domain.Financial, error) {
	var f domain.Financial
	if err := q.get(ctx, &f, `SELECT `+financialColumns+` FROM financials WHERE date = ?`, date); err != nil {
		return domain.Financial{}, fmt.Errorf("get financial %s: %w", date, err)
	}
	return f, nil
}

func (q *Queries) CreateFinancial(ctx context.Context, f *domain.Financial) error {
	id, err := q.insert(ctx, `INSERT INTO financials (date, total_sales, total_purchases, net_profit) VALUES (?, ?, ?, ?)`,
		f.Date, f.TotalSales, f.TotalPurchases, f.NetProfit)
	if err != nil {
		return fmt.Errorf("insert financial %s: %w", f.Date, err)
	}
	f.ID = id
	return nil
}

func (q *Queries) UpdateFinancial(ctx context.Context, f domain.Financial) error {
	if err := q.execOne(ctx, `UPDATE financials SET total_sales = ?, net_profit = ? WHERE id = ?`,
		f.TotalSales, f.NetProfit, f.ID); err != nil {
		return fmt.Errorf("update financial %s: %w", f.Date, err)
	}
	return nil
}

// ListFinancials lists daily rows; zero from/to leave that side open.
func (q *Queries) ListFinancials(ctx context.Context, from, to domain.Date) ([]domain.Financial, error) {
	query := `SELECT ` + financialColumns + ` FROM financials WHERE 1 = 1`
	var args []any
	if !from.IsZero() {
		query += ` AND date >= ?`
		args = append(args, from)
	}
	if !to.IsZero() {
		query += ` AND date <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY date`

	rows := []domain.Financial{}
	if err := q.selectAll(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list financials: %w", err)
	}
	return rows, nil
}
