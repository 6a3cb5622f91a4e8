package store

import (
	"context"
	"fmt"

	"medsales/m/domain"
)

const (
	saleColumns   = `id, medicine_id, customer_id, quantity, sale_date, total_price`
	returnDetails = `SELECT r.id, r.sale_id, r.quantity, r.return_date,
                s.medicine_id, m.name AS medicine_name, m.price AS medicine_price,
                s.quantity AS sale_quantity, s.total_price AS sale_total
                FROM returns r
                JOIN sales s ON s.id = r.sale_id
                JOIN medicines m ON m.id = s.medicine_id`
)

func (q *Queries) CreatePurchase(ctx context.Context, p *domain.Purchase) error {
	id, err := q.insert(ctx, `INSERT INTO purchases (medicine_id, supplier_id, quantity, purchase_date) VALUES (?, ?, ?, ?)`,
		p.MedicineID, p.SupplierID, p.Quantity, p.PurchaseDate)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	p.ID = id
	return nil
}

func (q *Queries) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	if err := q.selectAll(ctx, &purchases, `SELECT id, medicine_id, supplier_id, quantity, purchase_date FROM purchases ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, nil
}

func (q *Queries) CreateSale(ctx context.Context, s *domain.Sale) error {
	id, err := q.insert(ctx, `INSERT INTO sales (medicine_id, customer_id, quantity, sale_date, total_price) VALUES (?, ?, ?, ?, ?)`,
		s.MedicineID, s.CustomerID, s.Quantity, s.SaleDate, s.TotalPrice)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	s.ID = id
	return nil
}

func (q *Queries) GetSale(ctx context.Context, id int64) (domain.Sale, error) {
	var s domain.Sale
	if err := q.get(ctx, &s, `SELECT `+saleColumns+` FROM sales WHERE id = ?`, id); err != nil {
		return domain.Sale{}, fmt.Errorf("get sale %d: %w", id, err)
	}
	return s, nil
}

func (q *Queries) UpdateSaleQuantity(ctx context.Context, id, quantity int64) error {
	if err := q.execOne(ctx, `UPDATE sales SET quantity = ? WHERE id = ?`, quantity, id); err != nil {
		return fmt.Errorf("update sale %d quantity: %w", id, err)
	}
	return nil
}

func (q *Queries) ListSales(ctx context.Context) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	if err := q.selectAll(ctx, &sales, `SELECT `+saleColumns+` FROM sales ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// SalesBetween lists sales dated within [from, to].
func (q *Queries) SalesBetween(ctx context.Context, from, to domain.Date) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	if err := q.selectAll(ctx, &sales, `SELECT `+saleColumns+` FROM sales WHERE sale_date >= ? AND sale_date <= ? ORDER BY id`, from, to); err != nil {
		return nil, fmt.Errorf("list sales %s..%s: %w", from, to, err)
	}
	return sales, nil
}

func (q *Queries) ListSaleDetails(ctx context.Context) ([]domain.SaleDetail, error) {
	details := []domain.SaleDetail{}
	err := q.selectAll(ctx, &details, `SELECT s.id, s.medicine_id, s.customer_id, s.quantity, s.sale_date, s.total_price,
                m.name AS medicine_name, c.name AS customer_name
                FROM sales s
                JOIN medicines m ON m.id = s.medicine_id
                LEFT JOIN customers c ON c.id = s.customer_id
                ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sale details: %w", err)
	}
	return details, nil
}

func (q *Queries) CreateReturn(ctx context.Context, r *domain.Return) error {
	id, err := q.insert(ctx, `INSERT INTO returns (sale_id, quantity, return_date) VALUES (?, ?, ?)`,
		r.SaleID, r.Quantity, r.ReturnDate)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	r.ID = id
	return nil
}

func (q *Queries) ListReturnDetails(ctx context.Context) ([]domain.ReturnDetail, error) {
	details := []domain.ReturnDetail{}
	if err := q.selectAll(ctx, &details, returnDetails+` ORDER BY r.id`); err != nil {
		return nil, fmt.Errorf("list return details: %w", err)
	}
	return details, nil
}

// ReturnDetailsBetween lists returns dated within [from, to], joined to their sale's current values.
func (q *Queries) ReturnDetailsBetween(ctx context.Context, from, to domain.Date) ([]domain.ReturnDetail, error) {
	details := []domain.ReturnDetail{}
	if err := q.selectAll(ctx, &details, returnDetails+` WHERE r.return_date >= ? AND r.return_date <= ? ORDER BY r.id`, from, to); err != nil {
		return nil, fmt.Errorf("list returns %s..%s: %w", from, to, err)
	}
	return details, nil
}
