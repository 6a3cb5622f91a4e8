package service

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"medsales/m/domain"
	"medsales/m/internal/reconcile"
	"medsales/m/internal/store"
)

type PurchaseInput struct {
	MedicineID   int64       `json:"medicine_id" validate:"required,gt=0"`
	SupplierID   *int64      `json:"supplier_id" validate:"omitempty,gt=0"`
	Quantity     int64       `json:"quantity" validate:"required,gt=0"`
	PurchaseDate domain.Date `json:"purchase_date"`
}

type SaleInput struct {
	MedicineID int64       `json:"medicine_id" validate:"required,gt=0"`
	CustomerID *int64      `json:"customer_id" validate:"omitempty,gt=0"`
	Quantity   int64       `json:"quantity" validate:"required,gt=0"`
	SaleDate   domain.Date `json:"sale_date"`
}

type ReturnInput struct {
	SaleID     int64       `json:"sale_id" validate:"required,gt=0"`
	Quantity   int64       `json:"quantity" validate:"required,gt=0"`
	ReturnDate domain.Date `json:"return_date"`
}

// ReturnResult is a processed return with the sale it reduced and the refund owed.
type ReturnResult struct {
	Return domain.Return   `json:"return"`
	Sale   domain.Sale     `json:"sale"`
	Refund decimal.Decimal `json:"refund"`
}

// AddPurchase records a purchase, raises stock and adjusts the inventory snapshot.
func (s *Service) AddPurchase(ctx context.Context, in PurchaseInput) (domain.Purchase, error) {
	if err := s.check(in); err != nil {
		return domain.Purchase{}, err
	}
	today := s.today()
	p := domain.Purchase{
		MedicineID:   in.MedicineID,
		SupplierID:   in.SupplierID,
		Quantity:     in.Quantity,
		PurchaseDate: orToday(in.PurchaseDate, today),
	}

	err := s.run(ctx,
		func(q *store.Queries) error {
			m, err := q.GetMedicine(ctx, p.MedicineID)
			if err != nil {
				return reference(err, "medicine", p.MedicineID)
			}
			if p.SupplierID != nil {
				if _, err := q.GetSupplier(ctx, *p.SupplierID); err != nil {
					return reference(err, "supplier", *p.SupplierID)
				}
			}
			if p.Quantity > math.MaxInt64-m.Stock {
				return invalid("quantity", "would overflow stock")
			}
			if err := q.CreatePurchase(ctx, &p); err != nil {
				return err
			}
			m = reconcile.ApplyPurchase(m, p.Quantity)
			return q.UpdateMedicineStock(ctx, m.ID, m.Stock)
		},
		func(q *store.Queries) error {
			_, err := reconcile.AdjustInventory(ctx, q, p.MedicineID, p.Quantity, today)
			return err
		},
	)
	if err != nil {
		return domain.Purchase{}, s.logFailure("AddPurchase", "add purchase", in, err)
	}
	s.logger.WithFields(logrus.Fields{"purchase_id": p.ID, "medicine_id": p.MedicineID, "quantity": p.Quantity}).Info("purchase recorded")
	return p, nil
}

// AddSale records a sale when stock allows it, then adjusts the inventory
// snapshot and recomputes the sale day's financials.
func (s *Service) AddSale(ctx context.Context, in SaleInput) (domain.Sale, error) {
	if err := s.check(in); err != nil {
		return domain.Sale{}, err
	}
	today := s.today()
	sale := domain.Sale{
		MedicineID: in.MedicineID,
		CustomerID: in.CustomerID,
		Quantity:   in.Quantity,
		SaleDate:   orToday(in.SaleDate, today),
	}

	err := s.run(ctx,
		func(q *store.Queries) error {
			m, err := q.GetMedicine(ctx, sale.MedicineID)
			if err != nil {
				return reference(err, "medicine", sale.MedicineID)
			}
			if sale.CustomerID != nil {
				if _, err := q.GetCustomer(ctx, *sale.CustomerID); err != nil {
					return reference(err, "customer", *sale.CustomerID)
				}
			}
			m, total, err := reconcile.ApplySale(m, sale.Quantity)
			if err != nil {
				return err
			}
			sale.TotalPrice = total
			if err := q.CreateSale(ctx, &sale); err != nil {
				return err
			}
			return q.UpdateMedicineStock(ctx, m.ID, m.Stock)
		},
		func(q *store.Queries) error {
			_, err := reconcile.AdjustInventory(ctx, q, sale.MedicineID, -sale.Quantity, today)
			return err
		},
		func(q *store.Queries) error {
			_, err := reconcile.RecomputeFinancials(ctx, q, sale.SaleDate)
			return err
		},
	)
	if err != nil {
		return domain.Sale{}, s.logFailure("AddSale", "add sale", in, err)
	}
	s.logger.WithFields(logrus.Fields{"sale_id": sale.ID, "medicine_id": sale.MedicineID, "total": sale.TotalPrice.StringFixed(2)}).Info("sale recorded")
	return sale, nil
}

// ProcessReturn takes quantity back against a sale's remaining balance, then
// adjusts the inventory snapshot and recomputes the return day's financials.
func (s *Service) ProcessReturn(ctx context.Context, in ReturnInput) (ReturnResult, error) {
	if err := s.check(in); err != nil {
		return ReturnResult{}, err
	}
	today := s.today()
	var res ReturnResult
	res.Return = domain.Return{
		SaleID:     in.SaleID,
		Quantity:   in.Quantity,
		ReturnDate: orToday(in.ReturnDate, today),
	}

	err := s.run(ctx,
		func(q *store.Queries) error {
			sale, err := q.GetSale(ctx, res.Return.SaleID)
			if err != nil {
				return reference(err, "sale", res.Return.SaleID)
			}
			m, err := q.GetMedicine(ctx, sale.MedicineID)
			if err != nil {
				return reference(err, "medicine", sale.MedicineID)
			}
			sale, m, err = reconcile.ApplyReturn(sale, m, res.Return.Quantity)
			if err != nil {
				return err
			}
			if err := q.CreateReturn(ctx, &res.Return); err != nil {
				return err
			}
			if err := q.UpdateMedicineStock(ctx, m.ID, m.Stock); err != nil {
				return err
			}
			if err := q.UpdateSaleQuantity(ctx, sale.ID, sale.Quantity); err != nil {
				return err
			}
			res.Sale = sale
			res.Refund = reconcile.Refund(m, res.Return.Quantity)
			return nil
		},
		func(q *store.Queries) error {
			_, err := reconcile.AdjustInventory(ctx, q, res.Sale.MedicineID, res.Return.Quantity, today)
			return err
		},
		func(q *store.Queries) error {
			_, err := reconcile.RecomputeFinancials(ctx, q, res.Return.ReturnDate)
			return err
		},
	)
	if err != nil {
		return ReturnResult{}, s.logFailure("ProcessReturn", "process return", in, err)
	}
	s.logger.WithFields(logrus.Fields{"return_id": res.Return.ID, "sale_id": res.Sale.ID, "refund": res.Refund.StringFixed(2)}).Info("return processed")
	return res, nil
}

func (s *Service) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.store.Queries().ListPurchases(ctx)
}

func (s *Service) ListSales(ctx context.Context) ([]domain.SaleDetail, error) {
	return s.store.Queries().ListSaleDetails(ctx)
}
