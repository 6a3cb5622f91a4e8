package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"medsales/m/domain"
	"medsales/m/internal/store"
)

type FinancialStore interface {
	SalesBetween(ctx context.Context, from, to domain.Date) ([]domain.Sale, error)
	ReturnDetailsBetween(ctx context.Context, from, to domain.Date) ([]domain.ReturnDetail, error)
	FinancialByDate(ctx context.Context, date domain.Date) (domain.Financial, error)
	CreateFinancial(ctx context.Context, f *domain.Financial) error
	UpdateFinancial(ctx context.Context, f domain.Financial) error
}

// SalesTotal sums the frozen totals of sales.
func SalesTotal(sales []domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalPrice)
	}
	return total.Round(2)
}

// ReturnsTotal values each return at its sale's current total over current
// quantity. Earlier returns shrink the quantity, so later returns against the
// same sale are valued at a higher unit price. Emptied sales contribute nothing.
func ReturnsTotal(returns []domain.ReturnDetail) decimal.Decimal {
	total := decimal.Zero
	for _, r := range returns {
		if r.SaleQuantity == 0 {
			continue
		}
		unit := r.SaleTotal.Div(decimal.NewFromInt(r.SaleQuantity))
		total = total.Add(unit.Mul(decimal.NewFromInt(r.Quantity)))
	}
	return total.Round(2)
}

// RecomputeFinancials rebuilds the financial row for date from every sale and
// return dated that day and stores it.
func RecomputeFinancials(ctx context.Context, st FinancialStore, date domain.Date) (domain.Financial, error) {
	sales, err := st.SalesBetween(ctx, date, date)
	if err != nil {
		return domain.Financial{}, fmt.Errorf("recompute financials %s: %w", date, err)
	}
	returns, err := st.ReturnDetailsBetween(ctx, date, date)
	if err != nil {
		return domain.Financial{}, fmt.Errorf("recompute financials %s: %w", date, err)
	}

	totalSales := SalesTotal(sales)
	net := totalSales.Sub(ReturnsTotal(returns))

	f, err := st.FinancialByDate(ctx, date)
	switch {
	case errors.Is(err, store.ErrNotFound):
		f = domain.Financial{Date: date, TotalSales: totalSales, TotalPurchases: decimal.Zero, NetProfit: net}
		if err := st.CreateFinancial(ctx, &f); err != nil {
			return domain.Financial{}, fmt.Errorf("recompute financials %s: %w", date, err)
		}
		return f, nil
	case err != nil:
		return domain.Financial{}, fmt.Errorf("recompute financials %s: %w", date, err)
	}

	f.TotalSales = totalSales
	f.NetProfit = net
	if err := st.UpdateFinancial(ctx, f); err != nil {
		return domain.Financial{}, fmt.Errorf("recompute financials %s: %w", date, err)
	}
	return f, nil
}
