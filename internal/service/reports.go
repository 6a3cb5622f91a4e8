package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"medsales/m/domain"
	"medsales/m/internal/reconcile"
	"medsales/m/internal/store"
)

// FinancialReport is the today and month-to-date view.
type FinancialReport struct {
	Today domain.PeriodSummary `json:"today"`
	Month domain.PeriodSummary `json:"month"`
}

// ReturnLine is a return as shown in the returns report, with the refund at list price.
type ReturnLine struct {
	domain.ReturnDetail
	Refund decimal.Decimal `json:"refund"`
}

type InventoryReportLine struct {
	domain.InventoryLine
	Drift int64 `json:"drift"`
}

type Dashboard struct {
	Today     domain.Date       `json:"today"`
	Financial *domain.Financial `json:"financial,omitempty"`
}

// FinancialSummary totals sales and returns for today and the month so far.
// Returns are valued at the medicine's current list price here, unlike the
// daily financial rows.
func (s *Service) FinancialSummary(ctx context.Context) (FinancialReport, error) {
	today := s.today()
	q := s.store.Queries()

	day, err := s.period(ctx, q, today, today)
	if err != nil {
		return FinancialReport{}, s.logFailure("FinancialSummary", "today", nil, err)
	}
	month, err := s.period(ctx, q, today.FirstOfMonth(), today)
	if err != nil {
		return FinancialReport{}, s.logFailure("FinancialSummary", "month to date", nil, err)
	}
	return FinancialReport{Today: day, Month: month}, nil
}

func (s *Service) period(ctx context.Context, q *store.Queries, from, to domain.Date) (domain.PeriodSummary, error) {
	sales, err := q.SalesBetween(ctx, from, to)
	if err != nil {
		return domain.PeriodSummary{}, err
	}
	returns, err := q.ReturnDetailsBetween(ctx, from, to)
	if err != nil {
		return domain.PeriodSummary{}, err
	}

	refunds := decimal.Zero
	for _, r := range returns {
		refunds = refunds.Add(r.MedicinePrice.Mul(decimal.NewFromInt(r.Quantity)))
	}
	total := reconcile.SalesTotal(sales)
	refunds = refunds.Round(2)
	return domain.PeriodSummary{From: from, To: to, Sales: total, Returns: refunds, Net: total.Sub(refunds)}, nil
}

// DailyFinancials lists the stored financial rows; zero dates leave the range open.
func (s *Service) DailyFinancials(ctx context.Context, from, to domain.Date) ([]domain.Financial, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, invalid("from", "must not be after to")
	}
	return s.store.Queries().ListFinancials(ctx, from, to)
}

func (s *Service) InventoryReport(ctx context.Context) ([]InventoryReportLine, error) {
	lines, err := s.store.Queries().InventoryLines(ctx)
	if err != nil {
		return nil, s.logFailure("InventoryReport", "inventory lines", nil, err)
	}
	out := make([]InventoryReportLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, InventoryReportLine{InventoryLine: l, Drift: l.Drift()})
	}
	return out, nil
}

func (s *Service) ReturnsReport(ctx context.Context) ([]ReturnLine, error) {
	details, err := s.store.Queries().ListReturnDetails(ctx)
	if err != nil {
		return nil, s.logFailure("ReturnsReport", "return details", nil, err)
	}
	out := make([]ReturnLine, 0, len(details))
	for _, d := range details {
		out = append(out, ReturnLine{ReturnDetail: d, Refund: d.MedicinePrice.Mul(decimal.NewFromInt(d.Quantity)).Round(2)})
	}
	return out, nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	today := s.today()
	f, err := s.store.Queries().FinancialByDate(ctx, today)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Dashboard{Today: today}, nil
	case err != nil:
		return Dashboard{}, s.logFailure("Dashboard", "today's financial row", nil, err)
	}
	return Dashboard{Today: today, Financial: &f}, nil
}
