package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medsales/m/domain"
	"medsales/m/internal/store"
)

type fakeStore struct {
	inventory  map[int64]domain.Inventory
	financials map[domain.Date]domain.Financial
	sales      []domain.Sale
	returns    []domain.ReturnDetail
	nextID     int64
	failOn     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inventory:  map[int64]domain.Inventory{},
		financials: map[domain.Date]domain.Financial{},
	}
}

func (f *fakeStore) fail(op string) error {
	if f.failOn == op {
		return fmt.Errorf("%s: disk on fire", op)
	}
	return nil
}

func (f *fakeStore) InventoryByMedicine(_ context.Context, medicineID int64) (domain.Inventory, error) {
	if err := f.fail("InventoryByMedicine"); err != nil {
		return domain.Inventory{}, err
	}
	inv, ok := f.inventory[medicineID]
	if !ok {
		return domain.Inventory{}, fmt.Errorf("get inventory for medicine %d: %w", medicineID, store.ErrNotFound)
	}
	return inv, nil
}

func (f *fakeStore) CreateInventory(_ context.Context, inv *domain.Inventory) error {
	if err := f.fail("CreateInventory"); err != nil {
		return err
	}
	f.nextID++
	inv.ID = f.nextID
	f.inventory[inv.MedicineID] = *inv
	return nil
}

func (f *fakeStore) UpdateInventory(_ context.Context, inv domain.Inventory) error {
	f.inventory[inv.MedicineID] = inv
	return nil
}

func (f *fakeStore) SalesBetween(_ context.Context, from, to domain.Date) ([]domain.Sale, error) {
	if err := f.fail("SalesBetween"); err != nil {
		return nil, err
	}
	var out []domain.Sale
	for _, s := range f.sales {
		if !s.SaleDate.Before(from) && !s.SaleDate.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) ReturnDetailsBetween(_ context.Context, from, to domain.Date) ([]domain.ReturnDetail, error) {
	var out []domain.ReturnDetail
	for _, r := range f.returns {
		if !r.ReturnDate.Before(from) && !r.ReturnDate.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) FinancialByDate(_ context.Context, date domain.Date) (domain.Financial, error) {
	row, ok := f.financials[date]
	if !ok {
		return domain.Financial{}, store.ErrNotFound
	}
	return row, nil
}

func (f *fakeStore) CreateFinancial(_ context.Context, row *domain.Financial) error {
	f.nextID++
	row.ID = f.nextID
	f.financials[row.Date] = *row
	return nil
}

func (f *fakeStore) UpdateFinancial(_ context.Context, row domain.Financial) error {
	if err := f.fail("UpdateFinancial"); err != nil {
		return err
	}
	f.financials[row.Date] = row
	return nil
}

var (
	jan5 = domain.NewDate(2024, time.January, 5)
	jan6 = domain.NewDate(2024, time.January, 6)
)

func TestAdjustInventoryFirstCallSetsBaseline(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	inv, err := AdjustInventory(ctx, st, 1, -20, jan5)
	require.NoError(t, err)
	assert.EqualValues(t, -20, inv.Quantity)
	assert.Equal(t, jan5, inv.LastUpdated)

	inv, err = AdjustInventory(ctx, st, 1, 5, jan6)
	require.NoError(t, err)
	assert.EqualValues(t, -15, inv.Quantity)
	assert.Equal(t, jan6, inv.LastUpdated)
	assert.Equal(t, inv, st.inventory[1])
}

func TestAdjustInventoryIsPerMedicine(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()

	_, err := AdjustInventory(ctx, st, 1, 100, jan5)
	require.NoError(t, err)
	_, err = AdjustInventory(ctx, st, 2, 7, jan5)
	require.NoError(t, err)

	assert.EqualValues(t, 100, st.inventory[1].Quantity)
	assert.EqualValues(t, 7, st.inventory[2].Quantity)
}

func TestAdjustInventoryPropagatesLookupFailure(t *testing.T) {
	st := newFakeStore()
	st.failOn = "InventoryByMedicine"

	_, err := AdjustInventory(context.Background(), st, 1, 3, jan5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))
	assert.Empty(t, st.inventory)
}

func TestRecomputeFinancialsScenario(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	st.sales = []domain.Sale{{ID: 1, MedicineID: 1, Quantity: 20, SaleDate: jan5, TotalPrice: decimal.NewFromInt(200)}}

	row, err := RecomputeFinancials(ctx, st, jan5)
	require.NoError(t, err)
	assert.Equal(t, "200.00", row.TotalSales.StringFixed(2))
	assert.Equal(t, "200.00", row.NetProfit.StringFixed(2))

	// A return of 5 leaves the sale at 15 units for 200.00.
	st.sales[0].Quantity = 15
	st.returns = []domain.ReturnDetail{{
		Return:       domain.Return{ID: 1, SaleID: 1, Quantity: 5, ReturnDate: jan6},
		SaleQuantity: 15,
		SaleTotal:    decimal.NewFromInt(200),
	}}

	row, err = RecomputeFinancials(ctx, st, jan6)
	require.NoError(t, err)
	assert.Equal(t, "0.00", row.TotalSales.StringFixed(2))
	assert.Equal(t, "-66.67", row.NetProfit.StringFixed(2))

	// The sale day's row is only touched when that day is recomputed.
	assert.Equal(t, "200.00", st.financials[jan5].NetProfit.StringFixed(2))
}

func TestRecomputeFinancialsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	st.sales = []domain.Sale{
		{ID: 1, Quantity: 3, SaleDate: jan5, TotalPrice: decimal.RequireFromString("12.50")},
		{ID: 2, Quantity: 1, SaleDate: jan5, TotalPrice: decimal.RequireFromString("4.25")},
	}

	first, err := RecomputeFinancials(ctx, st, jan5)
	require.NoError(t, err)
	second, err := RecomputeFinancials(ctx, st, jan5)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.TotalSales.Equal(second.TotalSales))
	assert.True(t, first.NetProfit.Equal(second.NetProfit))
	assert.Len(t, st.financials, 1)
	assert.Equal(t, "16.75", second.TotalSales.StringFixed(2))
}

func TestReturnsTotalSkipsEmptiedSales(t *testing.T) {
	returns := []domain.ReturnDetail{
		{Return: domain.Return{Quantity: 15}, SaleQuantity: 0, SaleTotal: decimal.NewFromInt(200)},
		{Return: domain.Return{Quantity: 2}, SaleQuantity: 4, SaleTotal: decimal.NewFromInt(10)},
	}
	assert.Equal(t, "5.00", ReturnsTotal(returns).StringFixed(2))
}

func TestRecomputeFinancialsUpdateFailure(t *testing.T) {
	ctx := context.Background()
	st := newFakeStore()
	st.financials[jan5] = domain.Financial{ID: 9, Date: jan5}
	st.failOn = "UpdateFinancial"

	_, err := RecomputeFinancials(ctx, st, jan5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recompute financials 2024-01-05")
}
