// Package export renders reports as xlsx workbooks.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"medsales/m/domain"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	financialHeaders = []string{"Date", "Total Sales", "Total Purchases", "Net Profit"}
	salesHeaders     = []string{"Sale ID", "Date", "Medicine", "Customer", "Quantity", "Total Price"}
)

// FinancialWorkbook lists daily financial rows with a totals row at the bottom.
func FinancialWorkbook(rows []domain.Financial) (*excelize.File, error) {
	return workbook("Financials", financialHeaders, func(f *excelize.File, sheet string) error {
		sales, net := decimal.Zero, decimal.Zero
		for i, r := range rows {
			values := []any{r.Date.String(), money(r.TotalSales), money(r.TotalPurchases), money(r.NetProfit)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
				return fmt.Errorf("write financial row %s: %w", r.Date, err)
			}
			sales = sales.Add(r.TotalSales)
			net = net.Add(r.NetProfit)
		}
		return totalRow(f, sheet, len(rows)+2, []any{"Total", money(sales), 0.0, money(net)})
	})
}

// SalesWorkbook lists sales with their medicine and customer names.
func SalesWorkbook(details []domain.SaleDetail) (*excelize.File, error) {
	return workbook("Sales", salesHeaders, func(f *excelize.File, sheet string) error {
		total := decimal.Zero
		for i, d := range details {
			customer := ""
			if d.CustomerName != nil {
				customer = *d.CustomerName
			}
			values := []any{d.ID, d.SaleDate.String(), d.MedicineName, customer, d.Quantity, money(d.TotalPrice)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
				return fmt.Errorf("write sale row %d: %w", d.ID, err)
			}
			total = total.Add(d.TotalPrice)
		}
		return totalRow(f, sheet, len(details)+2, []any{"Total", "", "", "", "", money(total)})
	})
}

// workbook builds a single-sheet file and closes it when fill fails.
func workbook(name string, headers []string, fill func(f *excelize.File, sheet string) error) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := writeHeader(f, name, headers); err != nil {
		f.Close()
		return nil, err
	}
	if err := fill(f, name); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeHeader(f *excelize.File, name string, headers []string) error {
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", h, err)
		}
		f.SetCellStyle(name, cell, cell, bold)
		f.SetColWidth(name, col, col, 16)
	}
	return nil
}

func totalRow(f *excelize.File, sheet string, row int, values []any) error {
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
		return fmt.Errorf("write total row: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("total style: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(values))
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
