package domain

import "github.com/shopspring/decimal"

// Financial aggregates one calendar day of sales and return deductions.
type Financial struct {
	ID             int64           `db:"id" json:"id"`
	Date           Date            `db:"date" json:"date"`
	TotalSales     decimal.Decimal `db:"total_sales" json:"total_sales"`
	TotalPurchases decimal.Decimal `db:"total_purchases" json:"total_purchases"`
	NetProfit      decimal.Decimal `db:"net_profit" json:"net_profit"`
}

// PeriodSummary is the today / month-to-date figure set of the financial report.
type PeriodSummary struct {
	From    Date            `json:"from"`
	To      Date            `json:"to"`
	Sales   decimal.Decimal `json:"sales"`
	Returns decimal.Decimal `json:"returns"`
	Net     decimal.Decimal `json:"net"`
}
