package domain

import "github.com/shopspring/decimal"

type Supplier struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ContactInfo string `db:"contact_info" json:"contact_info"`
	Address     string `db:"address" json:"address"`
}

type Customer struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	ContactInfo string `db:"contact_info" json:"contact_info"`
	Address     string `db:"address" json:"address"`
}

type Employee struct {
	ID       int64               `db:"id" json:"id"`
	Name     string              `db:"name" json:"name"`
	Position string              `db:"position" json:"position"`
	Salary   decimal.NullDecimal `db:"salary" json:"salary"`
	HireDate *Date               `db:"hire_date" json:"hire_date,omitempty"`
}
