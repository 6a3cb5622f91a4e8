package migrations

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medsales/m/internal/database"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            contact_info TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            contact_info TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS employees (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            position TEXT NOT NULL DEFAULT '',
            salary NUMERIC(10,2),
            hire_date DATE
        );`,
	`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL,
            stock INTEGER NOT NULL CHECK (stock >= 0),
            supplier_id INTEGER,
            FOREIGN KEY(supplier_id) REFERENCES suppliers(id)
        );`,
	`CREATE TABLE IF NOT EXISTS purchases (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL,
            supplier_id INTEGER,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            purchase_date DATE NOT NULL,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id),
            FOREIGN KEY(supplier_id) REFERENCES suppliers(id)
        );`,
	`CREATE TABLE IF NOT EXISTS sales (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL,
            customer_id INTEGER,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            sale_date DATE NOT NULL,
            total_price NUMERIC(10,2) NOT NULL,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id),
            FOREIGN KEY(customer_id) REFERENCES customers(id)
        );`,
	`CREATE TABLE IF NOT EXISTS returns (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            sale_id INTEGER NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity > 0),
            return_date DATE NOT NULL,
            FOREIGN KEY(sale_id) REFERENCES sales(id)
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL UNIQUE,
            quantity INTEGER NOT NULL,
            last_updated DATE NOT NULL,
            FOREIGN KEY(medicine_id) REFERENCES medicines(id)
        );`,
	`CREATE TABLE IF NOT EXISTS financials (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            date DATE NOT NULL UNIQUE,
            total_sales NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_purchases NUMERIC(12,2) NOT NULL DEFAULT 0,
            net_profit NUMERIC(12,2) NOT NULL DEFAULT 0
        );`,
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            username TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);`,
	`CREATE INDEX IF NOT EXISTS idx_returns_return_date ON returns(return_date);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS suppliers (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            contact_info VARCHAR(255) NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            contact_info VARCHAR(255) NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT ''
        );`,
	`CREATE TABLE IF NOT EXISTS employees (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            position VARCHAR(255) NOT NULL DEFAULT '',
            salary NUMERIC(10,2),
            hire_date DATE
        );`,
	`CREATE TABLE IF NOT EXISTS medicines (
            id BIGSERIAL PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL,
            stock BIGINT NOT NULL CHECK (stock >= 0),
            supplier_id BIGINT REFERENCES suppliers(id)
        );`,
	`CREATE TABLE IF NOT EXISTS purchases (
            id BIGSERIAL PRIMARY KEY,
            medicine_id BIGINT NOT NULL REFERENCES medicines(id),
            supplier_id BIGINT REFERENCES suppliers(id),
            quantity BIGINT NOT NULL CHECK (quantity > 0),
            purchase_date DATE NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS sales (
            id BIGSERIAL PRIMARY KEY,
            medicine_id BIGINT NOT NULL REFERENCES medicines(id),
            customer_id BIGINT REFERENCES customers(id),
            quantity BIGINT NOT NULL CHECK (quantity >= 0),
            sale_date DATE NOT NULL,
            total_price NUMERIC(10,2) NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS returns (
            id BIGSERIAL PRIMARY KEY,
            sale_id BIGINT NOT NULL REFERENCES sales(id),
            quantity BIGINT NOT NULL CHECK (quantity > 0),
            return_date DATE NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS inventory (
            id BIGSERIAL PRIMARY KEY,
            medicine_id BIGINT NOT NULL UNIQUE REFERENCES medicines(id),
            quantity BIGINT NOT NULL,
            last_updated DATE NOT NULL
        );`,
	`CREATE TABLE IF NOT EXISTS financials (
            id BIGSERIAL PRIMARY KEY,
            date DATE NOT NULL UNIQUE,
            total_sales NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_purchases NUMERIC(12,2) NOT NULL DEFAULT 0,
            net_profit NUMERIC(12,2) NOT NULL DEFAULT 0
        );`,
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            username VARCHAR(150) NOT NULL UNIQUE,
            password_hash VARCHAR(512) NOT NULL,
            is_admin BOOLEAN NOT NULL DEFAULT FALSE
        );`,
	`CREATE INDEX IF NOT EXISTS idx_sales_sale_date ON sales(sale_date);`,
	`CREATE INDEX IF NOT EXISTS idx_returns_return_date ON returns(return_date);`,
}

// Run creates the schema for the database's dialect. Every statement is idempotent.
func Run(ctx context.Context, db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == database.DriverPostgres {
		schema = postgresSchema
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
