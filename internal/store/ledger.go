package store

import (
	"context"
	"fmt"

	"medsales/m/domain"
)

const medicineColumns = `id, name, description, price, stock, supplier_id`

func (q *Queries) CreateMedicine(ctx context.Context, m *domain.Medicine) error {
	id, err := q.insert(ctx, `INSERT INTO medicines (name, description, price, stock, supplier_id) VALUES (?, ?, ?, ?, ?)`,
		m.Name, m.Description, m.Price, m.Stock, m.SupplierID)
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	m.ID = id
	return nil
}

func (q *Queries) GetMedicine(ctx context.Context, id int64) (domain.Medicine, error) {
	var m domain.Medicine
	if err := q.get(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id); err != nil {
		return domain.Medicine{}, fmt.Errorf("get medicine %d: %w", id, err)
	}
	return m, nil
}

func (q *Queries) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	if err := q.selectAll(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	return medicines, nil
}

func (q *Queries) UpdateMedicineStock(ctx context.Context, id, stock int64) error {
	if err := q.execOne(ctx, `UPDATE medicines SET stock = ? WHERE id = ?`, stock, id); err != nil {
		return fmt.Errorf("update medicine %d stock: %w", id, err)
	}
	return nil
}

func (q *Queries) CreateSupplier(ctx context.Context, s *domain.Supplier) error {
	id, err := q.insert(ctx, `INSERT INTO suppliers (name, contact_info, address) VALUES (?, ?, ?)`,
		s.Name, s.ContactInfo, s.Address)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	s.ID = id
	return nil
}

func (q *Queries) GetSupplier(ctx context.Context, id int64) (domain.Supplier, error) {
	var s domain.Supplier
	if err := q.get(ctx, &s, `SELECT id, name, contact_info, address FROM suppliers WHERE id = ?`, id); err != nil {
		return domain.Supplier{}, fmt.Errorf("get supplier %d: %w", id, err)
	}
	return s, nil
}

func (q *Queries) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	if err := q.selectAll(ctx, &suppliers, `SELECT id, name, contact_info, address FROM suppliers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (q *Queries) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	id, err := q.insert(ctx, `INSERT INTO customers (name, contact_info, address) VALUES (?, ?, ?)`,
		c.Name, c.ContactInfo, c.Address)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	c.ID = id
	return nil
}

func (q *Queries) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	if err := q.get(ctx, &c, `SELECT id, name, contact_info, address FROM customers WHERE id = ?`, id); err != nil {
		return domain.Customer{}, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (q *Queries) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if err := q.selectAll(ctx, &customers, `SELECT id, name, contact_info, address FROM customers ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (q *Queries) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	id, err := q.insert(ctx, `INSERT INTO employees (name, position, salary, hire_date) VALUES (?, ?, ?, ?)`,
		e.Name, e.Position, e.Salary, e.HireDate)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	e.ID = id
	return nil
}

func (q *Queries) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if err := q.selectAll(ctx, &employees, `SELECT id, name, position, salary, hire_date FROM employees ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

func (q *Queries) CreateUser(ctx context.Context, u *domain.User) error {
	id, err := q.insert(ctx, `INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)`,
		u.Username, u.PasswordHash, u.IsAdmin)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	if err := q.get(ctx, &u, `SELECT id, username, password_hash, is_admin FROM users WHERE username = ?`, username); err != nil {
		return domain.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

func (q *Queries) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := q.selectAll(ctx, &users, `SELECT id, username, password_hash, is_admin FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := q.get(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
