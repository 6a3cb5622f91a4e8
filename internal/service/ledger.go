package service

import (
	"context"

	"github.com/shopspring/decimal"

	"medsales/m/domain"
	"medsales/m/internal/reconcile"
	"medsales/m/internal/store"
)

type MedicineInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock" validate:"gte=0"`
	SupplierID  *int64          `json:"supplier_id" validate:"omitempty,gt=0"`
}

type PartyInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	ContactInfo string `json:"contact_info" validate:"max=255"`
	Address     string `json:"address"`
}

type EmployeeInput struct {
	Name     string           `json:"name" validate:"required,max=255"`
	Position string           `json:"position" validate:"max=255"`
	Salary   *decimal.Decimal `json:"salary"`
	HireDate *domain.Date     `json:"hire_date"`
}

// AddMedicine stores a medicine and opens its inventory snapshot with the initial stock.
func (s *Service) AddMedicine(ctx context.Context, in MedicineInput) (domain.Medicine, error) {
	if err := s.check(in); err != nil {
		return domain.Medicine{}, err
	}
	if in.Price.IsNegative() {
		return domain.Medicine{}, invalid("price", "must be at least 0")
	}

	today := s.today()
	m := domain.Medicine{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		SupplierID:  in.SupplierID,
	}
	err := s.run(ctx,
		func(q *store.Queries) error {
			if m.SupplierID != nil {
				if _, err := q.GetSupplier(ctx, *m.SupplierID); err != nil {
					return reference(err, "supplier", *m.SupplierID)
				}
			}
			return q.CreateMedicine(ctx, &m)
		},
		func(q *store.Queries) error {
			_, err := reconcile.AdjustInventory(ctx, q, m.ID, m.Stock, today)
			return err
		},
	)
	if err != nil {
		return domain.Medicine{}, s.logFailure("AddMedicine", "add medicine", in, err)
	}
	s.logger.WithField("medicine_id", m.ID).Info("medicine added")
	return m, nil
}

func (s *Service) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	return s.store.Queries().ListMedicines(ctx)
}

func (s *Service) AddSupplier(ctx context.Context, in PartyInput) (domain.Supplier, error) {
	if err := s.check(in); err != nil {
		return domain.Supplier{}, err
	}
	sup := domain.Supplier{Name: in.Name, ContactInfo: s.normalizeContact(in.ContactInfo), Address: in.Address}
	if err := s.store.Queries().CreateSupplier(ctx, &sup); err != nil {
		return domain.Supplier{}, s.logFailure("AddSupplier", "add supplier", in, err)
	}
	return sup, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.store.Queries().ListSuppliers(ctx)
}

func (s *Service) AddCustomer(ctx context.Context, in PartyInput) (domain.Customer, error) {
	if err := s.check(in); err != nil {
		return domain.Customer{}, err
	}
	c := domain.Customer{Name: in.Name, ContactInfo: s.normalizeContact(in.ContactInfo), Address: in.Address}
	if err := s.store.Queries().CreateCustomer(ctx, &c); err != nil {
		return domain.Customer{}, s.logFailure("AddCustomer", "add customer", in, err)
	}
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.store.Queries().ListCustomers(ctx)
}

func (s *Service) AddEmployee(ctx context.Context, in EmployeeInput) (domain.Employee, error) {
	if err := s.check(in); err != nil {
		return domain.Employee{}, err
	}
	e := domain.Employee{Name: in.Name, Position: in.Position, HireDate: in.HireDate}
	if in.Salary != nil {
		if in.Salary.IsNegative() {
			return domain.Employee{}, invalid("salary", "must be at least 0")
		}
		e.Salary = decimal.NewNullDecimal(in.Salary.Round(2))
	}
	if err := s.store.Queries().CreateEmployee(ctx, &e); err != nil {
		return domain.Employee{}, s.logFailure("AddEmployee", "add employee", in, err)
	}
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.store.Queries().ListEmployees(ctx)
}
