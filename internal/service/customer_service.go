package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/casuse/website-backend/internal/domain"
	"github.com/casuse/website-backend/internal/repo/postgres"
)

// CustomerService backs the admin directory.
type CustomerService interface {
	List(ctx context.Context, f domain.CustomerFilter) (*domain.CustomerList, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
}

type customerService struct {
	customers postgres.CustomersRepo
}

func NewCustomerService(customers postgres.CustomersRepo) CustomerService {
	return &customerService{customers: customers}
}

func (s *customerService) List(ctx context.Context, f domain.CustomerFilter) (*domain.CustomerList, error) {
	const op = "service.ListCustomers"

	if f.CustomerType != "" && !f.CustomerType.Valid() {
		return nil, domain.NewValidationError(fmt.Errorf("customer_type: must be one of %q, %q", domain.CustomerIndividual, domain.CustomerCompany))
	}
	f.Normalize()

	customers, total, err := s.customers.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]domain.CustomerListItem, 0, len(customers))
	for i := range customers {
		items = append(items, customers[i].ToListItem())
	}
	return &domain.CustomerList{Items: items, Total: total}, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	const op = "service.GetCustomer"

	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
