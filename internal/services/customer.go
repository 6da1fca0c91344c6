package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type CustomerInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

type CustomerService interface {
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindOrCreate(ctx context.Context, tx *gorm.DB, name, email, phone, address string) (*domain.Customer, error)
}

type customerService struct {
	db           *gorm.DB
	log          *logger.Logger
	customerRepo repos.CustomerRepo
}

func NewCustomerService(db *gorm.DB, log *logger.Logger, customerRepo repos.CustomerRepo) CustomerService {
	return &customerService{
		db:           db,
		log:          log.With("service", "CustomerService"),
		customerRepo: customerRepo,
	}
}

func (s *customerService) Create(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("customer_invalid", map[string]string{
			"name": "name is required",
		})
	}
	c := customerFromInput(input)
	if err := s.customerRepo.Create(ctx, nil, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	c, err := s.customerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apierr.NotFound("customer")
	}
	return c, nil
}

func (s *customerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.customerRepo.List(ctx, nil)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, input CustomerInput) (*domain.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("customer_invalid", map[string]string{
			"name": "name is required",
		})
	}
	existing, err := s.customerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("customer")
	}

	updated := customerFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.customerRepo.Update(ctx, nil, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the customer and everything that references it. The
// cascade is deliberate: requests and invoices never outlive their
// customer.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.customerRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apierr.NotFound("customer")
	}
	return s.customerRepo.DeleteCascade(ctx, nil, id)
}

// FindOrCreate resolves a customer by exact email match, creating one
// when absent. With pre-existing duplicates the oldest row wins.
func (s *customerService) FindOrCreate(ctx context.Context, tx *gorm.DB, name, email, phone, address string) (*domain.Customer, error) {
	email = strings.TrimSpace(email)
	existing, err := s.customerRepo.FindByEmail(ctx, tx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	c := &domain.Customer{
		Name:    strings.TrimSpace(name),
		Email:   email,
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}
	if err := s.customerRepo.Create(ctx, tx, c); err != nil {
		return nil, err
	}
	s.log.Info("Customer created via intake", "customer_id", c.ID.String())
	return c, nil
}

func customerFromInput(input CustomerInput) *domain.Customer {
	return &domain.Customer{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.TrimSpace(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		AddressLine1: strings.TrimSpace(input.AddressLine1),
		AddressLine2: strings.TrimSpace(input.AddressLine2),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		PostalCode:   strings.TrimSpace(input.PostalCode),
	}
}
