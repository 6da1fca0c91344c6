package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type CustomerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, customer *domain.Customer) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Customer, error)
	FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.Customer, error)
	List(ctx context.Context, tx *gorm.DB) ([]*domain.Customer, error)
	Update(ctx context.Context, tx *gorm.DB, customer *domain.Customer) error
	DeleteCascade(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return &customerRepo{db: db, log: baseLog.With("repo", "CustomerRepo")}
}

func (r *customerRepo) Create(ctx context.Context, tx *gorm.DB, customer *domain.Customer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return apierr.Conflict(err)
		}
		return apierr.Persistence(err)
	}
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Customer
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierr.Persistence(err)
	}
	return &row, nil
}

// FindByEmail returns the oldest customer with an exact email match, or
// nil when none exists. Duplicates are possible in legacy data; first
// match wins.
func (r *customerRepo) FindByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	var rows []*domain.Customer
	err := transaction.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *customerRepo) List(ctx context.Context, tx *gorm.DB) ([]*domain.Customer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Customer
	if err := transaction.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apierr.Persistence(err)
	}
	return rows, nil
}

func (r *customerRepo) Update(ctx context.Context, tx *gorm.DB, customer *domain.Customer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(customer).Error; err != nil {
		if isUniqueViolation(err) {
			return apierr.Conflict(err)
		}
		return apierr.Persistence(err)
	}
	return nil
}

// DeleteCascade removes the customer together with its service requests,
// invoices and invoice items in one transaction. Deletion is destructive
// by design; dependents never survive their customer.
func (r *customerRepo) DeleteCascade(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	run := func(t *gorm.DB) error {
		var invoiceIDs []uuid.UUID
		if err := t.WithContext(ctx).
			Model(&domain.Invoice{}).
			Where("customer_id = ?", id).
			Pluck("id", &invoiceIDs).Error; err != nil {
			return err
		}
		if len(invoiceIDs) > 0 {
			if err := t.WithContext(ctx).
				Where("invoice_id IN ?", invoiceIDs).
				Delete(&domain.InvoiceItem{}).Error; err != nil {
				return err
			}
			if err := t.WithContext(ctx).
				Where("id IN ?", invoiceIDs).
				Delete(&domain.Invoice{}).Error; err != nil {
				return err
			}
		}
		if err := t.WithContext(ctx).
			Where("customer_id = ?", id).
			Delete(&domain.ServiceRequest{}).Error; err != nil {
			return err
		}
		return t.WithContext(ctx).
			Where("id = ?", id).
			Delete(&domain.Customer{}).Error
	}

	var err error
	if tx != nil {
		err = run(tx)
	} else {
		err = r.db.Transaction(run)
	}
	if err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite (tests) reports unique violations as plain errors.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
