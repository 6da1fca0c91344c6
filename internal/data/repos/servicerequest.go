package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type ServiceRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ServiceRequest, error)
	List(ctx context.Context, tx *gorm.DB, status domain.RequestStatus) ([]*domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.RequestStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type serviceRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewServiceRequestRepo(db *gorm.DB, baseLog *logger.Logger) ServiceRequestRepo {
	return &serviceRequestRepo{db: db, log: baseLog.With("repo", "ServiceRequestRepo")}
}

func (r *serviceRequestRepo) Create(ctx context.Context, tx *gorm.DB, req *domain.ServiceRequest) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Status == "" {
		req.Status = domain.RequestPending
	}
	if err := transaction.WithContext(ctx).Create(req).Error; err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

func (r *serviceRequestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ServiceRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.ServiceRequest
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierr.Persistence(err)
	}
	return &row, nil
}

// List returns requests newest first, optionally filtered by status.
func (r *serviceRequestRepo) List(ctx context.Context, tx *gorm.DB, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []*domain.ServiceRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, apierr.Persistence(err)
	}
	return rows, nil
}

func (r *serviceRequestRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.RequestStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Model(&domain.ServiceRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return apierr.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("service_request")
	}
	return nil
}

func (r *serviceRequestRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.ServiceRequest{}).Error; err != nil {
		return apierr.Persistence(err)
	}
	return nil
}
