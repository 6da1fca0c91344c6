package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type RequestService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error)
	List(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type requestService struct {
	db          *gorm.DB
	log         *logger.Logger
	requestRepo repos.ServiceRequestRepo
}

func NewRequestService(db *gorm.DB, log *logger.Logger, requestRepo repos.ServiceRequestRepo) RequestService {
	return &requestService{
		db:          db,
		log:         log.With("service", "RequestService"),
		requestRepo: requestRepo,
	}
}

func (s *requestService) Get(ctx context.Context, id uuid.UUID) (*domain.ServiceRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, apierr.NotFound("service_request")
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, status domain.RequestStatus) ([]*domain.ServiceRequest, error) {
	if status != "" && !status.Valid() {
		return nil, apierr.Validation("request_status_invalid", map[string]string{
			"status": "unknown status: " + string(status),
		})
	}
	return s.requestRepo.List(ctx, nil, status)
}

// SetStatus validates membership only. Any of the four statuses can be
// set from any other; there are no transition guards.
func (s *requestService) SetStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	if !status.Valid() {
		return apierr.Validation("request_status_invalid", map[string]string{
			"status": "unknown status: " + string(status),
		})
	}
	return s.requestRepo.UpdateStatus(ctx, nil, id, status)
}

func (s *requestService) Delete(ctx context.Context, id uuid.UUID) error {
	req, err := s.requestRepo.GetByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if req == nil {
		return apierr.NotFound("service_request")
	}
	return s.requestRepo.Delete(ctx, nil, id)
}
