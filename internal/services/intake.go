package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/notify"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type IntakeInput struct {
	FullName           string   `json:"full_name"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Address            string   `json:"address"`
	PickupMonth        *int     `json:"pickup_month"`
	PickupDay          *int     `json:"pickup_day"`
	Services           []string `json:"services"`
	RepairNotes        string   `json:"repair_notes"`
	WaterproofingNotes string   `json:"waterproofing_notes"`
	Allergies          string   `json:"allergies"`
}

type IntakeResult struct {
	CustomerID uuid.UUID `json:"customer_id"`
	RequestID  uuid.UUID `json:"request_id"`
}

type IntakeService interface {
	Submit(ctx context.Context, input IntakeInput) (*IntakeResult, error)
}

type intakeService struct {
	db              *gorm.DB
	log             *logger.Logger
	customerService CustomerService
	requestRepo     repos.ServiceRequestRepo
	catalog         *catalog.Catalog
	dispatcher      notify.Dispatcher
	dispatchTimeout time.Duration
	now             func() time.Time
}

func NewIntakeService(
	db *gorm.DB,
	log *logger.Logger,
	customerService CustomerService,
	requestRepo repos.ServiceRequestRepo,
	cat *catalog.Catalog,
	dispatcher notify.Dispatcher,
) IntakeService {
	return &intakeService{
		db:              db,
		log:             log.With("service", "IntakeService"),
		customerService: customerService,
		requestRepo:     requestRepo,
		catalog:         cat,
		dispatcher:      dispatcher,
		dispatchTimeout: time.Duration(envutil.Int("NOTIFY_TIMEOUT_SECONDS", 15)) * time.Second,
		now:             time.Now,
	}
}

// Submit runs the public intake flow: validate, resolve-or-create the
// customer, create the pending request, then notify. Notification
// failures are logged and swallowed; by then the request exists and the
// submitter must still get a success.
func (s *intakeService) Submit(ctx context.Context, input IntakeInput) (*IntakeResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	customer, err := s.customerService.FindOrCreate(ctx, nil, input.FullName, input.Email, input.Phone, input.Address)
	if err != nil {
		return nil, err
	}

	req := &domain.ServiceRequest{
		CustomerID:         customer.ID,
		Services:           input.Services,
		RepairNotes:        strings.TrimSpace(input.RepairNotes),
		WaterproofingNotes: strings.TrimSpace(input.WaterproofingNotes),
		Allergies:          strings.TrimSpace(input.Allergies),
		// The submitted address is snapshotted as-is; the customer's
		// stored address may differ or change later.
		Address:    strings.TrimSpace(input.Address),
		PickupDate: s.derivePickup(input.PickupMonth, input.PickupDay),
		Status:     domain.RequestPending,
	}
	if err := s.requestRepo.Create(ctx, nil, req); err != nil {
		return nil, err
	}

	s.notifyIntake(customer, req)

	return &IntakeResult{CustomerID: customer.ID, RequestID: req.ID}, nil
}

func (s *intakeService) validate(input IntakeInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "email is required"
	}
	if strings.TrimSpace(input.Address) == "" {
		fields["address"] = "address is required"
	}
	if len(input.Services) == 0 {
		fields["services"] = "select at least one service"
	} else {
		for _, code := range input.Services {
			if !s.catalog.ValidCode(code) {
				fields["services"] = "unknown service: " + code
				break
			}
		}
	}
	if len(fields) > 0 {
		return apierr.Validation("intake_invalid", fields)
	}
	return nil
}

func (s *intakeService) derivePickup(month, day *int) *time.Time {
	if month == nil || day == nil {
		return nil
	}
	return DerivePickupDate(*month, *day, s.now())
}

// DerivePickupDate builds a date from a month and day with no year. The
// intake form assumes recurring service, so the date lands in the
// current year unless that day has already passed, in which case it
// rolls forward exactly one year. The comparison is calendar-day
// granular: a pickup on today's date stays in the current year.
func DerivePickupDate(month, day int, now time.Time) *time.Time {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.Before(today) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return &candidate
}

// notifyIntake fires the customer confirmation and the staff alert
// concurrently with a bounded timeout. Both are best-effort.
func (s *intakeService) notifyIntake(customer *domain.Customer, req *domain.ServiceRequest) {
	if s.dispatcher == nil {
		return
	}
	view := notify.RequestView{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Address:       req.Address,
		Services:      req.Services,
		PickupDate:    req.PickupDate,
		RepairNotes:   req.RepairNotes,
		Waterproofing: req.WaterproofingNotes,
		Allergies:     req.Allergies,
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := s.dispatcher.SendConfirmation(gctx, view); err != nil {
			s.log.Warn("Intake confirmation failed", "request_id", req.ID.String(), "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.dispatcher.SendStaffAlert(gctx, view); err != nil {
			s.log.Warn("Intake staff alert failed", "request_id", req.ID.String(), "error", err)
		}
		return nil
	})
	_ = g.Wait()
}
