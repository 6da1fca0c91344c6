package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/billing"
	"github.com/saddleworks/stablecare-backend/internal/catalog"
	"github.com/saddleworks/stablecare-backend/internal/data/repos"
	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/money"
	"github.com/saddleworks/stablecare-backend/internal/notify"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/envutil"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

type InvoiceItemInput struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Rate        float64 `json:"rate"` // decimal dollars as typed in the form
}

type InvoiceInput struct {
	CustomerID uuid.UUID `json:"customer_id"`

	// Optional snapshot overrides; empty fields fall back to the
	// customer record at creation time.
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	Items    []InvoiceItemInput `json:"items"`
	ApplyTax bool               `json:"apply_tax"`
	TaxRate  *float64           `json:"tax_rate"`
	Notes    string             `json:"notes"`
	Terms    string             `json:"terms"`

	IssueDate *time.Time `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`
}

type InvoiceService interface {
	Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, status domain.InvoiceStatus) ([]*domain.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*domain.Invoice, error)
	QuickAddItem(ctx context.Context, id uuid.UUID, code string) (*domain.Invoice, error)
	RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*domain.Invoice, error)
	Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type invoiceService struct {
	db              *gorm.DB
	log             *logger.Logger
	invoiceRepo     repos.InvoiceRepo
	customerRepo    repos.CustomerRepo
	catalog         *catalog.Catalog
	dispatcher      notify.Dispatcher
	dispatchTimeout time.Duration
	now             func() time.Time
}

func NewInvoiceService(
	db *gorm.DB,
	log *logger.Logger,
	invoiceRepo repos.InvoiceRepo,
	customerRepo repos.CustomerRepo,
	cat *catalog.Catalog,
	dispatcher notify.Dispatcher,
) InvoiceService {
	return &invoiceService{
		db:              db,
		log:             log.With("service", "InvoiceService"),
		invoiceRepo:     invoiceRepo,
		customerRepo:    customerRepo,
		catalog:         cat,
		dispatcher:      dispatcher,
		dispatchTimeout: time.Duration(envutil.Int("NOTIFY_TIMEOUT_SECONDS", 15)) * time.Second,
		now:             time.Now,
	}
}

func (s *invoiceService) Create(ctx context.Context, input InvoiceInput) (*domain.Invoice, error) {
	customer, err := s.customerRepo.GetByID(ctx, nil, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apierr.NotFound("customer")
	}

	inv := &domain.Invoice{
		CustomerID:      customer.ID,
		CustomerName:    firstNonEmpty(input.CustomerName, customer.Name),
		CustomerEmail:   firstNonEmpty(input.CustomerEmail, customer.Email),
		CustomerPhone:   firstNonEmpty(input.CustomerPhone, customer.Phone),
		CustomerAddress: firstNonEmpty(input.CustomerAddress, customer.DisplayAddress()),
		ApplyTax:        input.ApplyTax,
		TaxRate:         s.taxRate(input.TaxRate),
		Notes:           input.Notes,
		Terms:           input.Terms,
		IssueDate:       s.issueDate(input.IssueDate),
		DueDate:         input.DueDate,
		Status:          domain.InvoiceDraft,
	}
	s.applyItems(inv, input.Items)

	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Create(ctx, nil, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apierr.NotFound("invoice")
	}
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context, status domain.InvoiceStatus) ([]*domain.Invoice, error) {
	if status != "" && !status.Valid() {
		return nil, apierr.Validation("invoice_status_invalid", map[string]string{
			"status": "unknown status: " + string(status),
		})
	}
	return s.invoiceRepo.List(ctx, nil, status)
}

// Update replaces the invoice's items, tax settings, notes/terms and
// dates. Totals always come out of the recompute; concurrent edits are
// last-write-wins.
func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*domain.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CustomerName != "" {
		inv.CustomerName = input.CustomerName
	}
	if input.CustomerEmail != "" {
		inv.CustomerEmail = input.CustomerEmail
	}
	if input.CustomerPhone != "" {
		inv.CustomerPhone = input.CustomerPhone
	}
	if input.CustomerAddress != "" {
		inv.CustomerAddress = input.CustomerAddress
	}
	inv.ApplyTax = input.ApplyTax
	inv.TaxRate = s.taxRate(input.TaxRate)
	inv.Notes = input.Notes
	inv.Terms = input.Terms
	if input.IssueDate != nil {
		inv.IssueDate = *input.IssueDate
	}
	inv.DueDate = input.DueDate
	s.applyItems(inv, input.Items)

	if err := validateInvoice(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.ReplaceItems(ctx, nil, inv); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// QuickAddItem adds a catalog service as a line item. An existing line
// with the same description and rate gets its quantity bumped instead.
func (s *invoiceService) QuickAddItem(ctx context.Context, id uuid.UUID, code string) (*domain.Invoice, error) {
	svc, ok := s.catalog.Lookup(code)
	if !ok {
		return nil, apierr.Validation("catalog_code_invalid", map[string]string{
			"code": "unknown service: " + code,
		})
	}

	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.Items = billing.QuickAdd(inv.Items, svc)
	s.recompute(inv)

	if err := s.invoiceRepo.ReplaceItems(ctx, nil, inv); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RemoveItem deletes one line and recomputes. Removing the last line is
// allowed and zeroes the totals; a client that wants at least one line
// enforces that itself.
func (s *invoiceService) RemoveItem(ctx context.Context, id, itemID uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := inv.Items[:0]
	found := false
	for _, it := range inv.Items {
		if it.ID == itemID {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return nil, apierr.NotFound("invoice_item")
	}
	inv.Items = kept
	s.recompute(inv)

	if err := s.invoiceRepo.ReplaceItems(ctx, nil, inv); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Send dispatches the invoice email. On success the invoice moves to
// sent; on failure the status is left untouched and the error reaches
// the caller, so the admin knows the customer was not billed and a retry
// is safe.
func (s *invoiceService) Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	// The process boots with a nil dispatcher when SendGrid init fails;
	// intake swallows that, but sending an invoice must tell the admin.
	if s.dispatcher == nil {
		return nil, apierr.Dispatch(errors.New("mail transport not configured"))
	}
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == domain.InvoiceVoid || inv.Status == domain.InvoicePaid {
		return nil, apierr.Validation("invoice_not_sendable", map[string]string{
			"status": fmt.Sprintf("cannot send a %s invoice", inv.Status),
		})
	}
	if err := validateInvoice(inv); err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	messageID, err := s.dispatcher.SendInvoice(sendCtx, s.view(inv))
	if err != nil {
		s.log.Error("Invoice send failed", "invoice", inv.Number, "error", err)
		if apierr.IsDispatch(err) {
			return nil, err
		}
		return nil, apierr.Dispatch(err)
	}

	sentAt := s.now()
	if err := s.invoiceRepo.UpdateStatus(ctx, nil, inv.ID, domain.InvoiceSent, &sentAt); err != nil {
		return nil, err
	}
	s.log.Info("Invoice sent", "invoice", inv.Number, "message_id", messageID)
	return s.Get(ctx, id)
}

// SetStatus handles the manual transitions: paid from sent, void from
// draft or sent. Draft and sent cannot be set directly; sending is the
// only way into sent.
func (s *invoiceService) SetStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !status.Valid() {
		return nil, apierr.Validation("invoice_status_invalid", map[string]string{
			"status": "unknown status: " + string(status),
		})
	}

	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	switch status {
	case domain.InvoicePaid:
		allowed = inv.Status == domain.InvoiceSent
	case domain.InvoiceVoid:
		allowed = inv.Status == domain.InvoiceDraft || inv.Status == domain.InvoiceSent
	}
	if !allowed {
		return nil, apierr.Validation("invoice_transition_invalid", map[string]string{
			"status": fmt.Sprintf("cannot move %s invoice to %s", inv.Status, status),
		})
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, nil, inv.ID, status, nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, nil, id)
}

// applyItems converts form items (decimal-dollar rates) into cent-based
// lines and recomputes the derived fields. Client-supplied amounts are
// ignored entirely.
func (s *invoiceService) applyItems(inv *domain.Invoice, items []InvoiceItemInput) {
	lines := make([]domain.InvoiceItem, 0, len(items))
	for _, in := range items {
		lines = append(lines, domain.InvoiceItem{
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			RateCents:   money.ToCents(in.Rate),
		})
	}
	inv.Items = lines
	s.recompute(inv)
}

func (s *invoiceService) recompute(inv *domain.Invoice) {
	items, totals := billing.Recompute(inv.Items, inv.ApplyTax, inv.TaxRate)
	inv.Items = items
	inv.SubtotalCents = totals.SubtotalCents
	inv.TaxCents = totals.TaxCents
	inv.TotalCents = totals.TotalCents
}

func (s *invoiceService) taxRate(rate *float64) float64 {
	if rate != nil {
		return *rate
	}
	return s.catalog.TaxRate()
}

func (s *invoiceService) issueDate(d *time.Time) time.Time {
	if d != nil {
		return *d
	}
	return s.now()
}

func (s *invoiceService) view(inv *domain.Invoice) notify.InvoiceView {
	items := make([]notify.InvoiceItemView, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, notify.InvoiceItemView{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        money.Format(it.RateCents),
			Amount:      money.Format(it.AmountCents),
		})
	}
	return notify.InvoiceView{
		Number:        inv.Number,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		Items:         items,
		Subtotal:      money.Format(inv.SubtotalCents),
		Tax:           money.Format(inv.TaxCents),
		Total:         money.Format(inv.TotalCents),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
	}
}

// validateInvoice enforces the minimum guarantees before an invoice is
// persisted or dispatched.
func validateInvoice(inv *domain.Invoice) error {
	fields := map[string]string{}
	if strings.TrimSpace(inv.CustomerName) == "" {
		fields["customer_name"] = "customer name is required"
	}
	if strings.TrimSpace(inv.CustomerEmail) == "" {
		fields["customer_email"] = "customer email is required"
	}
	if len(inv.Items) == 0 {
		fields["items"] = "at least one item is required"
	} else if strings.TrimSpace(inv.Items[0].Description) == "" {
		fields["items"] = "first item needs a description"
	}
	for _, it := range inv.Items {
		if it.RateCents < 0 {
			fields["rate"] = "rate cannot be negative"
			break
		}
	}
	if len(fields) > 0 {
		return apierr.Validation("invoice_invalid", fields)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
