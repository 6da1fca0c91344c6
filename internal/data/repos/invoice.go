package repos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/domain"
	"github.com/saddleworks/stablecare-backend/internal/platform/apierr"
	"github.com/saddleworks/stablecare-backend/internal/platform/logger"
)

const invoiceNumberPrefix = "INV-"

type InvoiceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inv *domain.Invoice) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, tx *gorm.DB, status domain.InvoiceStatus) ([]*domain.Invoice, error)
	ReplaceItems(ctx context.Context, tx *gorm.DB, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.InvoiceStatus, sentAt *time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type invoiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvoiceRepo(db *gorm.DB, baseLog *logger.Logger) InvoiceRepo {
	return &invoiceRepo{db: db, log: baseLog.With("repo", "InvoiceRepo")}
}

// Create inserts the invoice and its items in one transaction, assigning
// the next human-facing number (INV-001, INV-002, ...) inside it. The
// rest of the system treats the number as an opaque display string.
func (r *invoiceRepo) Create(ctx context.Context, tx *gorm.DB, inv *domain.Invoice) error {
	run := func(t *gorm.DB) error {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		if inv.Number == "" {
			n, err := nextNumber(ctx, t)
			if err != nil {
				return err
			}
			inv.Number = n
		}
		for i := range inv.Items {
			if inv.Items[i].ID == uuid.Nil {
				inv.Items[i].ID = uuid.New()
			}
			inv.Items[i].InvoiceID = inv.ID
			inv.Items[i].Position = i
		}
		return t.WithContext(ctx).Create(inv).Error
	}

	var err error
	if tx != nil {
		err = run(tx)
	} else {
		err = r.db.Transaction(run)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return apierr.Conflict(err)
		}
		return apierr.Persistence(err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Invoice, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Invoice
	err := transaction.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apierr.Persistence(err)
	}
	return &row, nil
}

func (r *invoiceRepo) List(ctx context.Context, tx *gorm.DB, status domain.InvoiceStatus) ([]*domain.Invoice, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []*domain.Invoice
	if err := q.Find(&rows).Error; err != nil {
		return nil, apierr.Persistence(err)
	}
	return rows, nil
}

// ReplaceItems saves the invoice's scalar fields and swaps its item rows
// for the given set, all in one transaction. Item order follows slice
// order.
func (r *invoiceRepo) ReplaceItems(ctx context.Context, tx *gorm.DB, inv *domain.Invoice) error {
	run := func(t *gorm.DB) error {
		if err := t.WithContext(ctx).
			Where("invoice_id = ?", inv.ID).
			Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range inv.Items {
			inv.Items[i].ID = uuid.New()
			inv.Items[i].InvoiceID = inv.ID
			inv.Items[i].Position = i
		}
		if len(inv.Items) > 0 {
			if err := t.WithContext(ctx).Create(&inv.Items).Error; err != nil {
				return err
			}
		}
		return t.WithContext(ctx).
			Model(&domain.Invoice{}).
			Where("id = ?", inv.ID).
			Updates(map[string]any{
				"customer_name":    inv.CustomerName,
				"customer_email":   inv.CustomerEmail,
				"customer_phone":   inv.CustomerPhone,
				"customer_address": inv.CustomerAddress,
				"subtotal_cents":   inv.SubtotalCents,
				"tax_cents":        inv.TaxCents,
				"total_cents":      inv.TotalCents,
				"apply_tax":        inv.ApplyTax,
				"tax_rate":         inv.TaxRate,
				"notes":            inv.Notes,
				"terms":            inv.Terms,
				"issue_date":       inv.IssueDate,
				"due_date":         inv.DueDate,
			}).Error
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

func (r *invoiceRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status domain.InvoiceStatus, sentAt *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]any{"status": status}
	if sentAt != nil {
		updates["sent_at"] = sentAt
	}
	res := transaction.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return apierr.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		return apierr.NotFound("invoice")
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	run := func(t *gorm.DB) error {
		if err := t.WithContext(ctx).
			Where("invoice_id = ?", id).
			Delete(&domain.InvoiceItem{}).Error; err != nil {
			return err
		}
		return t.WithContext(ctx).
			Where("id = ?", id).
			Delete(&domain.Invoice{}).Error
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

// nextNumber increments the numeric suffix of the most recently created
// invoice. Simple increment strategy; numbering only has to be unique and
// human-readable, not gapless.
func nextNumber(ctx context.Context, t *gorm.DB) (string, error) {
	var last []string
	err := t.WithContext(ctx).
		Model(&domain.Invoice{}).
		Order("created_at DESC").
		Limit(1).
		Pluck("number", &last).Error
	if err != nil {
		return "", err
	}
	seq := 1
	if len(last) == 1 {
		if n, err := strconv.Atoi(strings.TrimPrefix(last[0], invoiceNumberPrefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%03d", invoiceNumberPrefix, seq), nil
}
