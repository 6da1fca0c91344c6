package domain

import (
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
	InvoiceVoid  InvoiceStatus = "void"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}

type Invoice struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Number string    `gorm:"uniqueIndex;not null" json:"number"`

	// Customer details are denormalized at creation time so an invoice
	// does not change when the customer record is later edited.
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	CustomerName    string    `gorm:"not null;column:customer_name" json:"customer_name"`
	CustomerEmail   string    `gorm:"column:customer_email" json:"customer_email"`
	CustomerPhone   string    `gorm:"column:customer_phone" json:"customer_phone"`
	CustomerAddress string    `gorm:"column:customer_address" json:"customer_address"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	// Subtotal, Tax and Total are integer cents, derived by the billing
	// engine on every item mutation and never set independently.
	SubtotalCents int64   `gorm:"not null;column:subtotal_cents" json:"subtotal_cents"`
	TaxCents      int64   `gorm:"not null;column:tax_cents" json:"tax_cents"`
	TotalCents    int64   `gorm:"not null;column:total_cents" json:"total_cents"`
	ApplyTax      bool    `gorm:"not null;column:apply_tax" json:"apply_tax"`
	TaxRate       float64 `gorm:"not null;column:tax_rate" json:"tax_rate"`

	Notes string `gorm:"type:text" json:"notes"`
	Terms string `gorm:"type:text" json:"terms"`

	IssueDate time.Time  `gorm:"not null;column:issue_date" json:"issue_date"`
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`

	Status InvoiceStatus `gorm:"not null;default:'draft';index" json:"status"`
	SentAt *time.Time    `gorm:"column:sent_at" json:"sent_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`

	// Position preserves insertion order for display and export.
	Position    int    `gorm:"not null" json:"position"`
	Description string `gorm:"not null" json:"description"`
	Quantity    int    `gorm:"not null;default:1" json:"quantity"`

	RateCents int64 `gorm:"not null;column:rate_cents" json:"rate_cents"`

	// AmountCents is always Quantity x RateCents, recomputed by the
	// billing engine; a client-supplied amount is never trusted.
	AmountCents int64 `gorm:"not null;column:amount_cents" json:"amount_cents"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }
