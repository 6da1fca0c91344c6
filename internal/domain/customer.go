package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`
	// Email is the find-or-create key for intake. No unique constraint
	// exists on it; duplicates are tolerated and the oldest row wins on
	// lookup.
	Email string `gorm:"index;column:email" json:"email"`
	Phone string `gorm:"column:phone" json:"phone"`

	// Address is the legacy single-line address kept for records created
	// before the structured fields existed.
	Address      string `gorm:"column:address" json:"address"`
	AddressLine1 string `gorm:"column:address_line1" json:"address_line1"`
	AddressLine2 string `gorm:"column:address_line2" json:"address_line2"`
	City         string `gorm:"column:city" json:"city"`
	State        string `gorm:"column:state" json:"state"`
	PostalCode   string `gorm:"column:postal_code" json:"postal_code"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// DisplayAddress composes the structured address fields into one line,
// falling back to the legacy address column when they are empty.
func (c Customer) DisplayAddress() string {
	parts := make([]string, 0, 4)
	if s := strings.TrimSpace(c.AddressLine1); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(c.AddressLine2); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimSpace(c.City); s != "" {
		parts = append(parts, s)
	}
	region := strings.TrimSpace(strings.TrimSpace(c.State) + " " + strings.TrimSpace(c.PostalCode))
	if region != "" {
		parts = append(parts, region)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(c.Address)
	}
	return strings.Join(parts, ", ")
}
