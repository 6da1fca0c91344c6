package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestScheduled RequestStatus = "scheduled"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestScheduled, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

type ServiceRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`

	// Services holds the catalog codes selected on the intake form.
	Services datatypes.JSONSlice[string] `gorm:"column:services;not null" json:"services"`

	RepairNotes        string `gorm:"column:repair_notes;type:text" json:"repair_notes"`
	WaterproofingNotes string `gorm:"column:waterproofing_notes;type:text" json:"waterproofing_notes"`
	Allergies          string `gorm:"column:allergies;type:text" json:"allergies"`

	// Address is snapshotted from the submission, not the customer record.
	Address    string        `gorm:"column:address" json:"address"`
	PickupDate *time.Time    `gorm:"column:pickup_date" json:"pickup_date,omitempty"`
	Status     RequestStatus `gorm:"not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ServiceRequest) TableName() string { return "service_requests" }
