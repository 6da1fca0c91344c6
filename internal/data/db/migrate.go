package db

import (
	"gorm.io/gorm"

	"github.com/saddleworks/stablecare-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Customer{},
		&domain.ServiceRequest{},
		&domain.Invoice{},
		&domain.InvoiceItem{},
	)
}
