package database

import (
	"log"

	"warehouse-backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.Warehouse{},
		&model.Category{},
		&model.Unit{},
		&model.Item{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Production{},
		&model.ProductionItem{},
		&model.MaterialReceipt{},
		&model.MaterialReceiptItem{},
		&model.Transaction{},
		&model.Sequence{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
