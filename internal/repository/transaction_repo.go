package repository

import (
	"context"
	"time"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionFilter narrows transaction listings. Zero values mean "any".
type TransactionFilter struct {
	Type        model.TransactionType
	EntityType  model.EntityType
	Status      model.TransactionStatus
	WarehouseID *uuid.UUID
	ItemID      *uuid.UUID
	ProductID   *uuid.UUID
	UserID      *uuid.UUID
	Reference   string
	From        *time.Time
	To          *time.Time
}

// TransactionRepository appends and queries the immutable movement log.
// There is deliberately no Update or Delete: records exist to justify
// ledger mutations and must survive them.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	if err := GetDB(ctx, r.db).
		Preload("Item").
		Preload("Product").
		Preload("Warehouse").
		Preload("User").
		First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, page, limit int, filter TransactionFilter) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Transaction{})
	db = applyFilter(db, filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Item").
		Preload("Product").
		Preload("Warehouse").
		Preload("User").
		Order("transaction_date DESC").
		Offset(offset).Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

func applyFilter(db *gorm.DB, filter TransactionFilter) *gorm.DB {
	if filter.Type != "" {
		db = db.Where("transaction_type = ?", filter.Type)
	}
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.WarehouseID != nil {
		db = db.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.ItemID != nil {
		db = db.Where("item_id = ?", *filter.ItemID)
	}
	if filter.ProductID != nil {
		db = db.Where("product_id = ?", *filter.ProductID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Reference != "" {
		db = db.Where("reference_number ILIKE ?", "%"+filter.Reference+"%")
	}
	if filter.From != nil {
		db = db.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("transaction_date <= ?", *filter.To)
	}
	return db
}
