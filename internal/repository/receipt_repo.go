package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptRepository persists material receipts and their lines
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *model.MaterialReceipt) error
	Save(ctx context.Context, receipt *model.MaterialReceipt) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error)
	List(ctx context.Context, page, limit int, status model.ReceiptStatus) ([]model.MaterialReceipt, int64, error)
	CreateItem(ctx context.Context, item *model.MaterialReceiptItem) error
	SaveItem(ctx context.Context, item *model.MaterialReceiptItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.MaterialReceiptItem, error)
	FindItemsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]model.MaterialReceiptItem, error)
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *model.MaterialReceipt) error {
	return GetDB(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) Save(ctx context.Context, receipt *model.MaterialReceipt) error {
	return GetDB(ctx, r.db).Omit("Items", "Warehouse", "User").Save(receipt).Error
}

func (r *receiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("receipt_id = ?", id).Delete(&model.MaterialReceiptItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.MaterialReceipt{}).Error
}

func (r *receiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error) {
	var receipt model.MaterialReceipt
	if err := GetDB(ctx, r.db).
		Preload("Warehouse").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("material_receipt_items.created_at asc") }).
		Preload("Items.Item").
		First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error) {
	var receipt model.MaterialReceipt
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, page, limit int, status model.ReceiptStatus) ([]model.MaterialReceipt, int64, error) {
	var receipts []model.MaterialReceipt
	var total int64

	db := GetDB(ctx, r.db).Model(&model.MaterialReceipt{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Warehouse").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("material_receipt_items.created_at asc") }).
		Preload("Items.Item").
		Order("receipt_date DESC").
		Offset(offset).Limit(limit).
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}

func (r *receiptRepository) CreateItem(ctx context.Context, item *model.MaterialReceiptItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *receiptRepository) SaveItem(ctx context.Context, item *model.MaterialReceiptItem) error {
	return GetDB(ctx, r.db).Omit("Item").Save(item).Error
}

func (r *receiptRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MaterialReceiptItem{}).Error
}

func (r *receiptRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.MaterialReceiptItem, error) {
	var item model.MaterialReceiptItem
	if err := GetDB(ctx, r.db).Preload("Item").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *receiptRepository) FindItemsByReceipt(ctx context.Context, receiptID uuid.UUID) ([]model.MaterialReceiptItem, error) {
	var items []model.MaterialReceiptItem
	if err := GetDB(ctx, r.db).Preload("Item").
		Where("receipt_id = ?", receiptID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
