package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepository persists raw-material items. UpdateQuantity is reserved
// for the stock ledger; nothing else writes the quantity column.
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Item, int64, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

// Update never writes the quantity column; a stale struct must not
// overwrite a ledger adjustment committed since the read.
func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Omit("Quantity", "Category", "Warehouse", "Unit").Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Item{}).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).
		Preload("Category").
		Preload("Warehouse").
		Preload("Unit").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, page, limit int, search string) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Item{})
	if search != "" {
		db = db.Where("name ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Category").
		Preload("Warehouse").
		Preload("Unit").
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Item{}).Where("id = ?", id).Update("quantity", quantity).Error
}
