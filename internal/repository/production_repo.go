package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductionRepository persists production headers and requirement lines
type ProductionRepository interface {
	Create(ctx context.Context, production *model.Production) error
	Save(ctx context.Context, production *model.Production) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Production, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Production, error)
	List(ctx context.Context, page, limit int, status model.ProductionStatus) ([]model.Production, int64, error)
	CreateItem(ctx context.Context, item *model.ProductionItem) error
	SaveItem(ctx context.Context, item *model.ProductionItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.ProductionItem, error)
	FindItemsByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionItem, error)
}

type productionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) ProductionRepository {
	return &productionRepository{db: db}
}

func (r *productionRepository) Create(ctx context.Context, production *model.Production) error {
	return GetDB(ctx, r.db).Create(production).Error
}

func (r *productionRepository) Save(ctx context.Context, production *model.Production) error {
	return GetDB(ctx, r.db).Omit("Items", "Product", "Warehouse", "User").Save(production).Error
}

func (r *productionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("production_id = ?", id).Delete(&model.ProductionItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Production{}).Error
}

func (r *productionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Production, error) {
	var production model.Production
	if err := GetDB(ctx, r.db).
		Preload("Product").
		Preload("Warehouse").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("production_items.created_at asc") }).
		Preload("Items.Item").
		First(&production, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &production, nil
}

func (r *productionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Production, error) {
	var production model.Production
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&production).Error; err != nil {
		return nil, err
	}
	return &production, nil
}

func (r *productionRepository) List(ctx context.Context, page, limit int, status model.ProductionStatus) ([]model.Production, int64, error) {
	var productions []model.Production
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Production{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Product").
		Preload("Warehouse").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("production_items.created_at asc") }).
		Preload("Items.Item").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&productions).Error; err != nil {
		return nil, 0, err
	}

	return productions, total, nil
}

func (r *productionRepository) CreateItem(ctx context.Context, item *model.ProductionItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *productionRepository) SaveItem(ctx context.Context, item *model.ProductionItem) error {
	return GetDB(ctx, r.db).Omit("Item").Save(item).Error
}

func (r *productionRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.ProductionItem{}).Error
}

func (r *productionRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.ProductionItem, error) {
	var item model.ProductionItem
	if err := GetDB(ctx, r.db).Preload("Item").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *productionRepository) FindItemsByProduction(ctx context.Context, productionID uuid.UUID) ([]model.ProductionItem, error) {
	var items []model.ProductionItem
	if err := GetDB(ctx, r.db).Preload("Item").
		Where("production_id = ?", productionID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
