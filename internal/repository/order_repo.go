package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists order headers and their line items
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Save(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, page, limit int, status model.OrderStatus) ([]model.Order, int64, error)
	CreateItem(ctx context.Context, item *model.OrderItem) error
	SaveItem(ctx context.Context, item *model.OrderItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error)
	FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return GetDB(ctx, r.db).Omit("Items", "Warehouse", "User").Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Order{}).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).
		Preload("Warehouse").
		Preload("User").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at asc") }).
		Preload("Items.Item").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the header row without preloads; transitions use
// it for the in-transaction status re-check.
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, page, limit int, status model.OrderStatus) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Order{})
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
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at asc") }).
		Preload("Items.Item").
		Order("order_date DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CreateItem(ctx context.Context, item *model.OrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *orderRepository) SaveItem(ctx context.Context, item *model.OrderItem) error {
	return GetDB(ctx, r.db).Omit("Item").Save(item).Error
}

func (r *orderRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.OrderItem{}).Error
}

func (r *orderRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := GetDB(ctx, r.db).Preload("Item").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) FindItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := GetDB(ctx, r.db).Preload("Item").
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
