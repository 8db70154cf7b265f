package repository

import (
	"context"

	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarehouseRepository reads warehouse reference data. Warehouses are
// administered elsewhere; this backend only resolves and lists them.
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	List(ctx context.Context) ([]model.Warehouse, error)
}

type warehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) WarehouseRepository {
	return &warehouseRepository{db: db}
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	if err := GetDB(ctx, r.db).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *warehouseRepository) List(ctx context.Context) ([]model.Warehouse, error) {
	var warehouses []model.Warehouse
	if err := GetDB(ctx, r.db).Order("name asc").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}
