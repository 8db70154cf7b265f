package service

import (
	"context"
	"errors"
	"fmt"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateItemRequest struct {
	Code        string          `json:"code" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	CategoryID  string          `json:"category_id"`
	WarehouseID string          `json:"warehouse_id"`
	UnitID      string          `json:"unit_id"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
}

type UpdateItemRequest struct {
	Name        string           `json:"name"`
	CategoryID  string           `json:"category_id"`
	WarehouseID string           `json:"warehouse_id"`
	UnitID      string           `json:"unit_id"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
}

type CreateProductRequest struct {
	Code           string          `json:"code" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	CategoryID     string          `json:"category_id"`
	WarehouseID    string          `json:"warehouse_id"`
	UnitID         string          `json:"unit_id"`
	TotalCostPrice decimal.Decimal `json:"total_cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
}

type UpdateProductRequest struct {
	Name           string           `json:"name"`
	CategoryID     string           `json:"category_id"`
	WarehouseID    string           `json:"warehouse_id"`
	UnitID         string           `json:"unit_id"`
	TotalCostPrice *decimal.Decimal `json:"total_cost_price"`
	SalePrice      *decimal.Decimal `json:"sale_price"`
	Description    string           `json:"description"`
}

// CatalogService manages the item and product master data plus the
// read-only warehouse list. Stock quantities are set only at creation;
// afterwards every change goes through the stock ledger.
type CatalogService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (*model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context, page, limit int, search string) ([]model.Item, int64, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.Item, error)
	DeleteItem(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
}

type catalogService struct {
	itemRepo      repository.ItemRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	txManager     repository.TransactionManager
}

func NewCatalogService(
	itemRepo repository.ItemRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		itemRepo:      itemRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		txManager:     txManager,
	}
}

// --- Items ---

func (s *catalogService) CreateItem(ctx context.Context, req CreateItemRequest) (*model.Item, error) {
	if req.Quantity.IsNegative() {
		return nil, apperr.Validation("quantity cannot be negative")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validation("price cannot be negative")
	}

	item := &model.Item{
		Code:        req.Code,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Quantity:    req.Quantity,
	}

	var err error
	if item.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		return nil, apperr.Validation("invalid category id: %s", req.CategoryID)
	}
	if item.WarehouseID, err = parseOptionalID(req.WarehouseID); err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
	}
	if item.UnitID, err = parseOptionalID(req.UnitID); err != nil {
		return nil, apperr.Validation("invalid unit id: %s", req.UnitID)
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("item code already exists: %s", req.Code)
		}
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return s.GetItem(ctx, item.ID.String())
}

func (s *catalogService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid item id: %s", id)
	}
	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return item, nil
}

func (s *catalogService) ListItems(ctx context.Context, page, limit int, search string) ([]model.Item, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.itemRepo.List(ctx, page, limit, search)
}

func (s *catalogService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.CategoryID != "" {
		if item.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
			return nil, apperr.Validation("invalid category id: %s", req.CategoryID)
		}
	}
	if req.WarehouseID != "" {
		if item.WarehouseID, err = parseOptionalID(req.WarehouseID); err != nil {
			return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
		}
	}
	if req.UnitID != "" {
		if item.UnitID, err = parseOptionalID(req.UnitID); err != nil {
			return nil, apperr.Validation("invalid unit id: %s", req.UnitID)
		}
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validation("price cannot be negative")
		}
		item.Price = *req.Price
	}
	if req.Description != "" {
		item.Description = req.Description
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return s.GetItem(ctx, id)
}

func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	pre, err := s.GetItem(ctx, id)
	if err != nil {
		return err
	}
	// The zero-stock check holds the row lock so a concurrent ledger
	// credit cannot land between check and delete.
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		item, lockErr := s.itemRepo.FindByIDForUpdate(txCtx, pre.ID)
		if lockErr != nil {
			return fmt.Errorf("failed to lock item: %w", lockErr)
		}
		if !item.Quantity.IsZero() {
			return apperr.InvalidState("item %s still has stock on hand (%s)", item.Code, item.Quantity)
		}
		return s.itemRepo.Delete(txCtx, item.ID)
	})
}

// --- Products ---

func (s *catalogService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	if req.Quantity.IsNegative() {
		return nil, apperr.Validation("quantity cannot be negative")
	}
	if req.TotalCostPrice.IsNegative() || req.SalePrice.IsNegative() {
		return nil, apperr.Validation("price cannot be negative")
	}

	product := &model.Product{
		Code:           req.Code,
		Name:           req.Name,
		TotalCostPrice: req.TotalCostPrice,
		SalePrice:      req.SalePrice,
		Description:    req.Description,
		Quantity:       req.Quantity,
	}

	var err error
	if product.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		return nil, apperr.Validation("invalid category id: %s", req.CategoryID)
	}
	if product.WarehouseID, err = parseOptionalID(req.WarehouseID); err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
	}
	if product.UnitID, err = parseOptionalID(req.UnitID); err != nil {
		return nil, apperr.Validation("invalid unit id: %s", req.UnitID)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("product code already exists: %s", req.Code)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.GetProduct(ctx, product.ID.String())
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %s", id)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return product, nil
}

func (s *catalogService) ListProducts(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.productRepo.List(ctx, page, limit, search)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if req.CategoryID != "" {
		if product.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
			return nil, apperr.Validation("invalid category id: %s", req.CategoryID)
		}
	}
	if req.WarehouseID != "" {
		if product.WarehouseID, err = parseOptionalID(req.WarehouseID); err != nil {
			return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
		}
	}
	if req.UnitID != "" {
		if product.UnitID, err = parseOptionalID(req.UnitID); err != nil {
			return nil, apperr.Validation("invalid unit id: %s", req.UnitID)
		}
	}
	if req.TotalCostPrice != nil {
		if req.TotalCostPrice.IsNegative() {
			return nil, apperr.Validation("price cannot be negative")
		}
		product.TotalCostPrice = *req.TotalCostPrice
	}
	if req.SalePrice != nil {
		if req.SalePrice.IsNegative() {
			return nil, apperr.Validation("price cannot be negative")
		}
		product.SalePrice = *req.SalePrice
	}
	if req.Description != "" {
		product.Description = req.Description
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.GetProduct(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id string) error {
	pre, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		product, lockErr := s.productRepo.FindByIDForUpdate(txCtx, pre.ID)
		if lockErr != nil {
			return fmt.Errorf("failed to lock product: %w", lockErr)
		}
		if !product.Quantity.IsZero() {
			return apperr.InvalidState("product %s still has stock on hand (%s)", product.Code, product.Quantity)
		}
		return s.productRepo.Delete(txCtx, product.ID)
	})
}

// --- Warehouses ---

func (s *catalogService) GetWarehouse(ctx context.Context, id string) (*model.Warehouse, error) {
	warehouseID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", id)
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("warehouse not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return warehouse, nil
}

func (s *catalogService) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.warehouseRepo.List(ctx)
}
