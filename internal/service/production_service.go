package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductionLineRequest struct {
	ItemID           string          `json:"item_id" binding:"required"`
	RequiredQuantity decimal.Decimal `json:"required_quantity" binding:"required"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
}

type CreateProductionRequest struct {
	ProductID       string                  `json:"product_id" binding:"required"`
	WarehouseID     string                  `json:"warehouse_id" binding:"required"`
	PlannedQuantity decimal.Decimal         `json:"planned_quantity" binding:"required"`
	PlannedDate     string                  `json:"planned_date"`
	Notes           string                  `json:"notes"`
	Items           []ProductionLineRequest `json:"items" binding:"omitempty,dive"`
}

type UpdateProductionRequest struct {
	WarehouseID     string           `json:"warehouse_id"`
	PlannedQuantity *decimal.Decimal `json:"planned_quantity"`
	PlannedDate     string           `json:"planned_date"`
	Notes           string           `json:"notes"`
}

// ProductionService drives the manufacturing lifecycle:
//
//	PLANNED → IN_PROGRESS → COMPLETED
//	IN_PROGRESS ⇄ ON_HOLD
//	CANCELLED from any non-terminal state
//
// Start debits every raw-material line from item stock in one atomic
// batch. Complete credits the finished product. Cancelling after start
// restores the consumed materials with compensating adjustments.
type ProductionService interface {
	CreateProduction(ctx context.Context, userID string, req CreateProductionRequest) (*model.Production, error)
	GetProduction(ctx context.Context, id string) (*model.Production, error)
	ListProductions(ctx context.Context, page, limit int, status string) ([]model.Production, int64, error)
	UpdateProduction(ctx context.Context, id string, req UpdateProductionRequest) (*model.Production, error)
	DeleteProduction(ctx context.Context, id string) error
	Start(ctx context.Context, userID string, id string) (*model.Production, error)
	Complete(ctx context.Context, userID string, id string) (*model.Production, error)
	Hold(ctx context.Context, id string) (*model.Production, error)
	Resume(ctx context.Context, id string) (*model.Production, error)
	Cancel(ctx context.Context, userID string, id string) (*model.Production, error)
	ListItems(ctx context.Context, productionID string) ([]model.ProductionItem, error)
	AddItem(ctx context.Context, productionID string, req ProductionLineRequest) (*model.ProductionItem, error)
	UpdateItem(ctx context.Context, itemID string, req ProductionLineRequest) (*model.ProductionItem, error)
	RemoveItem(ctx context.Context, itemID string) error
}

type productionService struct {
	productionRepo repository.ProductionRepository
	itemRepo       repository.ItemRepository
	productRepo    repository.ProductRepository
	warehouseRepo  repository.WarehouseRepository
	seqRepo        repository.SequenceRepository
	ledger         StockLedger
	recorder       TransactionService
	txManager      repository.TransactionManager
}

func NewProductionService(
	productionRepo repository.ProductionRepository,
	itemRepo repository.ItemRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	seqRepo repository.SequenceRepository,
	ledger StockLedger,
	recorder TransactionService,
	txManager repository.TransactionManager,
) ProductionService {
	return &productionService{
		productionRepo: productionRepo,
		itemRepo:       itemRepo,
		productRepo:    productRepo,
		warehouseRepo:  warehouseRepo,
		seqRepo:        seqRepo,
		ledger:         ledger,
		recorder:       recorder,
		txManager:      txManager,
	}
}

// --- CRUD ---

func (s *productionService) CreateProduction(ctx context.Context, userID string, req CreateProductionRequest) (*model.Production, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperr.Validation("invalid product id: %s", req.ProductID)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
	}
	if req.PlannedQuantity.IsZero() || req.PlannedQuantity.IsNegative() {
		return nil, apperr.Validation("planned quantity must be positive")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found: %s", req.ProductID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("warehouse not found: %s", req.WarehouseID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	production := &model.Production{
		ProductID:       &productID,
		WarehouseID:     &warehouseID,
		UserID:          parseUserID(userID),
		PlannedQuantity: req.PlannedQuantity,
		Status:          model.ProductionStatusPlanned,
		Notes:           req.Notes,
	}
	if req.PlannedDate != "" {
		parsed, parseErr := parseOptionalTime(req.PlannedDate)
		if parseErr != nil {
			return nil, apperr.Validation("invalid planned date: %s", req.PlannedDate)
		}
		production.PlannedDate = parsed
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, seqErr := s.seqRepo.Next(txCtx, "PRO")
		if seqErr != nil {
			return fmt.Errorf("failed to generate production number: %w", seqErr)
		}
		production.ProductionNumber = number

		if createErr := s.productionRepo.Create(txCtx, production); createErr != nil {
			return fmt.Errorf("failed to create production: %w", createErr)
		}

		for _, lineReq := range req.Items {
			if _, lineErr := s.createLine(txCtx, production.ID, lineReq); lineErr != nil {
				return lineErr
			}
		}

		return s.recomputeCost(txCtx, production)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduction(ctx, production.ID.String())
}

func (s *productionService) GetProduction(ctx context.Context, id string) (*model.Production, error) {
	productionID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid production id: %s", id)
	}
	production, err := s.productionRepo.FindByID(ctx, productionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("production not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return production, nil
}

func (s *productionService) ListProductions(ctx context.Context, page, limit int, status string) ([]model.Production, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" {
		switch model.ProductionStatus(status) {
		case model.ProductionStatusPlanned, model.ProductionStatusInProgress, model.ProductionStatusOnHold,
			model.ProductionStatusCompleted, model.ProductionStatusCancelled:
		default:
			return nil, 0, apperr.Validation("unknown production status: %s", status)
		}
	}
	return s.productionRepo.List(ctx, page, limit, model.ProductionStatus(status))
}

func (s *productionService) UpdateProduction(ctx context.Context, id string, req UpdateProductionRequest) (*model.Production, error) {
	productionID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid production id: %s", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, productionID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("production %s can only be edited while PLANNED (current: %s)", production.ProductionNumber, production.Status)
		}

		if req.WarehouseID != "" {
			warehouseID, parseErr := uuid.Parse(req.WarehouseID)
			if parseErr != nil {
				return apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
			}
			if _, findErr := s.warehouseRepo.FindByID(txCtx, warehouseID); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return apperr.NotFound("warehouse not found: %s", req.WarehouseID)
				}
				return fmt.Errorf("database error: %w", findErr)
			}
			production.WarehouseID = &warehouseID
		}
		if req.PlannedQuantity != nil {
			if req.PlannedQuantity.IsZero() || req.PlannedQuantity.IsNegative() {
				return apperr.Validation("planned quantity must be positive")
			}
			production.PlannedQuantity = *req.PlannedQuantity
		}
		if req.PlannedDate != "" {
			parsed, parseErr := parseOptionalTime(req.PlannedDate)
			if parseErr != nil {
				return apperr.Validation("invalid planned date: %s", req.PlannedDate)
			}
			production.PlannedDate = parsed
		}
		if req.Notes != "" {
			production.Notes = req.Notes
		}

		return s.productionRepo.Save(txCtx, production)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduction(ctx, id)
}

func (s *productionService) DeleteProduction(ctx context.Context, id string) error {
	productionID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid production id: %s", id)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, productionID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("production %s can only be deleted while PLANNED (current: %s)", production.ProductionNumber, production.Status)
		}
		return s.productionRepo.Delete(txCtx, productionID)
	})
}

// --- Transitions ---

// Start debits every required raw material from item stock. The batch is
// all-or-nothing: one short line fails the whole transition and no stock
// moves. Each line's used quantity is stamped and one PRODUCTION
// transaction per line is recorded.
func (s *productionService) Start(ctx context.Context, userID string, id string) (*model.Production, error) {
	pre, err := s.GetProduction(ctx, id)
	if err != nil {
		return nil, err
	}

	var results []MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != pre.Status {
			return apperr.Concurrent("production %s changed status concurrently (was %s, now %s)", production.ProductionNumber, pre.Status, production.Status)
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("production %s can only be started from PLANNED (current: %s)", production.ProductionNumber, production.Status)
		}

		items, itemsErr := s.productionRepo.FindItemsByProduction(txCtx, production.ID)
		if itemsErr != nil {
			return fmt.Errorf("failed to load production items: %w", itemsErr)
		}
		if len(items) == 0 {
			return apperr.Validation("production %s has no material lines", production.ProductionNumber)
		}

		movements := make([]Movement, 0, len(items))
		for _, line := range items {
			movements = append(movements, Movement{
				EntityType: model.EntityTypeItem,
				EntityID:   line.ItemID,
				Delta:      line.RequiredQuantity.Neg(),
			})
		}
		var applyErr error
		results, applyErr = s.ledger.Apply(txCtx, movements)
		if applyErr != nil {
			return applyErr
		}

		for i := range items {
			line := &items[i]
			line.UsedQuantity = line.RequiredQuantity
			line.TotalCost = line.UsedQuantity.Mul(line.UnitCost)
			if saveErr := s.productionRepo.SaveItem(txCtx, line); saveErr != nil {
				return fmt.Errorf("failed to update production item: %w", saveErr)
			}

			itemID := line.ItemID
			record := &model.Transaction{
				TransactionType: model.TxTypeProduction,
				EntityType:      model.EntityTypeItem,
				ItemID:          &itemID,
				WarehouseID:     production.WarehouseID,
				UserID:          parseUserID(userID),
				Quantity:        line.UsedQuantity,
				UnitPrice:       line.UnitCost,
				StockAfter:      results[i].NewQuantity,
				ReferenceNumber: production.ProductionNumber,
				Notes:           fmt.Sprintf("Material consumed - %s", production.ProductionNumber),
			}
			if recErr := s.recorder.Record(txCtx, record); recErr != nil {
				return recErr
			}
		}

		now := time.Now()
		production.Status = model.ProductionStatusInProgress
		production.StartDate = &now
		return s.productionRepo.Save(txCtx, production)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce(results)

	return s.GetProduction(ctx, id)
}

// Complete credits the finished product by the planned quantity and
// records a PRODUCT-side PRODUCTION transaction.
func (s *productionService) Complete(ctx context.Context, userID string, id string) (*model.Production, error) {
	pre, err := s.GetProduction(ctx, id)
	if err != nil {
		return nil, err
	}

	var result MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != pre.Status {
			return apperr.Concurrent("production %s changed status concurrently (was %s, now %s)", production.ProductionNumber, pre.Status, production.Status)
		}
		if production.Status != model.ProductionStatusInProgress {
			return apperr.InvalidState("production %s can only be completed from IN_PROGRESS (current: %s)", production.ProductionNumber, production.Status)
		}
		if production.ProductID == nil {
			return apperr.Validation("production %s has no product", production.ProductionNumber)
		}

		product, prodErr := s.productRepo.FindByID(txCtx, *production.ProductID)
		if prodErr != nil {
			if errors.Is(prodErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found: %s", production.ProductID)
			}
			return fmt.Errorf("database error: %w", prodErr)
		}

		var applyErr error
		result, applyErr = s.ledger.Adjust(txCtx, Movement{
			EntityType: model.EntityTypeProduct,
			EntityID:   product.ID,
			Delta:      production.PlannedQuantity,
		})
		if applyErr != nil {
			return applyErr
		}

		productID := product.ID
		record := &model.Transaction{
			TransactionType: model.TxTypeProduction,
			EntityType:      model.EntityTypeProduct,
			ProductID:       &productID,
			WarehouseID:     production.WarehouseID,
			UserID:          parseUserID(userID),
			Quantity:        production.PlannedQuantity,
			UnitPrice:       product.SalePrice,
			StockAfter:      result.NewQuantity,
			ReferenceNumber: production.ProductionNumber,
			Notes:           fmt.Sprintf("Production completed - %s", production.ProductionNumber),
		}
		if recErr := s.recorder.Record(txCtx, record); recErr != nil {
			return recErr
		}

		now := time.Now()
		production.Status = model.ProductionStatusCompleted
		production.ProducedQuantity = production.PlannedQuantity
		production.EndDate = &now
		return s.productionRepo.Save(txCtx, production)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce([]MovementResult{result})

	return s.GetProduction(ctx, id)
}

func (s *productionService) Hold(ctx context.Context, id string) (*model.Production, error) {
	return s.pauseTransition(ctx, id, model.ProductionStatusInProgress, model.ProductionStatusOnHold, "put on hold")
}

func (s *productionService) Resume(ctx context.Context, id string) (*model.Production, error) {
	return s.pauseTransition(ctx, id, model.ProductionStatusOnHold, model.ProductionStatusInProgress, "resumed")
}

// pauseTransition covers the two stock-neutral moves between IN_PROGRESS
// and ON_HOLD.
func (s *productionService) pauseTransition(ctx context.Context, id string, from, to model.ProductionStatus, verb string) (*model.Production, error) {
	pre, err := s.GetProduction(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != pre.Status {
			return apperr.Concurrent("production %s changed status concurrently (was %s, now %s)", production.ProductionNumber, pre.Status, production.Status)
		}
		if production.Status != from {
			return apperr.InvalidState("production %s can only be %s from %s (current: %s)", production.ProductionNumber, verb, from, production.Status)
		}

		production.Status = to
		return s.productionRepo.Save(txCtx, production)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduction(ctx, id)
}

// Cancel aborts the run from any non-terminal state. If materials were
// already consumed the debit is compensated: each line's used quantity is
// credited back with an ADJUSTMENT transaction and reset to zero.
func (s *productionService) Cancel(ctx context.Context, userID string, id string) (*model.Production, error) {
	pre, err := s.GetProduction(ctx, id)
	if err != nil {
		return nil, err
	}

	var restored []MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != pre.Status {
			return apperr.Concurrent("production %s changed status concurrently (was %s, now %s)", production.ProductionNumber, pre.Status, production.Status)
		}
		if production.Status.Terminal() {
			return apperr.InvalidState("production %s cannot be cancelled from %s", production.ProductionNumber, production.Status)
		}

		if production.Status.Debited() {
			results, restoreErr := s.restoreMaterials(txCtx, userID, production)
			if restoreErr != nil {
				return restoreErr
			}
			restored = results
		}

		production.Status = model.ProductionStatusCancelled
		return s.productionRepo.Save(txCtx, production)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce(restored)

	return s.GetProduction(ctx, id)
}

func (s *productionService) restoreMaterials(ctx context.Context, userID string, production *model.Production) ([]MovementResult, error) {
	items, err := s.productionRepo.FindItemsByProduction(ctx, production.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load production items: %w", err)
	}

	movements := make([]Movement, 0, len(items))
	consumed := make([]*model.ProductionItem, 0, len(items))
	for i := range items {
		line := &items[i]
		if line.UsedQuantity.IsZero() {
			continue
		}
		movements = append(movements, Movement{
			EntityType: model.EntityTypeItem,
			EntityID:   line.ItemID,
			Delta:      line.UsedQuantity,
		})
		consumed = append(consumed, line)
	}
	if len(movements) == 0 {
		return nil, nil
	}

	results, err := s.ledger.Apply(ctx, movements)
	if err != nil {
		return nil, err
	}

	for i, line := range consumed {
		itemID := line.ItemID
		record := &model.Transaction{
			TransactionType: model.TxTypeAdjustment,
			EntityType:      model.EntityTypeItem,
			ItemID:          &itemID,
			WarehouseID:     production.WarehouseID,
			UserID:          parseUserID(userID),
			Quantity:        line.UsedQuantity,
			UnitPrice:       line.UnitCost,
			StockAfter:      results[i].NewQuantity,
			ReferenceNumber: production.ProductionNumber,
			Notes:           fmt.Sprintf("Production cancelled - materials restored - %s", production.ProductionNumber),
		}
		if recErr := s.recorder.Record(ctx, record); recErr != nil {
			return nil, recErr
		}

		line.UsedQuantity = decimal.Zero
		if saveErr := s.productionRepo.SaveItem(ctx, line); saveErr != nil {
			return nil, fmt.Errorf("failed to update production item: %w", saveErr)
		}
	}
	return results, nil
}

// --- Line items ---

func (s *productionService) ListItems(ctx context.Context, productionID string) ([]model.ProductionItem, error) {
	production, err := s.GetProduction(ctx, productionID)
	if err != nil {
		return nil, err
	}
	return s.productionRepo.FindItemsByProduction(ctx, production.ID)
}

func (s *productionService) AddItem(ctx context.Context, productionID string, req ProductionLineRequest) (*model.ProductionItem, error) {
	id, err := uuid.Parse(productionID)
	if err != nil {
		return nil, apperr.Validation("invalid production id: %s", productionID)
	}

	var created *model.ProductionItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		production, lockErr := s.lockProduction(txCtx, id)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("material lines can only be added while production is PLANNED (current: %s)", production.Status)
		}

		line, lineErr := s.createLine(txCtx, production.ID, req)
		if lineErr != nil {
			return lineErr
		}
		created = line

		return s.recomputeCost(txCtx, production)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *productionService) UpdateItem(ctx context.Context, itemID string, req ProductionLineRequest) (*model.ProductionItem, error) {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.Validation("invalid production item id: %s", itemID)
	}

	var updated *model.ProductionItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.productionRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("production item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		production, lockErr := s.lockProduction(txCtx, line.ProductionID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("material lines can only be edited while production is PLANNED (current: %s)", production.Status)
		}

		if err := applyProductionLineRequest(line, req); err != nil {
			return err
		}
		if saveErr := s.productionRepo.SaveItem(txCtx, line); saveErr != nil {
			return fmt.Errorf("failed to update production item: %w", saveErr)
		}
		updated = line

		return s.recomputeCost(txCtx, production)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productionService) RemoveItem(ctx context.Context, itemID string) error {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return apperr.Validation("invalid production item id: %s", itemID)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.productionRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("production item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		production, lockErr := s.lockProduction(txCtx, line.ProductionID)
		if lockErr != nil {
			return lockErr
		}
		if production.Status != model.ProductionStatusPlanned {
			return apperr.InvalidState("material lines can only be removed while production is PLANNED (current: %s)", production.Status)
		}

		if delErr := s.productionRepo.DeleteItem(txCtx, lineID); delErr != nil {
			return fmt.Errorf("failed to remove production item: %w", delErr)
		}

		return s.recomputeCost(txCtx, production)
	})
}

// --- Helpers ---

func (s *productionService) lockProduction(ctx context.Context, id uuid.UUID) (*model.Production, error) {
	production, err := s.productionRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("production not found: %s", id)
		}
		return nil, fmt.Errorf("failed to lock production: %w", err)
	}
	return production, nil
}

func (s *productionService) createLine(ctx context.Context, productionID uuid.UUID, req ProductionLineRequest) (*model.ProductionItem, error) {
	line := &model.ProductionItem{ProductionID: productionID}
	if err := applyProductionLineRequest(line, req); err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.FindByID(ctx, line.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found: %s", req.ItemID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.productionRepo.CreateItem(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create production item: %w", err)
	}
	return line, nil
}

func (s *productionService) recomputeCost(ctx context.Context, production *model.Production) error {
	items, err := s.productionRepo.FindItemsByProduction(ctx, production.ID)
	if err != nil {
		return fmt.Errorf("failed to load production items: %w", err)
	}

	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.TotalCost)
	}
	production.TotalCost = total
	return s.productionRepo.Save(ctx, production)
}

func applyProductionLineRequest(line *model.ProductionItem, req ProductionLineRequest) error {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid item id: %s", req.ItemID)
	}
	if req.RequiredQuantity.IsZero() || req.RequiredQuantity.IsNegative() {
		return apperr.Validation("required quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return apperr.Validation("unit cost cannot be negative")
	}

	line.ItemID = itemID
	line.Item = nil
	line.RequiredQuantity = req.RequiredQuantity
	line.UnitCost = req.UnitCost
	line.TotalCost = req.RequiredQuantity.Mul(req.UnitCost)
	return nil
}
