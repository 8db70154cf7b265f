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

type ReceiptLineRequest struct {
	ItemID          string          `json:"item_id" binding:"required"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

type CreateReceiptRequest struct {
	WarehouseID string               `json:"warehouse_id" binding:"required"`
	Supplier    string               `json:"supplier"`
	Notes       string               `json:"notes"`
	ReceiptDate string               `json:"receipt_date"`
	Items       []ReceiptLineRequest `json:"items" binding:"omitempty,dive"`
}

type UpdateReceiptRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Supplier    string `json:"supplier"`
	Notes       string `json:"notes"`
	ReceiptDate string `json:"receipt_date"`
}

// ReceiptService drives the material receipt lifecycle. Unlike orders
// there is no confirmation step: PENDING goes straight to RECEIVED or
// CANCELLED. Receiving credits item stock line by line.
type ReceiptService interface {
	CreateReceipt(ctx context.Context, userID string, req CreateReceiptRequest) (*model.MaterialReceipt, error)
	GetReceipt(ctx context.Context, id string) (*model.MaterialReceipt, error)
	ListReceipts(ctx context.Context, page, limit int, status string) ([]model.MaterialReceipt, int64, error)
	UpdateReceipt(ctx context.Context, id string, req UpdateReceiptRequest) (*model.MaterialReceipt, error)
	DeleteReceipt(ctx context.Context, id string) error
	Receive(ctx context.Context, userID string, id string) (*model.MaterialReceipt, error)
	Cancel(ctx context.Context, id string) (*model.MaterialReceipt, error)
	ListItems(ctx context.Context, receiptID string) ([]model.MaterialReceiptItem, error)
	AddItem(ctx context.Context, receiptID string, req ReceiptLineRequest) (*model.MaterialReceiptItem, error)
	UpdateItem(ctx context.Context, itemID string, req ReceiptLineRequest) (*model.MaterialReceiptItem, error)
	RemoveItem(ctx context.Context, itemID string) error
}

type receiptService struct {
	receiptRepo   repository.ReceiptRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	seqRepo       repository.SequenceRepository
	ledger        StockLedger
	recorder      TransactionService
	txManager     repository.TransactionManager
}

func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	seqRepo repository.SequenceRepository,
	ledger StockLedger,
	recorder TransactionService,
	txManager repository.TransactionManager,
) ReceiptService {
	return &receiptService{
		receiptRepo:   receiptRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		seqRepo:       seqRepo,
		ledger:        ledger,
		recorder:      recorder,
		txManager:     txManager,
	}
}

func (s *receiptService) CreateReceipt(ctx context.Context, userID string, req CreateReceiptRequest) (*model.MaterialReceipt, error) {
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
	}
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("warehouse not found: %s", req.WarehouseID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	receiptDate := time.Now()
	if req.ReceiptDate != "" {
		parsed, parseErr := parseOptionalTime(req.ReceiptDate)
		if parseErr != nil {
			return nil, apperr.Validation("invalid receipt date: %s", req.ReceiptDate)
		}
		receiptDate = *parsed
	}

	receipt := &model.MaterialReceipt{
		WarehouseID: &warehouseID,
		UserID:      parseUserID(userID),
		Status:      model.ReceiptStatusPending,
		ReceiptDate: receiptDate,
		Notes:       req.Notes,
		Supplier:    req.Supplier,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, seqErr := s.seqRepo.Next(txCtx, "MRN")
		if seqErr != nil {
			return fmt.Errorf("failed to generate receipt number: %w", seqErr)
		}
		receipt.ReceiptNumber = number

		if createErr := s.receiptRepo.Create(txCtx, receipt); createErr != nil {
			return fmt.Errorf("failed to create material receipt: %w", createErr)
		}

		for _, lineReq := range req.Items {
			if _, lineErr := s.createLine(txCtx, receipt.ID, lineReq); lineErr != nil {
				return lineErr
			}
		}

		return s.recomputeTotal(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}

	return s.GetReceipt(ctx, receipt.ID.String())
}

func (s *receiptService) GetReceipt(ctx context.Context, id string) (*model.MaterialReceipt, error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid receipt id: %s", id)
	}
	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material receipt not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return receipt, nil
}

func (s *receiptService) ListReceipts(ctx context.Context, page, limit int, status string) ([]model.MaterialReceipt, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" {
		switch model.ReceiptStatus(status) {
		case model.ReceiptStatusPending, model.ReceiptStatusReceived, model.ReceiptStatusCancelled:
		default:
			return nil, 0, apperr.Validation("unknown receipt status: %s", status)
		}
	}
	return s.receiptRepo.List(ctx, page, limit, model.ReceiptStatus(status))
}

func (s *receiptService) UpdateReceipt(ctx context.Context, id string, req UpdateReceiptRequest) (*model.MaterialReceipt, error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid receipt id: %s", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, lockErr := s.lockReceipt(txCtx, receiptID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("receipt %s can only be edited while PENDING (current: %s)", receipt.ReceiptNumber, receipt.Status)
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
			receipt.WarehouseID = &warehouseID
		}
		if req.Supplier != "" {
			receipt.Supplier = req.Supplier
		}
		if req.Notes != "" {
			receipt.Notes = req.Notes
		}
		if req.ReceiptDate != "" {
			parsed, parseErr := parseOptionalTime(req.ReceiptDate)
			if parseErr != nil {
				return apperr.Validation("invalid receipt date: %s", req.ReceiptDate)
			}
			receipt.ReceiptDate = *parsed
		}

		return s.receiptRepo.Save(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}

	return s.GetReceipt(ctx, id)
}

func (s *receiptService) DeleteReceipt(ctx context.Context, id string) error {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid receipt id: %s", id)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, lockErr := s.lockReceipt(txCtx, receiptID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("receipt %s can only be deleted while PENDING (current: %s)", receipt.ReceiptNumber, receipt.Status)
		}
		return s.receiptRepo.Delete(txCtx, receiptID)
	})
}

// Receive credits each line's quantity to item stock and records one
// INBOUND transaction per line, then stamps the header RECEIVED.
func (s *receiptService) Receive(ctx context.Context, userID string, id string) (*model.MaterialReceipt, error) {
	pre, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	var results []MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, lockErr := s.lockReceipt(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != pre.Status {
			return apperr.Concurrent("receipt %s changed status concurrently (was %s, now %s)", receipt.ReceiptNumber, pre.Status, receipt.Status)
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("receipt %s can only be received from PENDING (current: %s)", receipt.ReceiptNumber, receipt.Status)
		}

		items, itemsErr := s.receiptRepo.FindItemsByReceipt(txCtx, receipt.ID)
		if itemsErr != nil {
			return fmt.Errorf("failed to load receipt items: %w", itemsErr)
		}
		if len(items) == 0 {
			return apperr.Validation("receipt %s has no line items", receipt.ReceiptNumber)
		}

		movements := make([]Movement, 0, len(items))
		for _, line := range items {
			movements = append(movements, Movement{
				EntityType: model.EntityTypeItem,
				EntityID:   line.ItemID,
				Delta:      line.OrderedQuantity,
			})
		}
		var applyErr error
		results, applyErr = s.ledger.Apply(txCtx, movements)
		if applyErr != nil {
			return applyErr
		}

		total := decimal.Zero
		for i := range items {
			line := &items[i]
			line.ReceivedQuantity = line.OrderedQuantity
			line.TotalPrice = line.ReceivedQuantity.Mul(line.UnitPrice)
			if saveErr := s.receiptRepo.SaveItem(txCtx, line); saveErr != nil {
				return fmt.Errorf("failed to update receipt item: %w", saveErr)
			}
			total = total.Add(line.TotalPrice)

			itemID := line.ItemID
			record := &model.Transaction{
				TransactionType: model.TxTypeInbound,
				EntityType:      model.EntityTypeItem,
				ItemID:          &itemID,
				WarehouseID:     receipt.WarehouseID,
				UserID:          parseUserID(userID),
				Quantity:        line.ReceivedQuantity,
				UnitPrice:       line.UnitPrice,
				StockAfter:      results[i].NewQuantity,
				ReferenceNumber: receipt.ReceiptNumber,
				Notes:           fmt.Sprintf("Material receipt - %s from %s", receipt.ReceiptNumber, receipt.Supplier),
			}
			if recErr := s.recorder.Record(txCtx, record); recErr != nil {
				return recErr
			}
		}

		now := time.Now()
		receipt.Status = model.ReceiptStatusReceived
		receipt.ReceivedDate = &now
		receipt.TotalAmount = total
		return s.receiptRepo.Save(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce(results)

	return s.GetReceipt(ctx, id)
}

func (s *receiptService) Cancel(ctx context.Context, id string) (*model.MaterialReceipt, error) {
	pre, err := s.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, lockErr := s.lockReceipt(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != pre.Status {
			return apperr.Concurrent("receipt %s changed status concurrently (was %s, now %s)", receipt.ReceiptNumber, pre.Status, receipt.Status)
		}
		if receipt.Status.Terminal() {
			return apperr.InvalidState("receipt %s cannot be cancelled from %s", receipt.ReceiptNumber, receipt.Status)
		}

		receipt.Status = model.ReceiptStatusCancelled
		return s.receiptRepo.Save(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}

	return s.GetReceipt(ctx, id)
}

func (s *receiptService) ListItems(ctx context.Context, receiptID string) ([]model.MaterialReceiptItem, error) {
	receipt, err := s.GetReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.FindItemsByReceipt(ctx, receipt.ID)
}

func (s *receiptService) AddItem(ctx context.Context, receiptID string, req ReceiptLineRequest) (*model.MaterialReceiptItem, error) {
	id, err := uuid.Parse(receiptID)
	if err != nil {
		return nil, apperr.Validation("invalid receipt id: %s", receiptID)
	}

	var created *model.MaterialReceiptItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		receipt, lockErr := s.lockReceipt(txCtx, id)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("line items can only be added while receipt is PENDING (current: %s)", receipt.Status)
		}

		line, lineErr := s.createLine(txCtx, receipt.ID, req)
		if lineErr != nil {
			return lineErr
		}
		created = line

		return s.recomputeTotal(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *receiptService) UpdateItem(ctx context.Context, itemID string, req ReceiptLineRequest) (*model.MaterialReceiptItem, error) {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.Validation("invalid receipt item id: %s", itemID)
	}

	var updated *model.MaterialReceiptItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.receiptRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("receipt item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		receipt, lockErr := s.lockReceipt(txCtx, line.ReceiptID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("line items can only be edited while receipt is PENDING (current: %s)", receipt.Status)
		}

		if err := applyReceiptLineRequest(line, req); err != nil {
			return err
		}
		if saveErr := s.receiptRepo.SaveItem(txCtx, line); saveErr != nil {
			return fmt.Errorf("failed to update receipt item: %w", saveErr)
		}
		updated = line

		return s.recomputeTotal(txCtx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *receiptService) RemoveItem(ctx context.Context, itemID string) error {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return apperr.Validation("invalid receipt item id: %s", itemID)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.receiptRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("receipt item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		receipt, lockErr := s.lockReceipt(txCtx, line.ReceiptID)
		if lockErr != nil {
			return lockErr
		}
		if receipt.Status != model.ReceiptStatusPending {
			return apperr.InvalidState("line items can only be removed while receipt is PENDING (current: %s)", receipt.Status)
		}

		if delErr := s.receiptRepo.DeleteItem(txCtx, lineID); delErr != nil {
			return fmt.Errorf("failed to remove receipt item: %w", delErr)
		}

		return s.recomputeTotal(txCtx, receipt)
	})
}

func (s *receiptService) lockReceipt(ctx context.Context, id uuid.UUID) (*model.MaterialReceipt, error) {
	receipt, err := s.receiptRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("material receipt not found: %s", id)
		}
		return nil, fmt.Errorf("failed to lock material receipt: %w", err)
	}
	return receipt, nil
}

func (s *receiptService) createLine(ctx context.Context, receiptID uuid.UUID, req ReceiptLineRequest) (*model.MaterialReceiptItem, error) {
	line := &model.MaterialReceiptItem{ReceiptID: receiptID}
	if err := applyReceiptLineRequest(line, req); err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.FindByID(ctx, line.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found: %s", req.ItemID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.receiptRepo.CreateItem(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create receipt item: %w", err)
	}
	return line, nil
}

func (s *receiptService) recomputeTotal(ctx context.Context, receipt *model.MaterialReceipt) error {
	items, err := s.receiptRepo.FindItemsByReceipt(ctx, receipt.ID)
	if err != nil {
		return fmt.Errorf("failed to load receipt items: %w", err)
	}

	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.TotalPrice)
	}
	receipt.TotalAmount = total
	return s.receiptRepo.Save(ctx, receipt)
}

func applyReceiptLineRequest(line *model.MaterialReceiptItem, req ReceiptLineRequest) error {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return apperr.Validation("invalid item id: %s", req.ItemID)
	}
	if req.OrderedQuantity.IsZero() || req.OrderedQuantity.IsNegative() {
		return apperr.Validation("ordered quantity must be positive")
	}
	if req.UnitPrice.IsNegative() {
		return apperr.Validation("unit price cannot be negative")
	}

	line.ItemID = itemID
	line.Item = nil
	line.OrderedQuantity = req.OrderedQuantity
	line.UnitPrice = req.UnitPrice
	line.TotalPrice = req.OrderedQuantity.Mul(req.UnitPrice)
	return nil
}
