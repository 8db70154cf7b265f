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

// --- DTOs ---

type OrderLineRequest struct {
	ItemID          string          `json:"item_id" binding:"required"`
	OrderedQuantity decimal.Decimal `json:"ordered_quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	WarehouseID string             `json:"warehouse_id" binding:"required"`
	Supplier    string             `json:"supplier"`
	Notes       string             `json:"notes"`
	OrderDate   string             `json:"order_date"`
	Items       []OrderLineRequest `json:"items" binding:"omitempty,dive"`
}

type UpdateOrderRequest struct {
	WarehouseID string `json:"warehouse_id"`
	Supplier    string `json:"supplier"`
	Notes       string `json:"notes"`
	OrderDate   string `json:"order_date"`
}

// OrderService drives the order lifecycle:
// PENDING → CONFIRMED → RECEIVED, with CANCELLED reachable from both
// non-terminal states. Receiving credits item stock and records one
// INBOUND transaction per line in declaration order, atomically.
type OrderService interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error)
	UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, id string) error
	Confirm(ctx context.Context, id string) (*model.Order, error)
	Receive(ctx context.Context, userID string, id string) (*model.Order, error)
	Cancel(ctx context.Context, id string) (*model.Order, error)
	ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error)
	AddItem(ctx context.Context, orderID string, req OrderLineRequest) (*model.OrderItem, error)
	UpdateItem(ctx context.Context, itemID string, req OrderLineRequest) (*model.OrderItem, error)
	RemoveItem(ctx context.Context, itemID string) error
}

type orderService struct {
	orderRepo     repository.OrderRepository
	itemRepo      repository.ItemRepository
	warehouseRepo repository.WarehouseRepository
	seqRepo       repository.SequenceRepository
	ledger        StockLedger
	recorder      TransactionService
	txManager     repository.TransactionManager
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	warehouseRepo repository.WarehouseRepository,
	seqRepo repository.SequenceRepository,
	ledger StockLedger,
	recorder TransactionService,
	txManager repository.TransactionManager,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		itemRepo:      itemRepo,
		warehouseRepo: warehouseRepo,
		seqRepo:       seqRepo,
		ledger:        ledger,
		recorder:      recorder,
		txManager:     txManager,
	}
}

// --- CRUD ---

func (s *orderService) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*model.Order, error) {
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

	orderDate := time.Now()
	if req.OrderDate != "" {
		parsed, parseErr := parseOptionalTime(req.OrderDate)
		if parseErr != nil {
			return nil, apperr.Validation("invalid order date: %s", req.OrderDate)
		}
		orderDate = *parsed
	}

	order := &model.Order{
		WarehouseID: &warehouseID,
		UserID:      parseUserID(userID),
		Status:      model.OrderStatusPending,
		OrderDate:   orderDate,
		Notes:       req.Notes,
		Supplier:    req.Supplier,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		number, seqErr := s.seqRepo.Next(txCtx, "ORD")
		if seqErr != nil {
			return fmt.Errorf("failed to generate order number: %w", seqErr)
		}
		order.OrderNumber = number

		if createErr := s.orderRepo.Create(txCtx, order); createErr != nil {
			return fmt.Errorf("failed to create order: %w", createErr)
		}

		for _, lineReq := range req.Items {
			if _, lineErr := s.createLine(txCtx, order.ID, lineReq); lineErr != nil {
				return lineErr
			}
		}

		return s.recomputeTotal(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, order.ID.String())
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id: %s", id)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, page, limit int, status string) ([]model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if status != "" {
		switch model.OrderStatus(status) {
		case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusReceived, model.OrderStatusCancelled:
		default:
			return nil, 0, apperr.Validation("unknown order status: %s", status)
		}
	}
	return s.orderRepo.List(ctx, page, limit, model.OrderStatus(status))
}

// UpdateOrder edits header metadata. Permitted only while PENDING —
// afterwards the document is part of an audit chain.
func (s *orderService) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*model.Order, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid order id: %s", id)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, orderID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("order %s can only be edited while PENDING (current: %s)", order.OrderNumber, order.Status)
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
			order.WarehouseID = &warehouseID
		}
		if req.Supplier != "" {
			order.Supplier = req.Supplier
		}
		if req.Notes != "" {
			order.Notes = req.Notes
		}
		if req.OrderDate != "" {
			parsed, parseErr := parseOptionalTime(req.OrderDate)
			if parseErr != nil {
				return apperr.Validation("invalid order date: %s", req.OrderDate)
			}
			order.OrderDate = *parsed
		}

		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// DeleteOrder removes a PENDING order. Once any stock-affecting transition
// has happened the header is never deleted; cancellation is the only exit.
func (s *orderService) DeleteOrder(ctx context.Context, id string) error {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid order id: %s", id)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, orderID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("order %s can only be deleted while PENDING (current: %s)", order.OrderNumber, order.Status)
		}
		return s.orderRepo.Delete(txCtx, orderID)
	})
}

// --- Transitions ---

func (s *orderService) Confirm(ctx context.Context, id string) (*model.Order, error) {
	pre, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != pre.Status {
			return apperr.Concurrent("order %s changed status concurrently (was %s, now %s)", order.OrderNumber, pre.Status, order.Status)
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("order %s can only be confirmed from PENDING (current: %s)", order.OrderNumber, order.Status)
		}

		items, itemsErr := s.orderRepo.FindItemsByOrder(txCtx, order.ID)
		if itemsErr != nil {
			return fmt.Errorf("failed to load order items: %w", itemsErr)
		}
		if len(items) == 0 {
			return apperr.Validation("order %s has no line items", order.OrderNumber)
		}

		order.Status = model.OrderStatusConfirmed
		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// Receive performs the full-receipt transition: every line's received
// quantity is set to its ordered quantity, stock is credited through the
// ledger, and one INBOUND transaction per line is recorded — all in a
// single unit of work.
func (s *orderService) Receive(ctx context.Context, userID string, id string) (*model.Order, error) {
	pre, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	var results []MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != pre.Status {
			return apperr.Concurrent("order %s changed status concurrently (was %s, now %s)", order.OrderNumber, pre.Status, order.Status)
		}
		if order.Status != model.OrderStatusConfirmed {
			return apperr.InvalidState("order %s can only be received from CONFIRMED (current: %s)", order.OrderNumber, order.Status)
		}

		items, itemsErr := s.orderRepo.FindItemsByOrder(txCtx, order.ID)
		if itemsErr != nil {
			return fmt.Errorf("failed to load order items: %w", itemsErr)
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
			if saveErr := s.orderRepo.SaveItem(txCtx, line); saveErr != nil {
				return fmt.Errorf("failed to update order item: %w", saveErr)
			}
			total = total.Add(line.TotalPrice)

			itemID := line.ItemID
			record := &model.Transaction{
				TransactionType: model.TxTypeInbound,
				EntityType:      model.EntityTypeItem,
				ItemID:          &itemID,
				WarehouseID:     order.WarehouseID,
				UserID:          parseUserID(userID),
				Quantity:        line.ReceivedQuantity,
				UnitPrice:       line.UnitPrice,
				StockAfter:      results[i].NewQuantity,
				ReferenceNumber: order.OrderNumber,
				Notes:           fmt.Sprintf("Order received - %s from %s", order.OrderNumber, order.Supplier),
			}
			if recErr := s.recorder.Record(txCtx, record); recErr != nil {
				return recErr
			}
		}

		now := time.Now()
		order.Status = model.OrderStatusReceived
		order.ReceivedDate = &now
		order.TotalAmount = total
		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce(results)

	return s.GetOrder(ctx, id)
}

func (s *orderService) Cancel(ctx context.Context, id string) (*model.Order, error) {
	pre, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, pre.ID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != pre.Status {
			return apperr.Concurrent("order %s changed status concurrently (was %s, now %s)", order.OrderNumber, pre.Status, order.Status)
		}
		if order.Status.Terminal() {
			return apperr.InvalidState("order %s cannot be cancelled from %s", order.OrderNumber, order.Status)
		}

		// Nothing was ever credited before RECEIVED, so there is nothing
		// to reverse here.
		order.Status = model.OrderStatusCancelled
		return s.orderRepo.Save(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

// --- Line items ---

func (s *orderService) ListItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.FindItemsByOrder(ctx, order.ID)
}

func (s *orderService) AddItem(ctx context.Context, orderID string, req OrderLineRequest) (*model.OrderItem, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, apperr.Validation("invalid order id: %s", orderID)
	}

	var created *model.OrderItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, lockErr := s.lockOrder(txCtx, id)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("line items can only be added while order is PENDING (current: %s)", order.Status)
		}

		line, lineErr := s.createLine(txCtx, order.ID, req)
		if lineErr != nil {
			return lineErr
		}
		created = line

		return s.recomputeTotal(txCtx, order)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *orderService) UpdateItem(ctx context.Context, itemID string, req OrderLineRequest) (*model.OrderItem, error) {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return nil, apperr.Validation("invalid order item id: %s", itemID)
	}

	var updated *model.OrderItem
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.orderRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		order, lockErr := s.lockOrder(txCtx, line.OrderID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("line items can only be edited while order is PENDING (current: %s)", order.Status)
		}

		if err := applyOrderLineRequest(line, req); err != nil {
			return err
		}
		if saveErr := s.orderRepo.SaveItem(txCtx, line); saveErr != nil {
			return fmt.Errorf("failed to update order item: %w", saveErr)
		}
		updated = line

		return s.recomputeTotal(txCtx, order)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *orderService) RemoveItem(ctx context.Context, itemID string) error {
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return apperr.Validation("invalid order item id: %s", itemID)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		line, findErr := s.orderRepo.FindItemByID(txCtx, lineID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return apperr.NotFound("order item not found: %s", itemID)
			}
			return fmt.Errorf("database error: %w", findErr)
		}

		order, lockErr := s.lockOrder(txCtx, line.OrderID)
		if lockErr != nil {
			return lockErr
		}
		if order.Status != model.OrderStatusPending {
			return apperr.InvalidState("line items can only be removed while order is PENDING (current: %s)", order.Status)
		}

		if delErr := s.orderRepo.DeleteItem(txCtx, lineID); delErr != nil {
			return fmt.Errorf("failed to remove order item: %w", delErr)
		}

		return s.recomputeTotal(txCtx, order)
	})
}

// --- Helpers ---

func (s *orderService) lockOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found: %s", id)
		}
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return order, nil
}

func (s *orderService) createLine(ctx context.Context, orderID uuid.UUID, req OrderLineRequest) (*model.OrderItem, error) {
	line := &model.OrderItem{OrderID: orderID}
	if err := applyOrderLineRequest(line, req); err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.FindByID(ctx, line.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("item not found: %s", req.ItemID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if err := s.orderRepo.CreateItem(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create order item: %w", err)
	}
	return line, nil
}

// recomputeTotal re-derives the denormalized header total from the lines.
// Pre-fulfillment the basis is the ordered quantity; receive switches the
// basis to received quantities when it writes the total itself.
func (s *orderService) recomputeTotal(ctx context.Context, order *model.Order) error {
	items, err := s.orderRepo.FindItemsByOrder(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	total := decimal.Zero
	for _, line := range items {
		total = total.Add(line.TotalPrice)
	}
	order.TotalAmount = total
	return s.orderRepo.Save(ctx, order)
}

func applyOrderLineRequest(line *model.OrderItem, req OrderLineRequest) error {
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
