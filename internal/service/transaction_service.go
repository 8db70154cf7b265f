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

// Reference number prefixes, one sequence per type per day
var referencePrefixes = map[model.TransactionType]string{
	model.TxTypeInbound:    "INB",
	model.TxTypeOutbound:   "OUT",
	model.TxTypeProduction: "PRD",
	model.TxTypeTransfer:   "TRF",
	model.TxTypeAdjustment: "ADJ",
}

// ManualEntryRequest is a quick inbound/outbound entry posted directly
// against an item or product, outside any lifecycle document.
type ManualEntryRequest struct {
	EntityID    string          `json:"entity_id" binding:"required"`
	WarehouseID string          `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Notes       string          `json:"notes"`
}

// TransactionListQuery carries listing filters parsed by the handler
type TransactionListQuery struct {
	Page      int
	Limit     int
	Type      string
	Entity    string
	Status    string
	Warehouse string
	Item      string
	Product   string
	User      string
	Reference string
	From      string
	To        string
}

// TransactionService is the transaction recorder plus its query surface.
// Record appends only — recorded movements are never edited or deleted.
type TransactionService interface {
	Record(ctx context.Context, tx *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, q TransactionListQuery) ([]model.Transaction, int64, error)
	RecentTransactions(ctx context.Context) ([]model.Transaction, error)
	CreateManualEntry(ctx context.Context, userID string, entityType model.EntityType, txType model.TransactionType, req ManualEntryRequest) (*model.Transaction, error)
}

type transactionService struct {
	txRepo    repository.TransactionRepository
	seqRepo   repository.SequenceRepository
	ledger    StockLedger
	txManager repository.TransactionManager
}

func NewTransactionService(
	txRepo repository.TransactionRepository,
	seqRepo repository.SequenceRepository,
	ledger StockLedger,
	txManager repository.TransactionManager,
) TransactionService {
	return &transactionService{
		txRepo:    txRepo,
		seqRepo:   seqRepo,
		ledger:    ledger,
		txManager: txManager,
	}
}

// Record appends one immutable transaction. Derived fields are filled
// here: totalPrice from quantity × unitPrice, timestamp, status default,
// and a sequential reference number when the caller did not supply a
// source-document reference.
func (s *transactionService) Record(ctx context.Context, tx *model.Transaction) error {
	if tx.Quantity.IsZero() || tx.Quantity.IsNegative() {
		return apperr.Validation("transaction quantity must be positive")
	}
	if tx.EntityType == model.EntityTypeItem && tx.ItemID == nil {
		return apperr.Validation("item transaction requires an item reference")
	}
	if tx.EntityType == model.EntityTypeProduct && tx.ProductID == nil {
		return apperr.Validation("product transaction requires a product reference")
	}

	if tx.Status == "" {
		tx.Status = model.TxStatusCompleted
	}
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = time.Now()
	}
	tx.TotalPrice = tx.UnitPrice.Mul(tx.Quantity)

	if tx.ReferenceNumber == "" {
		prefix, ok := referencePrefixes[tx.TransactionType]
		if !ok {
			return apperr.Validation("unknown transaction type: %s", tx.TransactionType)
		}
		ref, err := s.seqRepo.Next(ctx, prefix)
		if err != nil {
			return fmt.Errorf("failed to generate reference number: %w", err)
		}
		tx.ReferenceNumber = ref
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}

func (s *transactionService) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid transaction id: %s", id)
	}
	tx, err := s.txRepo.FindByID(ctx, txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return tx, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, q TransactionListQuery) ([]model.Transaction, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}

	filter := repository.TransactionFilter{
		Type:       model.TransactionType(q.Type),
		EntityType: model.EntityType(q.Entity),
		Status:     model.TransactionStatus(q.Status),
		Reference:  q.Reference,
	}
	var err error
	if filter.WarehouseID, err = parseOptionalID(q.Warehouse); err != nil {
		return nil, 0, apperr.Validation("invalid warehouse id: %s", q.Warehouse)
	}
	if filter.ItemID, err = parseOptionalID(q.Item); err != nil {
		return nil, 0, apperr.Validation("invalid item id: %s", q.Item)
	}
	if filter.ProductID, err = parseOptionalID(q.Product); err != nil {
		return nil, 0, apperr.Validation("invalid product id: %s", q.Product)
	}
	if filter.UserID, err = parseOptionalID(q.User); err != nil {
		return nil, 0, apperr.Validation("invalid user id: %s", q.User)
	}
	if filter.From, err = parseOptionalTime(q.From); err != nil {
		return nil, 0, apperr.Validation("invalid from date: %s", q.From)
	}
	if filter.To, err = parseOptionalTime(q.To); err != nil {
		return nil, 0, apperr.Validation("invalid to date: %s", q.To)
	}

	return s.txRepo.List(ctx, q.Page, q.Limit, filter)
}

func (s *transactionService) RecentTransactions(ctx context.Context) ([]model.Transaction, error) {
	txs, _, err := s.txRepo.List(ctx, 1, 10, repository.TransactionFilter{})
	return txs, err
}

// CreateManualEntry posts a quick stock movement: the ledger adjustment
// and the transaction record share one unit of work, so an insufficient
// outbound leaves neither.
func (s *transactionService) CreateManualEntry(ctx context.Context, userID string, entityType model.EntityType, txType model.TransactionType, req ManualEntryRequest) (*model.Transaction, error) {
	if txType != model.TxTypeInbound && txType != model.TxTypeOutbound {
		return nil, apperr.Validation("manual entries must be INBOUND or OUTBOUND")
	}
	if req.Quantity.IsZero() || req.Quantity.IsNegative() {
		return nil, apperr.Validation("quantity must be positive")
	}

	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return nil, apperr.Validation("invalid entity id: %s", req.EntityID)
	}
	warehouseID, err := uuid.Parse(req.WarehouseID)
	if err != nil {
		return nil, apperr.Validation("invalid warehouse id: %s", req.WarehouseID)
	}

	delta := req.Quantity
	if txType == model.TxTypeOutbound {
		delta = delta.Neg()
	}

	var recorded *model.Transaction
	var result MovementResult
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var adjErr error
		result, adjErr = s.ledger.Adjust(txCtx, Movement{
			EntityType: entityType,
			EntityID:   entityID,
			Delta:      delta,
		})
		if adjErr != nil {
			return adjErr
		}

		tx := &model.Transaction{
			TransactionType: txType,
			EntityType:      entityType,
			WarehouseID:     &warehouseID,
			UserID:          parseUserID(userID),
			Quantity:        req.Quantity,
			UnitPrice:       req.UnitPrice,
			StockAfter:      result.NewQuantity,
			Notes:           req.Notes,
		}
		if entityType == model.EntityTypeItem {
			tx.ItemID = &entityID
		} else {
			tx.ProductID = &entityID
		}

		if recErr := s.Record(txCtx, tx); recErr != nil {
			return recErr
		}
		recorded = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.ledger.Announce([]MovementResult{result})
	return recorded, nil
}

func parseOptionalID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Fall back to date-only input from the UI's date pickers
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func parseUserID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}
