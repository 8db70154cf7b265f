package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"
	"warehouse-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is one requested stock change. Negative deltas consume stock
// and are subject to the non-negative guard; positive deltas are credits
// and always apply.
type Movement struct {
	EntityType model.EntityType
	EntityID   uuid.UUID
	Delta      decimal.Decimal
}

// MovementResult reports the applied movement with the resulting on-hand
// quantity, in the caller's declaration order.
type MovementResult struct {
	Movement
	EntityName  string
	NewQuantity decimal.Decimal
}

// EventPublisher pushes stock events to connected clients. Implemented by
// the websocket hub; nil disables publishing.
type EventPublisher interface {
	Publish(event string, data map[string]interface{})
}

// StockLedger is the single authority over on-hand quantities. Every
// lifecycle transition and manual entry funnels its stock effects through
// Apply, inside the same unit of work as the paired transaction records.
type StockLedger interface {
	Apply(ctx context.Context, movements []Movement) ([]MovementResult, error)
	Adjust(ctx context.Context, movement Movement) (MovementResult, error)
	Announce(results []MovementResult)
}

type stockLedger struct {
	itemRepo    repository.ItemRepository
	productRepo repository.ProductRepository
	events      EventPublisher
}

func NewStockLedger(itemRepo repository.ItemRepository, productRepo repository.ProductRepository, events EventPublisher) StockLedger {
	return &stockLedger{itemRepo: itemRepo, productRepo: productRepo, events: events}
}

// lockedEntity is a row snapshot held under FOR UPDATE with its running
// quantity while a batch is validated.
type lockedEntity struct {
	name     string
	quantity decimal.Decimal
}

// Apply validates and applies a batch of movements atomically. Rows are
// locked in stable (entityType, entityID) order so overlapping batches
// cannot deadlock, and every consumption is checked against the running
// quantity before anything is written.
func (l *stockLedger) Apply(ctx context.Context, movements []Movement) ([]MovementResult, error) {
	if len(movements) == 0 {
		return nil, nil
	}

	order := make([]int, len(movements))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := movements[order[a]], movements[order[b]]
		if ma.EntityType != mb.EntityType {
			return ma.EntityType < mb.EntityType
		}
		return ma.EntityID.String() < mb.EntityID.String()
	})

	locked := make(map[string]*lockedEntity, len(movements))
	results := make([]MovementResult, len(movements))

	for _, idx := range order {
		m := movements[idx]
		key := string(m.EntityType) + ":" + m.EntityID.String()

		entity, ok := locked[key]
		if !ok {
			var err error
			entity, err = l.lock(ctx, m.EntityType, m.EntityID)
			if err != nil {
				return nil, err
			}
			locked[key] = entity
		}

		next := entity.quantity.Add(m.Delta)
		if m.Delta.IsNegative() && next.IsNegative() {
			return nil, apperr.InsufficientStock("insufficient stock for %s (current: %s, requested: %s)",
				entity.name, entity.quantity.String(), m.Delta.Neg().String())
		}
		entity.quantity = next

		results[idx] = MovementResult{Movement: m, EntityName: entity.name, NewQuantity: next}
	}

	// All movements validated; persist the final quantity per entity.
	for _, idx := range order {
		m := movements[idx]
		key := string(m.EntityType) + ":" + m.EntityID.String()
		entity := locked[key]
		if entity == nil {
			continue
		}
		if err := l.persist(ctx, m.EntityType, m.EntityID, entity.quantity); err != nil {
			return nil, fmt.Errorf("failed to update stock for %s: %w", entity.name, err)
		}
		locked[key] = nil
	}

	return results, nil
}

func (l *stockLedger) Adjust(ctx context.Context, movement Movement) (MovementResult, error) {
	results, err := l.Apply(ctx, []Movement{movement})
	if err != nil {
		return MovementResult{}, err
	}
	return results[0], nil
}

func (l *stockLedger) lock(ctx context.Context, entityType model.EntityType, id uuid.UUID) (*lockedEntity, error) {
	switch entityType {
	case model.EntityTypeItem:
		item, err := l.itemRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("item not found: %s", id)
			}
			return nil, fmt.Errorf("failed to lock item %s: %w", id, err)
		}
		return &lockedEntity{name: item.Name, quantity: item.Quantity}, nil
	case model.EntityTypeProduct:
		product, err := l.productRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product not found: %s", id)
			}
			return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
		}
		return &lockedEntity{name: product.Name, quantity: product.Quantity}, nil
	default:
		return nil, apperr.Validation("unknown entity type: %s", entityType)
	}
}

func (l *stockLedger) persist(ctx context.Context, entityType model.EntityType, id uuid.UUID, quantity decimal.Decimal) error {
	if entityType == model.EntityTypeItem {
		return l.itemRepo.UpdateQuantity(ctx, id, quantity)
	}
	return l.productRepo.UpdateQuantity(ctx, id, quantity)
}

// Announce broadcasts stock_changed events for already-applied results.
// Callers invoke it after their transaction commits so clients never see
// a quantity that later rolled back.
func (l *stockLedger) Announce(results []MovementResult) {
	if l.events == nil {
		return
	}
	for _, r := range results {
		l.events.Publish("stock_changed", map[string]interface{}{
			"entity_type": r.EntityType,
			"entity_id":   r.EntityID.String(),
			"entity_name": r.EntityName,
			"delta":       r.Delta.String(),
			"quantity":    r.NewQuantity.String(),
		})
	}
}
