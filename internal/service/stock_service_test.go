package service

import (
	"context"
	"errors"
	"testing"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestStockLedgerAppliesBatch(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "50")

	results, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-30")},
		{EntityType: model.EntityTypeItem, EntityID: bolts.ID, Delta: dec("25")},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.True(t, results[0].NewQuantity.Equal(dec("70")))
	require.True(t, results[1].NewQuantity.Equal(dec("75")))
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("70")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("75")))
}

func TestStockLedgerResultsKeepDeclarationOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	product := env.addProduct("widget", "5")
	item := env.addItem("steel", "10")

	// PRODUCT sorts after ITEM for locking, but results must come back
	// in the order the movements were declared.
	results, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeProduct, EntityID: product.ID, Delta: dec("1")},
		{EntityType: model.EntityTypeItem, EntityID: item.ID, Delta: dec("-2")},
	})
	require.NoError(t, err)
	require.Equal(t, model.EntityTypeProduct, results[0].EntityType)
	require.True(t, results[0].NewQuantity.Equal(dec("6")))
	require.Equal(t, model.EntityTypeItem, results[1].EntityType)
	require.True(t, results[1].NewQuantity.Equal(dec("8")))
}

func TestStockLedgerRejectsShortBatchEntirely(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "5")

	_, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-10")},
		{EntityType: model.EntityTypeItem, EntityID: bolts.ID, Delta: dec("-6")},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	// nothing was persisted, including the line that had enough stock
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("100")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("5")))
}

func TestStockLedgerAllowsDrainToZero(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "7.5")

	result, err := env.ledger.Adjust(ctx, Movement{
		EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-7.5"),
	})
	require.NoError(t, err)
	require.True(t, result.NewQuantity.IsZero())
	require.True(t, env.itemQuantity(steel.ID).IsZero())
}

func TestStockLedgerAccumulatesDuplicateEntityMovements(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "10")

	// two consumptions of the same row must validate against the running
	// quantity, not the original row value
	_, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-6")},
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-6")},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInsufficientStock))
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("10")))

	results, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-6")},
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("-4")},
	})
	require.NoError(t, err)
	require.True(t, results[1].NewQuantity.IsZero())
	require.True(t, env.itemQuantity(steel.ID).IsZero())
}

func TestStockLedgerUnknownEntity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.ledger.Adjust(ctx, Movement{
		EntityType: model.EntityTypeItem, EntityID: uuid.New(), Delta: dec("1"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestStockLedgerAnnouncesAfterApply(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "10")

	// applying alone emits nothing; the caller announces once its
	// transaction has committed
	results, err := env.ledger.Apply(ctx, []Movement{
		{EntityType: model.EntityTypeItem, EntityID: steel.ID, Delta: dec("5")},
	})
	require.NoError(t, err)
	require.Empty(t, env.events.events)

	env.ledger.Announce(results)
	require.Equal(t, []string{"stock_changed"}, env.events.events)
}
