package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"

	"github.com/stretchr/testify/require"
)

func (e *testEnv) plannedProduction(t *testing.T, lines ...ProductionLineRequest) *model.Production {
	t.Helper()
	product := e.addProduct("widget", "0")
	production, err := e.productions.CreateProduction(context.Background(), "", CreateProductionRequest{
		ProductID:       product.ID.String(),
		WarehouseID:     e.warehouseID.String(),
		PlannedQuantity: dec("20"),
		Items:           lines,
	})
	require.NoError(t, err)
	return production
}

func TestCreateProduction(t *testing.T) {
	env := newTestEnv()

	steel := env.addItem("steel", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2"),
	})

	require.True(t, strings.HasPrefix(production.ProductionNumber, "PRO-"))
	require.Equal(t, model.ProductionStatusPlanned, production.Status)
	require.True(t, production.TotalCost.Equal(dec("80")))
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("100")))
}

func TestCreateProductionRejectsNonPositivePlan(t *testing.T) {
	env := newTestEnv()
	product := env.addProduct("widget", "0")

	_, err := env.productions.CreateProduction(context.Background(), "", CreateProductionRequest{
		ProductID:       product.ID.String(),
		WarehouseID:     env.warehouseID.String(),
		PlannedQuantity: dec("0"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestStartProductionDebitsMaterials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "500")
	production := env.plannedProduction(t,
		ProductionLineRequest{ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2")},
		ProductionLineRequest{ItemID: bolts.ID.String(), RequiredQuantity: dec("160"), UnitCost: dec("0.10")},
	)

	started, err := env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusInProgress, started.Status)
	require.NotNil(t, started.StartDate)

	require.True(t, env.itemQuantity(steel.ID).Equal(dec("60")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("340")))
	for _, line := range started.Items {
		require.True(t, line.UsedQuantity.Equal(line.RequiredQuantity))
	}

	txs := env.txRepo.byReference(production.ProductionNumber)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		require.Equal(t, model.TxTypeProduction, tx.TransactionType)
		require.Equal(t, model.EntityTypeItem, tx.EntityType)
	}
	require.True(t, txs[0].StockAfter.Equal(dec("60")))
	require.True(t, txs[1].StockAfter.Equal(dec("340")))
}

func TestStartProductionInsufficientMaterial(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "10")
	production := env.plannedProduction(t,
		ProductionLineRequest{ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2")},
		ProductionLineRequest{ItemID: bolts.ID.String(), RequiredQuantity: dec("160"), UnitCost: dec("0.10")},
	)

	_, err := env.productions.Start(ctx, "", production.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInsufficientStock))

	// the line with enough stock was not debited either
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("100")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("10")))
	require.Empty(t, env.txRepo.byReference(production.ProductionNumber))

	fetched, err := env.productions.GetProduction(ctx, production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusPlanned, fetched.Status)
}

func TestStartProductionRequiresLines(t *testing.T) {
	env := newTestEnv()
	production := env.plannedProduction(t)

	_, err := env.productions.Start(context.Background(), "", production.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCompleteProductionCreditsProduct(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2"),
	})

	_, err := env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)

	completed, err := env.productions.Complete(ctx, "", production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusCompleted, completed.Status)
	require.NotNil(t, completed.EndDate)
	require.True(t, completed.ProducedQuantity.Equal(dec("20")))
	require.True(t, env.productQuantity(*completed.ProductID).Equal(dec("20")))

	txs := env.txRepo.byReference(production.ProductionNumber)
	require.Len(t, txs, 2)
	output := txs[1]
	require.Equal(t, model.TxTypeProduction, output.TransactionType)
	require.Equal(t, model.EntityTypeProduct, output.EntityType)
	require.True(t, output.Quantity.Equal(dec("20")))
	require.True(t, output.UnitPrice.Equal(dec("25")))
	require.True(t, output.StockAfter.Equal(dec("20")))
}

func TestHoldAndResumeProduction(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("10"), UnitCost: dec("1"),
	})

	// hold is only reachable from IN_PROGRESS
	_, err := env.productions.Hold(ctx, production.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)

	held, err := env.productions.Hold(ctx, production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusOnHold, held.Status)

	// an on-hold run cannot complete until resumed
	_, err = env.productions.Complete(ctx, "", production.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	resumed, err := env.productions.Resume(ctx, production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusInProgress, resumed.Status)

	_, err = env.productions.Complete(ctx, "", production.ID.String())
	require.NoError(t, err)
}

func TestCancelProductionRestoresMaterials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "500")
	production := env.plannedProduction(t,
		ProductionLineRequest{ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2")},
		ProductionLineRequest{ItemID: bolts.ID.String(), RequiredQuantity: dec("160"), UnitCost: dec("0.10")},
	)

	_, err := env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)

	cancelled, err := env.productions.Cancel(ctx, "", production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusCancelled, cancelled.Status)

	// everything the start debited comes back
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("100")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("500")))
	for _, line := range cancelled.Items {
		require.True(t, line.UsedQuantity.IsZero())
	}

	txs := env.txRepo.byReference(production.ProductionNumber)
	require.Len(t, txs, 4)
	require.Equal(t, model.TxTypeAdjustment, txs[2].TransactionType)
	require.Equal(t, model.TxTypeAdjustment, txs[3].TransactionType)
	require.True(t, txs[2].StockAfter.Equal(dec("100")))
	require.True(t, txs[3].StockAfter.Equal(dec("500")))
}

func TestCancelPlannedProductionMovesNothing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("40"), UnitCost: dec("2"),
	})

	cancelled, err := env.productions.Cancel(ctx, "", production.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.ProductionStatusCancelled, cancelled.Status)
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("100")))
	require.Empty(t, env.txRepo.byReference(production.ProductionNumber))
}

func TestCancelOnHoldProductionRestoresMaterials(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "50")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("30"), UnitCost: dec("1"),
	})

	_, err := env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)
	_, err = env.productions.Hold(ctx, production.ID.String())
	require.NoError(t, err)

	_, err = env.productions.Cancel(ctx, "", production.ID.String())
	require.NoError(t, err)
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("50")))
}

func TestProductionLineEditsOnlyWhilePlanned(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	bolts := env.addItem("bolts", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("10"), UnitCost: dec("2"),
	})

	line, err := env.productions.AddItem(ctx, production.ID.String(), ProductionLineRequest{
		ItemID: bolts.ID.String(), RequiredQuantity: dec("20"), UnitCost: dec("0.50"),
	})
	require.NoError(t, err)

	updated, err := env.productions.GetProduction(ctx, production.ID.String())
	require.NoError(t, err)
	require.True(t, updated.TotalCost.Equal(dec("30")))

	_, err = env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)

	_, err = env.productions.UpdateItem(ctx, line.ID.String(), ProductionLineRequest{
		ItemID: bolts.ID.String(), RequiredQuantity: dec("5"), UnitCost: dec("0.50"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	err = env.productions.RemoveItem(ctx, line.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestDeleteProductionOnlyWhilePlanned(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "100")
	production := env.plannedProduction(t, ProductionLineRequest{
		ItemID: steel.ID.String(), RequiredQuantity: dec("10"), UnitCost: dec("1"),
	})

	_, err := env.productions.Start(ctx, "", production.ID.String())
	require.NoError(t, err)

	err = env.productions.DeleteProduction(ctx, production.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}
