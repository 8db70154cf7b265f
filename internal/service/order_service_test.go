package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestCreateOrderWithLines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	bolts := env.addItem("bolts", "0")

	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Supplier:    "Acme Metals",
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("10"), UnitPrice: dec("4.50")},
			{ItemID: bolts.ID.String(), OrderedQuantity: dec("100"), UnitPrice: dec("0.20")},
		},
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	require.True(t, order.TotalAmount.Equal(dec("65")))

	// creating an order never moves stock
	require.True(t, env.itemQuantity(steel.ID).IsZero())
	require.Empty(t, env.txRepo.byReference(order.OrderNumber))
}

func TestCreateOrderUnknownWarehouse(t *testing.T) {
	env := newTestEnv()

	_, err := env.orders.CreateOrder(context.Background(), "", CreateOrderRequest{
		WarehouseID: "00000000-0000-0000-0000-000000000001",
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestConfirmOrderRequiresLines(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
	})
	require.NoError(t, err)

	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestReceiveOrderCreditsStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "5")
	bolts := env.addItem("bolts", "0")

	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Supplier:    "Acme Metals",
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("10"), UnitPrice: dec("4")},
			{ItemID: bolts.ID.String(), OrderedQuantity: dec("200"), UnitPrice: dec("0.10")},
		},
	})
	require.NoError(t, err)

	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.NoError(t, err)

	received, err := env.orders.Receive(ctx, "", order.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)
	require.True(t, received.TotalAmount.Equal(dec("60")))

	require.True(t, env.itemQuantity(steel.ID).Equal(dec("15")))
	require.True(t, env.itemQuantity(bolts.ID).Equal(dec("200")))

	for _, line := range received.Items {
		require.True(t, line.ReceivedQuantity.Equal(line.OrderedQuantity))
	}

	txs := env.txRepo.byReference(order.OrderNumber)
	require.Len(t, txs, 2)
	require.Equal(t, model.TxTypeInbound, txs[0].TransactionType)
	require.Equal(t, model.EntityTypeItem, txs[0].EntityType)
	require.True(t, txs[0].StockAfter.Equal(dec("15")))
	require.True(t, txs[1].StockAfter.Equal(dec("200")))
	require.Equal(t, model.TxStatusCompleted, txs[0].Status)
}

func TestReceiveOrderFromPending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("1"), UnitPrice: dec("1")},
		},
	})
	require.NoError(t, err)

	_, err = env.orders.Receive(ctx, "", order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
	require.True(t, env.itemQuantity(steel.ID).IsZero())
}

func TestReceiveOrderTwice(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("3"), UnitPrice: dec("1")},
		},
	})
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.NoError(t, err)
	_, err = env.orders.Receive(ctx, "", order.ID.String())
	require.NoError(t, err)

	_, err = env.orders.Receive(ctx, "", order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	// the double call must not duplicate stock or transactions
	require.True(t, env.itemQuantity(steel.ID).Equal(dec("3")))
	require.Len(t, env.txRepo.byReference(order.OrderNumber), 1)
}

func TestConcurrentReceiveSingleWinner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("5"), UnitPrice: dec("2")},
		},
	})
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.NoError(t, err)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.orders.Receive(ctx, "", order.ID.String())
		}(i)
	}
	wg.Wait()

	var ok, failed int
	for _, e := range errs {
		if e == nil {
			ok++
			continue
		}
		failed++
		// the loser sees either a concurrent-modification conflict (status
		// changed between read and lock) or a plain invalid-state rejection
		require.True(t, errors.Is(e, apperr.ErrConcurrentModification) || errors.Is(e, apperr.ErrInvalidState), e.Error())
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, failed)

	require.True(t, env.itemQuantity(steel.ID).Equal(dec("5")))
	require.Len(t, env.txRepo.byReference(order.OrderNumber), 1)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("4"), UnitPrice: dec("1")},
		},
	})
	require.NoError(t, err)

	cancelled, err := env.orders.Cancel(ctx, order.ID.String())
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	// terminal states reject further transitions
	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
	_, err = env.orders.Cancel(ctx, order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestOrderLineEditsOnlyWhilePending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	bolts := env.addItem("bolts", "0")

	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("2"), UnitPrice: dec("3")},
		},
	})
	require.NoError(t, err)

	line, err := env.orders.AddItem(ctx, order.ID.String(), OrderLineRequest{
		ItemID: bolts.ID.String(), OrderedQuantity: dec("10"), UnitPrice: dec("0.50"),
	})
	require.NoError(t, err)

	updated, err := env.orders.GetOrder(ctx, order.ID.String())
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)
	require.True(t, updated.TotalAmount.Equal(dec("11")))

	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.NoError(t, err)

	_, err = env.orders.AddItem(ctx, order.ID.String(), OrderLineRequest{
		ItemID: steel.ID.String(), OrderedQuantity: dec("1"), UnitPrice: dec("1"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	_, err = env.orders.UpdateItem(ctx, line.ID.String(), OrderLineRequest{
		ItemID: bolts.ID.String(), OrderedQuantity: dec("20"), UnitPrice: dec("0.50"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	err = env.orders.RemoveItem(ctx, line.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))
}

func TestOrderLineRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
	})
	require.NoError(t, err)

	_, err = env.orders.AddItem(ctx, order.ID.String(), OrderLineRequest{
		ItemID: steel.ID.String(), OrderedQuantity: dec("0"), UnitPrice: dec("1"),
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestDeleteOrderOnlyWhilePending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	steel := env.addItem("steel", "0")
	order, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
		Items: []OrderLineRequest{
			{ItemID: steel.ID.String(), OrderedQuantity: dec("1"), UnitPrice: dec("1")},
		},
	})
	require.NoError(t, err)
	_, err = env.orders.Confirm(ctx, order.ID.String())
	require.NoError(t, err)

	err = env.orders.DeleteOrder(ctx, order.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrInvalidState))

	pending, err := env.orders.CreateOrder(ctx, "", CreateOrderRequest{
		WarehouseID: env.warehouseID.String(),
	})
	require.NoError(t, err)
	require.NoError(t, env.orders.DeleteOrder(ctx, pending.ID.String()))
	_, err = env.orders.GetOrder(ctx, pending.ID.String())
	require.Error(t, err)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}
