package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restro/pkg/domain/model"
	"restro/pkg/domain/service"
)

func setupOrder(t *testing.T, opts ...service.OrderServiceOption) (service.OrderService, *stores, *mockDeliveryAssigner) {
	s := newStores(t)
	assigner := &mockDeliveryAssigner{}
	orderService := service.NewOrderService(
		s.unitOfWork(), s.orders, s.transactions, s.customers, s.foods, assigner, s.dispatcher, opts...,
	)
	return orderService, s, assigner
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	orderService, s, assigner := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4.5)
	dal := s.addFood(vendor.ID, "Dal", 120, 15)
	naan := s.addFood(vendor.ID, "Naan", 40, 10)
	customer := s.addCustomer()
	tx := s.addTransaction(customer.ID, model.TxOpen)

	profile, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(200), []model.LineItem{
		{FoodID: dal.ID, Unit: 1},
		{FoodID: naan.ID, Unit: 2},
		{FoodID: dal.ID, Unit: 1},
	})
	require.NoError(t, err)
	require.Len(t, profile.Orders, 1)

	order := s.orders.store[profile.Orders[0]]
	require.NotNil(t, order)
	assert.Equal(t, model.Waiting, order.Status)
	assert.Equal(t, vendor.ID, order.VendorID)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, model.DefaultReadyTime, order.ReadyTime)
	assert.Len(t, order.OrderID, 5)
	assert.True(t, decimal.NewFromInt(200).Equal(order.TotalAmount))
	assert.True(t, decimal.NewFromInt(200).Equal(order.PaidAmount))
	assert.Equal(t, []model.OrderItem{{FoodID: dal.ID, Unit: 2}, {FoodID: naan.ID, Unit: 2}}, order.Items)

	require.NotNil(t, s.transactions.store[tx.ID].OrderID)
	assert.Equal(t, order.ID, *s.transactions.store[tx.ID].OrderID)
	assert.Equal(t, []uuid.UUID{order.ID}, assigner.assigned)
	assert.Equal(t, []string{"OrderCreated"}, s.dispatcher.types())
}

func TestCreateOrderAssignsDelivery(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	assigner := service.NewDeliveryAssigner(s.vendors, s.deliveryUsers, s.orders, s.dispatcher)
	orderService := service.NewOrderService(
		s.unitOfWork(), s.orders, s.transactions, s.customers, s.foods, assigner, s.dispatcher,
	)
	vendor := s.addVendor("12345", true, 4)
	food := s.addFood(vendor.ID, "Poha", 50, 10)
	customer := s.addCustomer()
	rider := s.addDeliveryUser("12345", true, true)
	items := []model.LineItem{{FoodID: food.ID, Unit: 1}}

	t.Run("Matching delivery user is bound", func(t *testing.T) {
		profile, err := orderService.CreateOrder(ctx, customer.ID, s.addTransaction(customer.ID, model.TxOpen).ID, decimal.NewFromInt(50), items)
		require.NoError(t, err)
		require.Len(t, profile.Orders, 1)

		order := s.orders.store[profile.Orders[0]]
		require.NotNil(t, order.DeliveryID)
		assert.Equal(t, rider.ID, *order.DeliveryID)
		assert.True(t, s.deliveryUsers.store[rider.ID].OnDelivery)
		assert.Equal(t, []string{"OrderCreated", "DeliveryAssigned"}, s.dispatcher.types())
	})

	t.Run("Checkout succeeds without a delivery user", func(t *testing.T) {
		s.dispatcher.Reset()
		profile, err := orderService.CreateOrder(ctx, customer.ID, s.addTransaction(customer.ID, model.TxOpen).ID, decimal.NewFromInt(50), items)
		require.NoError(t, err)
		require.Len(t, profile.Orders, 2)

		assert.Nil(t, s.orders.store[profile.Orders[1]].DeliveryID)
		assert.Equal(t, []string{"OrderCreated"}, s.dispatcher.types())
	})
}

func TestCreateOrderTransactionGate(t *testing.T) {
	ctx := context.Background()
	orderService, s, _ := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()
	items := []model.LineItem{{FoodID: food.ID, Unit: 1}}

	t.Run("Failed transaction", func(t *testing.T) {
		tx := s.addTransaction(customer.ID, model.TxFailed)
		_, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(120), items)
		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
		assert.Equal(t, model.KindInvalidTransaction, model.KindOf(err))
	})

	t.Run("Unknown transaction", func(t *testing.T) {
		_, err := orderService.CreateOrder(ctx, customer.ID, uuid.New(), decimal.NewFromInt(120), items)
		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
	})

	t.Run("Transaction already used", func(t *testing.T) {
		tx := s.addTransaction(customer.ID, model.TxOpen)
		_, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(120), items)
		require.NoError(t, err)

		_, err = orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(120), items)
		assert.ErrorIs(t, err, model.ErrInvalidTransaction)
		assert.Len(t, s.orders.store, 1)
		assert.Len(t, s.customers.store[customer.ID].Orders, 1)
	})

	_, err := orderService.ValidateTransaction(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrInvalidTransaction)
}

func TestCreateOrderRejectsInvalidItems(t *testing.T) {
	ctx := context.Background()
	orderService, s, assigner := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	other := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	foreign := s.addFood(other.ID, "Pizza", 400, 25)
	customer := s.addCustomer()
	tx := s.addTransaction(customer.ID, model.TxOpen)

	cases := []struct {
		name  string
		items []model.LineItem
		err   error
	}{
		{"Unknown food", []model.LineItem{{FoodID: food.ID, Unit: 1}, {FoodID: uuid.New(), Unit: 1}}, model.ErrInvalidItems},
		{"Mixed vendors", []model.LineItem{{FoodID: food.ID, Unit: 1}, {FoodID: foreign.ID, Unit: 1}}, model.ErrMixedVendorItems},
		{"Zero unit", []model.LineItem{{FoodID: food.ID, Unit: 0}}, model.ErrInvalidUnit},
		{"No items", nil, model.ErrEmptyOrder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(100), tc.items)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	assert.Empty(t, s.orders.store)
	assert.Nil(t, s.transactions.store[tx.ID].OrderID)
	assert.Empty(t, s.customers.store[customer.ID].Orders)
	assert.Empty(t, assigner.assigned)
}

func TestCreateOrderIsAtomic(t *testing.T) {
	ctx := context.Background()
	orderService, s, assigner := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()
	tx := s.addTransaction(customer.ID, model.TxOpen)

	appendErr := errors.New("connection reset")
	s.customers.failAppend = appendErr

	_, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(120), []model.LineItem{{FoodID: food.ID, Unit: 1}})
	require.ErrorIs(t, err, appendErr)

	assert.Empty(t, s.orders.store)
	assert.Nil(t, s.transactions.store[tx.ID].OrderID)
	assert.Empty(t, s.customers.store[customer.ID].Orders)
	assert.Empty(t, assigner.assigned)
	assert.Empty(t, s.dispatcher.events)
}

func TestOrderIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	orderService, s, _ := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()

	seen := make(map[string]struct{}, 1000)
	for range 1000 {
		tx := s.addTransaction(customer.ID, model.TxOpen)
		_, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(120), []model.LineItem{{FoodID: food.ID, Unit: 1}})
		require.NoError(t, err)
	}
	for _, order := range s.orders.store {
		_, dup := seen[order.OrderID]
		require.False(t, dup, "order id %s issued twice", order.OrderID)
		seen[order.OrderID] = struct{}{}
		assert.Len(t, order.OrderID, 5)
	}
	assert.Len(t, seen, 1000)
	assert.Len(t, s.customers.store[customer.ID].Orders, 1000)
}

func TestOrderIDCollisionRedraws(t *testing.T) {
	ctx := context.Background()
	draws := []string{"11111", "11111", "11111", "22222"}
	next := 0
	orderService, s, _ := setupOrder(t, service.WithOrderIDGenerator(func() string {
		id := draws[next]
		next++
		return id
	}))
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()
	items := []model.LineItem{{FoodID: food.ID, Unit: 1}}

	_, err := orderService.CreateOrder(ctx, customer.ID, s.addTransaction(customer.ID, model.TxOpen).ID, decimal.NewFromInt(1), items)
	require.NoError(t, err)
	_, err = orderService.CreateOrder(ctx, customer.ID, s.addTransaction(customer.ID, model.TxOpen).ID, decimal.NewFromInt(1), items)
	require.NoError(t, err)

	assert.Equal(t, 4, next)
	_, err = orderService.GetOrderByOrderID(ctx, "22222")
	assert.NoError(t, err)
}

func TestOrderIDTakenAtInsertRedraws(t *testing.T) {
	ctx := context.Background()
	draws := []string{"11111", "11111", "22222"}
	next := 0
	orderService, s, assigner := setupOrder(t, service.WithOrderIDGenerator(func() string {
		id := draws[next]
		next++
		return id
	}))
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()
	items := []model.LineItem{{FoodID: food.ID, Unit: 1}}
	s.orders.racingDraws = true

	_, err := orderService.CreateOrder(ctx, customer.ID, s.addTransaction(customer.ID, model.TxOpen).ID, decimal.NewFromInt(1), items)
	require.NoError(t, err)
	tx := s.addTransaction(customer.ID, model.TxOpen)
	profile, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(1), items)
	require.NoError(t, err)

	assert.Equal(t, 3, next)
	require.Len(t, profile.Orders, 2)
	second := s.orders.store[profile.Orders[1]]
	require.NotNil(t, second)
	assert.Equal(t, "22222", second.OrderID)
	assert.Equal(t, second.ID, *s.transactions.store[tx.ID].OrderID)
	assert.Len(t, assigner.assigned, 2)
}

func TestProcessOrder(t *testing.T) {
	ctx := context.Background()
	orderService, s, assigner := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	customer := s.addCustomer()
	order := s.addOrder(vendor.ID, customer.ID, model.Waiting)

	t.Run("Moves forward and bumps version", func(t *testing.T) {
		s.dispatcher.Reset()
		updated, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{
			Status:    ptr("InProgress"),
			Remarks:   ptr("extra spicy"),
			ReadyTime: ptr(20),
		})
		require.NoError(t, err)

		assert.Equal(t, model.InProgress, updated.Status)
		stored := s.orders.store[order.ID]
		assert.Equal(t, model.InProgress, stored.Status)
		assert.Equal(t, "extra spicy", stored.Remarks)
		assert.Equal(t, 20, stored.ReadyTime)
		assert.Equal(t, 2, stored.Version)
		assert.Equal(t, []string{"OrderStatusChanged"}, s.dispatcher.types())
	})

	t.Run("Same status keeps status and edits remarks", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{Status: ptr("InProgress"), Remarks: ptr("mild")})
		require.NoError(t, err)
		assert.Equal(t, "mild", s.orders.store[order.ID].Remarks)
	})

	t.Run("Empty fields leave order untouched", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{Status: ptr(""), Remarks: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, model.InProgress, s.orders.store[order.ID].Status)
		assert.Equal(t, "mild", s.orders.store[order.ID].Remarks)
	})

	t.Run("Rejects backwards transition", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{Status: ptr("Waiting")})
		assert.Equal(t, model.KindInvalidTransition, model.KindOf(err))
	})

	t.Run("Rejects unknown status", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{Status: ptr("Teleported")})
		assert.Equal(t, model.KindValidation, model.KindOf(err))
	})

	t.Run("Other vendor cannot see order", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, uuid.New(), order.ID, model.OrderUpdate{Status: ptr("Ready")})
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("Cancelling releases delivery user", func(t *testing.T) {
		_, err := orderService.ProcessOrder(ctx, vendor.ID, order.ID, model.OrderUpdate{Status: ptr("Cancelled")})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{order.ID}, assigner.released)
	})
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[model.OrderStatus][]model.OrderStatus{
		model.Waiting:    {model.Waiting, model.InProgress, model.Cancelled},
		model.InProgress: {model.InProgress, model.Ready, model.Cancelled},
		model.Ready:      {model.Ready, model.Dispatched},
		model.Dispatched: {model.Dispatched, model.Delivered},
		model.Delivered:  {model.Delivered},
		model.Cancelled:  {model.Cancelled},
	}
	all := []model.OrderStatus{model.Waiting, model.InProgress, model.Ready, model.Dispatched, model.Delivered, model.Cancelled}

	for from, targets := range allowed {
		for _, to := range all {
			expected := false
			for _, target := range targets {
				if target == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	_, err := model.ParseOrderStatus("Lost")
	assert.Equal(t, model.KindValidation, model.KindOf(err))
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()
	orderService, s, _ := setupOrder(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Dal", 120, 15)
	customer := s.addCustomer()
	tx := s.addTransaction(customer.ID, model.TxOpen)

	profile, err := orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(240), []model.LineItem{{FoodID: food.ID, Unit: 2}})
	require.NoError(t, err)
	orderID := profile.Orders[0]

	details, err := orderService.GetOrderDetails(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, details.Resolved, 1)
	assert.Equal(t, "Dal", details.Resolved[0].Food.Name)
	assert.Equal(t, 2, details.Resolved[0].Unit)

	byHuman, err := orderService.GetOrderByOrderID(ctx, details.OrderID)
	require.NoError(t, err)
	assert.Equal(t, orderID, byHuman.ID)

	customerOrders, err := orderService.ListCustomerOrders(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, customerOrders, 1)

	vendorOrders, err := orderService.ListVendorOrders(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Len(t, vendorOrders, 1)

	_, err = orderService.GetVendorOrder(ctx, uuid.New(), orderID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)

	_, err = orderService.GetOrderDetails(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
