package tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restro/pkg/domain/model"
	"restro/pkg/domain/service"
)

func setupCart(t *testing.T) (service.CartService, *stores) {
	s := newStores(t)
	return service.NewCartService(s.customers, s.foods), s
}

func TestUpsertCartItem(t *testing.T) {
	ctx := context.Background()
	cartService, s := setupCart(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Paneer Tikka", 250, 20)
	customer := s.addCustomer()

	t.Run("Adds units cumulatively", func(t *testing.T) {
		_, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, 2)
		require.NoError(t, err)
		view, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, 3)
		require.NoError(t, err)

		require.Len(t, view.Cart, 1)
		assert.Equal(t, 5, view.Cart[0].Unit)
		assert.Equal(t, 5, view.TotalUnits)
		assert.Equal(t, 5, s.customers.store[customer.ID].Cart[0].Unit)
	})

	t.Run("Removes entry on zero unit", func(t *testing.T) {
		view, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, 0)
		require.NoError(t, err)

		assert.Empty(t, view.Cart)
		assert.NotNil(t, view.Cart)
		assert.Equal(t, 0, view.TotalUnits)
		assert.Empty(t, s.customers.store[customer.ID].Cart)
	})

	t.Run("Non-positive unit without entry is a no-op", func(t *testing.T) {
		view, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, -1)
		require.NoError(t, err)
		assert.Empty(t, view.Cart)
	})

	t.Run("Fails on unknown food", func(t *testing.T) {
		_, err := cartService.UpsertCartItem(ctx, customer.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, model.ErrFoodNotFound)
		assert.Equal(t, model.KindNotFound, model.KindOf(err))
	})

	t.Run("Fails on unknown customer", func(t *testing.T) {
		_, err := cartService.UpsertCartItem(ctx, uuid.New(), food.ID, 1)
		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	cartService, s := setupCart(t)
	vendor := s.addVendor(testPincode, true, 4)
	first := s.addFood(vendor.ID, "Dal", 120, 15)
	second := s.addFood(vendor.ID, "Naan", 40, 10)
	customer := s.addCustomer()

	items, err := cartService.GetCart(ctx, customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err = cartService.UpsertCartItem(ctx, customer.ID, first.ID, 1)
	require.NoError(t, err)
	_, err = cartService.UpsertCartItem(ctx, customer.ID, second.ID, 4)
	require.NoError(t, err)

	items, err = cartService.GetCart(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Dal", items[0].Food.Name)
	assert.Equal(t, 1, items[0].Unit)
	assert.Equal(t, "Naan", items[1].Food.Name)
	assert.Equal(t, 4, items[1].Unit)
}

func TestClearCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	cartService, s := setupCart(t)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Biryani", 300, 30)
	customer := s.addCustomer()

	_, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, 2)
	require.NoError(t, err)

	for range 2 {
		view, err := cartService.ClearCart(ctx, customer.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Cart)
		assert.NotNil(t, view.Cart)
		assert.Equal(t, 0, view.TotalUnits)
	}
	assert.Empty(t, s.customers.store[customer.ID].Cart)
}

func TestCartUpdateKeepsConcurrentOrder(t *testing.T) {
	ctx := context.Background()
	cartService, s := setupCart(t)
	orderService := service.NewOrderService(
		s.unitOfWork(), s.orders, s.transactions, s.customers, s.foods, &mockDeliveryAssigner{}, s.dispatcher,
	)
	vendor := s.addVendor(testPincode, true, 4)
	food := s.addFood(vendor.ID, "Vada Pav", 30, 10)
	customer := s.addCustomer()
	tx := s.addTransaction(customer.ID, model.TxOpen)

	// The order commits between the cart's read and its write.
	var placed *model.Customer
	s.customers.afterFind = func() {
		var err error
		placed, err = orderService.CreateOrder(ctx, customer.ID, tx.ID, decimal.NewFromInt(30), []model.LineItem{{FoodID: food.ID, Unit: 1}})
		require.NoError(t, err)
	}

	_, err := cartService.UpsertCartItem(ctx, customer.ID, food.ID, 2)
	require.NoError(t, err)

	require.NotNil(t, placed)
	require.Len(t, placed.Orders, 1)
	stored := s.customers.store[customer.ID]
	assert.Equal(t, placed.Orders, stored.Orders)
	require.Len(t, stored.Cart, 1)
	assert.Equal(t, 2, stored.Cart[0].Unit)
}
