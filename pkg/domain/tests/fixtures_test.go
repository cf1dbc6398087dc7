package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restro/pkg/domain/model"
)

const testPincode = "400001"

type stores struct {
	customers     *mockCustomerRepository
	foods         *mockFoodRepository
	vendors       *mockVendorRepository
	deliveryUsers *mockDeliveryUserRepository
	orders        *mockOrderRepository
	transactions  *mockTransactionRepository
	offers        *mockOfferRepository
	uploads       *mockUploadFailureRepository
	dispatcher    *mockEventDispatcher
}

func newStores(t *testing.T) *stores {
	t.Helper()
	return &stores{
		customers:     newMockCustomerRepository(),
		foods:         newMockFoodRepository(),
		vendors:       newMockVendorRepository(),
		deliveryUsers: newMockDeliveryUserRepository(),
		orders:        newMockOrderRepository(),
		transactions:  newMockTransactionRepository(),
		offers:        newMockOfferRepository(),
		uploads:       &mockUploadFailureRepository{},
		dispatcher:    &mockEventDispatcher{},
	}
}

func (s *stores) unitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{orders: s.orders, transactions: s.transactions, customers: s.customers}
}

func (s *stores) addCustomer() *model.Customer {
	customer := &model.Customer{
		ID:      uuid.New(),
		Email:   uuid.NewString() + "@example.com",
		Phone:   "9876543210",
		Pincode: testPincode,
		Cart:    []model.CartItem{},
		Orders:  []uuid.UUID{},
	}
	s.customers.store[customer.ID] = cloneCustomer(customer)
	return customer
}

func (s *stores) addVendor(pincode string, serviceAvailable bool, rating float64) *model.Vendor {
	vendor := &model.Vendor{
		ID:               uuid.New(),
		Name:             "vendor-" + uuid.NewString()[:8],
		Email:            uuid.NewString() + "@vendor.com",
		Pincode:          pincode,
		ServiceAvailable: serviceAvailable,
		Rating:           rating,
		CoverImages:      []string{},
		Foods:            []uuid.UUID{},
	}
	clone := cloneVendor(vendor)
	s.vendors.store[vendor.ID] = &clone
	return vendor
}

func (s *stores) addFood(vendorID uuid.UUID, name string, price int64, readyTime int) *model.Food {
	food := &model.Food{
		ID:        uuid.New(),
		VendorID:  vendorID,
		Name:      name,
		Price:     decimal.NewFromInt(price),
		ReadyTime: readyTime,
	}
	clone := *food
	s.foods.store[food.ID] = &clone
	if vendor, ok := s.vendors.store[vendorID]; ok {
		vendor.Foods = append(vendor.Foods, food.ID)
	}
	return food
}

func (s *stores) addDeliveryUser(pincode string, verified, available bool) *model.DeliveryUser {
	user := &model.DeliveryUser{
		ID:          uuid.New(),
		Email:       uuid.NewString() + "@delivery.com",
		Pincode:     pincode,
		Verified:    verified,
		IsAvailable: available,
		CreatedAt:   time.Now().UTC(),
	}
	clone := *user
	s.deliveryUsers.store[user.ID] = &clone
	s.deliveryUsers.order = append(s.deliveryUsers.order, user.ID)
	return user
}

func (s *stores) addTransaction(customerID uuid.UUID, status model.TransactionStatus) *model.Transaction {
	tx := &model.Transaction{
		ID:            uuid.New(),
		CustomerID:    customerID,
		PayableAmount: decimal.NewFromInt(100),
		OfferUsed:     model.NoOffer,
		Status:        status,
		PaymentMode:   model.DefaultPaymentMode,
	}
	s.transactions.store[tx.ID] = cloneTransaction(tx)
	return tx
}

func (s *stores) addOffer(offerType model.OfferType, amount int64, active bool, pincode string, vendors ...uuid.UUID) *model.Offer {
	offer := &model.Offer{
		ID:          uuid.New(),
		OfferType:   offerType,
		Vendors:     vendors,
		Title:       "offer",
		OfferAmount: decimal.NewFromInt(amount),
		Promocode:   "SAVE",
		Pincode:     pincode,
		IsActive:    active,
	}
	clone := *offer
	s.offers.store[offer.ID] = &clone
	return offer
}

func (s *stores) addOrder(vendorID, customerID uuid.UUID, status model.OrderStatus) *model.Order {
	order := &model.Order{
		ID:         uuid.New(),
		OrderID:    "12345",
		VendorID:   vendorID,
		CustomerID: customerID,
		Status:     status,
		ReadyTime:  model.DefaultReadyTime,
		Version:    1,
	}
	s.orders.store[order.ID] = cloneOrder(order)
	return order
}

func ptr[T any](v T) *T {
	return &v
}
