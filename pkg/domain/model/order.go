package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultReadyTime is the preparation estimate, in minutes, of a new order.
const DefaultReadyTime = 45

var (
	ErrOrderNotFound     = NewError(KindNotFound, "order not found")
	ErrInvalidItems      = NewError(KindInvalidItems, "invalid food items")
	ErrMixedVendorItems  = NewError(KindInvalidItems, "food items belong to more than one vendor")
	ErrEmptyOrder        = NewError(KindValidation, "order must contain at least one item")
	ErrInvalidUnit       = NewError(KindValidation, "item unit must be at least 1")
	ErrInvalidReadyTime  = NewError(KindValidation, "ready time must not be negative")
	ErrInvalidTransition = NewError(KindInvalidTransition, "order status transition is not allowed")

	// ErrOrderIDTaken is returned by OrderRepository.Create when another order
	// already holds the human order id.
	ErrOrderIDTaken = errors.New("order id is already taken")
)

type OrderStatus string

const (
	Waiting    OrderStatus = "Waiting"
	InProgress OrderStatus = "InProgress"
	Ready      OrderStatus = "Ready"
	Dispatched OrderStatus = "Dispatched"
	Delivered  OrderStatus = "Delivered"
	Cancelled  OrderStatus = "Cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	Waiting:    {InProgress, Cancelled},
	InProgress: {Ready, Cancelled},
	Ready:      {Dispatched},
	Dispatched: {Delivered},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	switch status {
	case Waiting, InProgress, Ready, Dispatched, Delivered, Cancelled:
		return status, nil
	}
	return "", Errorf(KindValidation, "unknown order status %q", s)
}

// CanTransitionTo reports whether an order in status s may move to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the order is finished and no longer needs a delivery user.
func (s OrderStatus) Terminal() bool {
	return s == Delivered || s == Cancelled
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     string          `json:"orderId"`
	VendorID    uuid.UUID       `json:"vendorId"`
	CustomerID  uuid.UUID       `json:"customerId"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	OrderDate   time.Time       `json:"orderDate"`
	Status      OrderStatus     `json:"orderStatus"`
	Remarks     string          `json:"remarks"`
	DeliveryID  *uuid.UUID      `json:"deliveryId"`
	ReadyTime   int             `json:"readyTime"`
	Version     int             `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

type OrderItem struct {
	FoodID uuid.UUID `json:"food"`
	Unit   int       `json:"unit"`
}

// LineItem is a requested food and quantity as submitted by the customer.
type LineItem struct {
	FoodID uuid.UUID `json:"_id" validate:"required"`
	Unit   int       `json:"unit"`
}

type ResolvedItem struct {
	Food Food `json:"food"`
	Unit int  `json:"unit"`
}

// OrderDetails is an order with its items joined to the catalog.
type OrderDetails struct {
	Order
	Resolved []ResolvedItem `json:"resolvedItems"`
}

// OrderUpdate is a partial vendor update; nil fields are left untouched.
type OrderUpdate struct {
	Status    *string
	Remarks   *string
	ReadyTime *int
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, order *Order) error
	Find(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]Order, error)
	// Update stores order if the stored version is order.Version-1, otherwise
	// it fails with ErrOptimisticLock.
	Update(ctx context.Context, order *Order) error
	// AssignDelivery binds deliveryID only while the order has no delivery user.
	// It reports whether the bind happened.
	AssignDelivery(ctx context.Context, orderID, deliveryID uuid.UUID) (bool, error)
}
