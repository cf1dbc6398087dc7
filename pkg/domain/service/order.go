package service

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

type OrderService interface {
	ValidateTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Transaction, error)
	// CreateOrder places an order for the items and returns the refreshed customer.
	CreateOrder(ctx context.Context, customerID, transactionID uuid.UUID, amount decimal.Decimal, items []model.LineItem) (*model.Customer, error)
	ProcessOrder(ctx context.Context, vendorID, orderID uuid.UUID, update model.OrderUpdate) (*model.Order, error)

	GetOrderByOrderID(ctx context.Context, orderID string) (*model.OrderDetails, error)
	GetOrderDetails(ctx context.Context, id uuid.UUID) (*model.OrderDetails, error)
	GetVendorOrder(ctx context.Context, vendorID, id uuid.UUID) (*model.OrderDetails, error)
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]model.OrderDetails, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]model.OrderDetails, error)
}

type OrderServiceOption func(*orderService)

// WithOrderIDGenerator replaces the random 5-digit human order id source.
func WithOrderIDGenerator(next func() string) OrderServiceOption {
	return func(s *orderService) {
		s.nextOrderID = next
	}
}

func NewOrderService(
	uow model.UnitOfWork,
	orders model.OrderRepository,
	transactions model.TransactionRepository,
	customers model.CustomerRepository,
	foods model.FoodRepository,
	assigner DeliveryAssigner,
	dispatcher EventDispatcher,
	opts ...OrderServiceOption,
) OrderService {
	s := &orderService{
		uow:          uow,
		orders:       orders,
		transactions: transactions,
		customers:    customers,
		foods:        foods,
		assigner:     assigner,
		dispatcher:   dispatcher,
		nextOrderID:  randomOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type orderService struct {
	uow          model.UnitOfWork
	orders       model.OrderRepository
	transactions model.TransactionRepository
	customers    model.CustomerRepository
	foods        model.FoodRepository
	assigner     DeliveryAssigner
	dispatcher   EventDispatcher
	nextOrderID  func() string
}

func randomOrderID() string {
	return strconv.Itoa(10000 + rand.IntN(90000))
}

func (s *orderService) ValidateTransaction(ctx context.Context, transactionID uuid.UUID) (*model.Transaction, error) {
	tx, err := s.transactions.Find(ctx, transactionID)
	if model.KindOf(err) == model.KindNotFound {
		return nil, model.ErrInvalidTransaction
	}
	if err != nil {
		return nil, err
	}
	if tx.Status == model.TxFailed {
		return nil, model.ErrInvalidTransaction
	}
	return tx, nil
}

func (s *orderService) CreateOrder(ctx context.Context, customerID, transactionID uuid.UUID, amount decimal.Decimal, items []model.LineItem) (*model.Customer, error) {
	tx, err := s.ValidateTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.customers.Find(ctx, customerID); err != nil {
		return nil, err
	}

	merged, err := mergeLineItems(items)
	if err != nil {
		return nil, err
	}

	vendorID, err := s.resolveVendor(ctx, merged)
	if err != nil {
		return nil, err
	}

	id, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	order := &model.Order{
		ID:          id,
		VendorID:    vendorID,
		CustomerID:  customerID,
		Items:       merged,
		TotalAmount: amount,
		PaidAmount:  amount,
		OrderDate:   now,
		Status:      model.Waiting,
		ReadyTime:   model.DefaultReadyTime,
		Version:     1,
		UpdatedAt:   now,
	}

	for {
		order.OrderID, err = s.uniqueOrderID(ctx)
		if err != nil {
			return nil, err
		}
		err = s.persistOrder(ctx, order, tx.ID)
		if !errors.Is(err, model.ErrOrderIDTaken) {
			break
		}
		// A concurrent checkout took the same id after the existence check.
		log.WithField("orderId", order.OrderID).Debug("order id taken concurrently, redrawing")
	}
	if err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.OrderCreated{
		OrderID:    order.ID,
		HumanID:    order.OrderID,
		CustomerID: customerID,
		VendorID:   vendorID,
		Amount:     amount,
	})

	s.assigner.AssignOrderForDelivery(ctx, order.ID, vendorID)

	return s.customers.Find(ctx, customerID)
}

func (s *orderService) persistOrder(ctx context.Context, order *model.Order, transactionID uuid.UUID) error {
	return s.uow.Execute(ctx, func(provider model.RepositoryProvider) error {
		if err := provider.OrderRepository().Create(ctx, order); err != nil {
			return err
		}
		linked, err := provider.TransactionRepository().LinkOrder(ctx, transactionID, order.ID)
		if err != nil {
			return err
		}
		if !linked {
			// The transaction already pays for another order.
			return model.ErrInvalidTransaction
		}
		return provider.CustomerRepository().AppendOrder(ctx, order.CustomerID, order.ID)
	})
}

// mergeLineItems folds repeated food ids into one item keeping first-seen order.
func mergeLineItems(items []model.LineItem) ([]model.OrderItem, error) {
	if len(items) == 0 {
		return nil, model.ErrEmptyOrder
	}
	index := make(map[uuid.UUID]int, len(items))
	merged := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Unit < 1 {
			return nil, model.ErrInvalidUnit
		}
		if i, ok := index[item.FoodID]; ok {
			merged[i].Unit += item.Unit
			continue
		}
		index[item.FoodID] = len(merged)
		merged = append(merged, model.OrderItem{FoodID: item.FoodID, Unit: item.Unit})
	}
	return merged, nil
}

func (s *orderService) resolveVendor(ctx context.Context, items []model.OrderItem) (uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.FoodID)
	}
	foods, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, err
	}
	if len(foods) != len(ids) {
		return uuid.Nil, model.ErrInvalidItems
	}

	byID := make(map[uuid.UUID]model.Food, len(foods))
	for _, food := range foods {
		byID[food.ID] = food
	}
	vendorID := byID[items[0].FoodID].VendorID
	for _, food := range foods {
		if food.VendorID != vendorID {
			return uuid.Nil, model.ErrMixedVendorItems
		}
	}
	return vendorID, nil
}

// uniqueOrderID draws until an unused id comes up. Two concurrent draws can
// still pick the same id; Create then fails with ErrOrderIDTaken.
func (s *orderService) uniqueOrderID(ctx context.Context) (string, error) {
	for {
		candidate := s.nextOrderID()
		exists, err := s.orders.ExistsByOrderID(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
}

func (s *orderService) ProcessOrder(ctx context.Context, vendorID, orderID uuid.UUID, update model.OrderUpdate) (*model.Order, error) {
	order, err := s.orders.Find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendorID {
		return nil, model.ErrOrderNotFound
	}

	from := order.Status
	if update.Status != nil && strings.TrimSpace(*update.Status) != "" {
		next, err := model.ParseOrderStatus(strings.TrimSpace(*update.Status))
		if err != nil {
			return nil, err
		}
		if !from.CanTransitionTo(next) {
			return nil, model.Errorf(model.KindInvalidTransition, "order cannot move from %s to %s", from, next)
		}
		order.Status = next
	}
	if update.Remarks != nil && *update.Remarks != "" {
		order.Remarks = *update.Remarks
	}
	if update.ReadyTime != nil {
		if *update.ReadyTime < 0 {
			return nil, model.ErrInvalidReadyTime
		}
		order.ReadyTime = *update.ReadyTime
	}

	if err := s.updateOrder(ctx, order); err != nil {
		return nil, err
	}

	if order.Status != from {
		log.WithFields(log.Fields{"order": order.ID, "from": from, "to": order.Status}).Info("order status changed")
		dispatch(s.dispatcher, model.OrderStatusChanged{
			OrderID:  order.ID,
			VendorID: vendorID,
			From:     from,
			To:       order.Status,
		})
		if order.Status.Terminal() {
			s.assigner.ReleaseDelivery(ctx, order)
		}
	}
	return order, nil
}

func (s *orderService) GetOrderByOrderID(ctx context.Context, orderID string) (*model.OrderDetails, error) {
	order, err := s.orders.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, order)
}

func (s *orderService) GetOrderDetails(ctx context.Context, id uuid.UUID) (*model.OrderDetails, error) {
	order, err := s.orders.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, order)
}

func (s *orderService) GetVendorOrder(ctx context.Context, vendorID, id uuid.UUID) (*model.OrderDetails, error) {
	order, err := s.orders.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.VendorID != vendorID {
		return nil, model.ErrOrderNotFound
	}
	return s.details(ctx, order)
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]model.OrderDetails, error) {
	orders, err := s.orders.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.detailsList(ctx, orders)
}

func (s *orderService) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]model.OrderDetails, error) {
	orders, err := s.orders.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.detailsList(ctx, orders)
}

func (s *orderService) detailsList(ctx context.Context, orders []model.Order) ([]model.OrderDetails, error) {
	result := make([]model.OrderDetails, 0, len(orders))
	for i := range orders {
		details, err := s.details(ctx, &orders[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *details)
	}
	return result, nil
}

func (s *orderService) details(ctx context.Context, order *model.Order) (*model.OrderDetails, error) {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.FoodID)
	}
	foods, err := s.foods.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Food, len(foods))
	for _, food := range foods {
		byID[food.ID] = food
	}

	resolved := make([]model.ResolvedItem, 0, len(order.Items))
	for _, item := range order.Items {
		food, ok := byID[item.FoodID]
		if !ok {
			food = model.Food{ID: item.FoodID}
		}
		resolved = append(resolved, model.ResolvedItem{Food: food, Unit: item.Unit})
	}
	return &model.OrderDetails{Order: *order, Resolved: resolved}, nil
}

func (s *orderService) updateOrder(ctx context.Context, order *model.Order) error {
	order.Version++
	order.UpdatedAt = time.Now().UTC()
	return s.orders.Update(ctx, order)
}
