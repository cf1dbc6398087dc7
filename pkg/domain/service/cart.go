package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
)

type CartService interface {
	UpsertCartItem(ctx context.Context, customerID, foodID uuid.UUID, unit int) (*model.CartView, error)
	GetCart(ctx context.Context, customerID uuid.UUID) ([]model.ResolvedItem, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) (*model.CartView, error)
}

func NewCartService(customers model.CustomerRepository, foods model.FoodRepository) CartService {
	return &cartService{customers: customers, foods: foods}
}

type cartService struct {
	customers model.CustomerRepository
	foods     model.FoodRepository
}

func (s *cartService) UpsertCartItem(ctx context.Context, customerID, foodID uuid.UUID, unit int) (*model.CartView, error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.foods.Find(ctx, foodID); err != nil {
		return nil, err
	}

	index := -1
	for i, item := range customer.Cart {
		if item.FoodID == foodID {
			index = i
			break
		}
	}

	switch {
	case index >= 0 && unit > 0:
		customer.Cart[index].Unit += unit
	case index >= 0:
		customer.Cart = append(customer.Cart[:index], customer.Cart[index+1:]...)
	case unit > 0:
		customer.Cart = append(customer.Cart, model.CartItem{FoodID: foodID, Unit: unit})
	}

	if err := s.saveCart(ctx, customer); err != nil {
		return nil, err
	}
	return cartView(customer.Cart), nil
}

func (s *cartService) GetCart(ctx context.Context, customerID uuid.UUID) ([]model.ResolvedItem, error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(customer.Cart) == 0 {
		return []model.ResolvedItem{}, nil
	}

	ids := make([]uuid.UUID, 0, len(customer.Cart))
	for _, item := range customer.Cart {
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

	// Entries whose food was removed from the catalog are skipped.
	result := make([]model.ResolvedItem, 0, len(customer.Cart))
	for _, item := range customer.Cart {
		food, ok := byID[item.FoodID]
		if !ok {
			continue
		}
		result = append(result, model.ResolvedItem{Food: food, Unit: item.Unit})
	}
	return result, nil
}

func (s *cartService) ClearCart(ctx context.Context, customerID uuid.UUID) (*model.CartView, error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	customer.Cart = []model.CartItem{}
	if err := s.saveCart(ctx, customer); err != nil {
		return nil, err
	}
	return cartView(customer.Cart), nil
}

func (s *cartService) saveCart(ctx context.Context, customer *model.Customer) error {
	if customer.Cart == nil {
		customer.Cart = []model.CartItem{}
	}
	customer.UpdatedAt = time.Now().UTC()
	return s.customers.Update(ctx, customer)
}

func cartView(cart []model.CartItem) *model.CartView {
	total := 0
	for _, item := range cart {
		total += item.Unit
	}
	return &model.CartView{Cart: cart, TotalUnits: total}
}
