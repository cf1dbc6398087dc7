package service

import (
	"context"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
)

const (
	topRatedMin   = 4.0
	topRatedLimit = 10
	fastReadyTime = 30
)

// CatalogService answers the public shopping queries. Empty results are empty
// slices, never errors.
type CatalogService interface {
	FoodAvailability(ctx context.Context, pincode string) ([]model.Restaurant, error)
	TopRestaurants(ctx context.Context, pincode string) ([]model.Vendor, error)
	FoodsIn30Min(ctx context.Context, pincode string) ([]model.FoodWithVendor, error)
	SearchFoods(ctx context.Context, pincode, query string) ([]model.FoodWithVendor, error)
	AvailableOffers(ctx context.Context, pincode string) ([]model.Offer, error)
	RestaurantByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error)
	// VerifyOffer checks the offer is active and offered at the customer's pincode.
	VerifyOffer(ctx context.Context, customerID, offerID uuid.UUID) (*model.Offer, error)
}

func NewCatalogService(
	vendors model.VendorRepository,
	foods model.FoodRepository,
	offers model.OfferRepository,
	customers model.CustomerRepository,
) CatalogService {
	return &catalogService{vendors: vendors, foods: foods, offers: offers, customers: customers}
}

type catalogService struct {
	vendors   model.VendorRepository
	foods     model.FoodRepository
	offers    model.OfferRepository
	customers model.CustomerRepository
}

func (s *catalogService) FoodAvailability(ctx context.Context, pincode string) ([]model.Restaurant, error) {
	vendors, err := s.vendors.FindServiceable(ctx, pincode)
	if err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return []model.Restaurant{}, nil
	}

	foods, err := s.foods.FindByFilter(ctx, model.FoodFilter{VendorIDs: vendorIDs(vendors)})
	if err != nil {
		return nil, err
	}
	menus := make(map[uuid.UUID][]model.Food, len(vendors))
	for _, food := range foods {
		menus[food.VendorID] = append(menus[food.VendorID], food)
	}

	result := make([]model.Restaurant, 0, len(vendors))
	for _, vendor := range vendors {
		menu := menus[vendor.ID]
		if menu == nil {
			menu = []model.Food{}
		}
		result = append(result, model.Restaurant{Vendor: vendor, Menu: menu})
	}
	return result, nil
}

func (s *catalogService) TopRestaurants(ctx context.Context, pincode string) ([]model.Vendor, error) {
	vendors, err := s.vendors.FindTopRated(ctx, pincode, topRatedMin, topRatedLimit)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	return vendors, nil
}

func (s *catalogService) FoodsIn30Min(ctx context.Context, pincode string) ([]model.FoodWithVendor, error) {
	return s.servedFoods(ctx, pincode, model.FoodFilter{MaxReadyTime: fastReadyTime})
}

func (s *catalogService) SearchFoods(ctx context.Context, pincode, query string) ([]model.FoodWithVendor, error) {
	return s.servedFoods(ctx, pincode, model.FoodFilter{NameContains: query})
}

// servedFoods narrows filter to vendors serving pincode and joins each food with its vendor.
func (s *catalogService) servedFoods(ctx context.Context, pincode string, filter model.FoodFilter) ([]model.FoodWithVendor, error) {
	vendors, err := s.vendors.FindServiceable(ctx, pincode)
	if err != nil {
		return nil, err
	}
	if len(vendors) == 0 {
		return []model.FoodWithVendor{}, nil
	}

	filter.VendorIDs = vendorIDs(vendors)
	foods, err := s.foods.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Vendor, len(vendors))
	for _, vendor := range vendors {
		byID[vendor.ID] = vendor
	}
	result := make([]model.FoodWithVendor, 0, len(foods))
	for _, food := range foods {
		vendor, ok := byID[food.VendorID]
		if !ok {
			continue
		}
		result = append(result, model.FoodWithVendor{Food: food, Vendor: vendor})
	}
	return result, nil
}

func (s *catalogService) AvailableOffers(ctx context.Context, pincode string) ([]model.Offer, error) {
	offers, err := s.offers.FindActiveByPincode(ctx, pincode)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	return offers, nil
}

func (s *catalogService) RestaurantByID(ctx context.Context, id uuid.UUID) (*model.Restaurant, error) {
	vendor, err := s.vendors.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	menu, err := s.foods.FindByVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		menu = []model.Food{}
	}
	return &model.Restaurant{Vendor: *vendor, Menu: menu}, nil
}

func (s *catalogService) VerifyOffer(ctx context.Context, customerID, offerID uuid.UUID) (*model.Offer, error) {
	offer, err := s.offers.Find(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.IsActive {
		return nil, model.ErrOfferNotFound
	}
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if offer.Pincode != "" && offer.Pincode != customer.Pincode {
		return nil, model.ErrOfferNotApplicable
	}
	return offer, nil
}

func vendorIDs(vendors []model.Vendor) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(vendors))
	for _, vendor := range vendors {
		ids = append(ids, vendor.ID)
	}
	return ids
}
