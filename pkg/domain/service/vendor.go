package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
)

var (
	ErrFoodNameRequired  = model.NewError(model.KindValidation, "name and price are required")
	ErrOfferFieldsMissed = model.NewError(model.KindValidation, "title, offer amount and promocode are required")
)

type VendorService interface {
	Profile(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error)
	UpdateProfile(ctx context.Context, vendorID uuid.UUID, update model.VendorProfileUpdate) (*model.Vendor, error)
	// ToggleService flips service availability and optionally moves the vendor.
	ToggleService(ctx context.Context, vendorID uuid.UUID, lat, lng *float64) (*model.Vendor, error)
	AddCoverImages(ctx context.Context, vendorID uuid.UUID, files []model.ImageFile) (*model.Vendor, model.UploadResult, error)
	AddFood(ctx context.Context, vendorID uuid.UUID, input model.FoodInput, files []model.ImageFile) (*model.Vendor, model.UploadResult, error)
	ListFoods(ctx context.Context, vendorID uuid.UUID) ([]model.Food, error)

	AddOffer(ctx context.Context, vendorID uuid.UUID, offer model.Offer) (*model.Offer, error)
	EditOffer(ctx context.Context, vendorID, offerID uuid.UUID, patch model.OfferPatch) (*model.Offer, error)
	// ListOffers returns the vendor's own offers together with every generic offer.
	ListOffers(ctx context.Context, vendorID uuid.UUID) ([]model.Offer, error)
}

func NewVendorService(
	vendors model.VendorRepository,
	foods model.FoodRepository,
	offers model.OfferRepository,
	images ImageService,
	dispatcher EventDispatcher,
) VendorService {
	return &vendorService{vendors: vendors, foods: foods, offers: offers, images: images, dispatcher: dispatcher}
}

type vendorService struct {
	vendors    model.VendorRepository
	foods      model.FoodRepository
	offers     model.OfferRepository
	images     ImageService
	dispatcher EventDispatcher
}

func (s *vendorService) Profile(ctx context.Context, vendorID uuid.UUID) (*model.Vendor, error) {
	return s.vendors.Find(ctx, vendorID)
}

func (s *vendorService) UpdateProfile(ctx context.Context, vendorID uuid.UUID, update model.VendorProfileUpdate) (*model.Vendor, error) {
	vendor, err := s.vendors.Find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if update.Name != "" {
		vendor.Name = update.Name
	}
	if update.Address != "" {
		vendor.Address = update.Address
	}
	if update.Phone != "" {
		vendor.Phone = update.Phone
	}
	if len(update.FoodTypes) > 0 {
		vendor.FoodTypes = update.FoodTypes
	}
	return vendor, s.updateVendor(ctx, vendor)
}

func (s *vendorService) ToggleService(ctx context.Context, vendorID uuid.UUID, lat, lng *float64) (*model.Vendor, error) {
	vendor, err := s.vendors.Find(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	vendor.ServiceAvailable = !vendor.ServiceAvailable
	if lat != nil {
		vendor.Lat = *lat
	}
	if lng != nil {
		vendor.Lng = *lng
	}
	return vendor, s.updateVendor(ctx, vendor)
}

func (s *vendorService) AddCoverImages(ctx context.Context, vendorID uuid.UUID, files []model.ImageFile) (*model.Vendor, model.UploadResult, error) {
	if len(files) == 0 {
		return nil, model.UploadResult{}, model.ErrNoImages
	}
	vendor, err := s.vendors.Find(ctx, vendorID)
	if err != nil {
		return nil, model.UploadResult{}, err
	}

	result, err := s.images.UploadImages(ctx, files)
	if err != nil {
		return nil, result, err
	}
	vendor.CoverImages = append(vendor.CoverImages, result.URLs...)
	if err := s.updateVendor(ctx, vendor); err != nil {
		return nil, result, err
	}
	return vendor, result, nil
}

func (s *vendorService) AddFood(ctx context.Context, vendorID uuid.UUID, input model.FoodInput, files []model.ImageFile) (*model.Vendor, model.UploadResult, error) {
	if strings.TrimSpace(input.Name) == "" || !input.Price.IsPositive() {
		return nil, model.UploadResult{}, ErrFoodNameRequired
	}
	if input.ReadyTime < 0 {
		return nil, model.UploadResult{}, model.ErrInvalidReadyTime
	}
	vendor, err := s.vendors.Find(ctx, vendorID)
	if err != nil {
		return nil, model.UploadResult{}, err
	}

	result := model.UploadResult{URLs: []string{}, Failures: []string{}}
	if len(files) > 0 {
		result, err = s.images.UploadImages(ctx, files)
		if err != nil {
			return nil, result, err
		}
	}

	foodID, err := s.foods.NextID()
	if err != nil {
		return nil, result, err
	}
	food := &model.Food{
		ID:          foodID,
		VendorID:    vendorID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		FoodType:    input.FoodType,
		ReadyTime:   input.ReadyTime,
		Price:       input.Price,
		Images:      result.URLs,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.foods.Create(ctx, food); err != nil {
		return nil, result, err
	}

	vendor.Foods = append(vendor.Foods, foodID)
	if err := s.updateVendor(ctx, vendor); err != nil {
		return nil, result, err
	}

	dispatch(s.dispatcher, model.FoodAdded{FoodID: foodID, VendorID: vendorID})
	return vendor, result, nil
}

func (s *vendorService) ListFoods(ctx context.Context, vendorID uuid.UUID) ([]model.Food, error) {
	foods, err := s.foods.FindByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []model.Food{}
	}
	return foods, nil
}

func (s *vendorService) AddOffer(ctx context.Context, vendorID uuid.UUID, offer model.Offer) (*model.Offer, error) {
	if offer.Title == "" || offer.Promocode == "" || !offer.OfferAmount.IsPositive() {
		return nil, ErrOfferFieldsMissed
	}
	if _, err := s.vendors.Find(ctx, vendorID); err != nil {
		return nil, err
	}

	id, err := s.offers.NextID()
	if err != nil {
		return nil, err
	}
	offer.ID = id
	offer.Vendors = []uuid.UUID{vendorID}
	if offer.OfferType == "" {
		offer.OfferType = model.VendorOffer
	}
	offer.CreatedAt = time.Now().UTC()
	if err := s.offers.Create(ctx, &offer); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.OfferCreated{OfferID: id, OfferType: offer.OfferType})
	return &offer, nil
}

func (s *vendorService) EditOffer(ctx context.Context, vendorID, offerID uuid.UUID, patch model.OfferPatch) (*model.Offer, error) {
	offer, err := s.offers.Find(ctx, offerID)
	if err != nil {
		return nil, err
	}
	// Generic offers are listed to every vendor but only editable by the vendors on them.
	if !offer.OwnedBy(vendorID) {
		return nil, model.ErrOfferNotFound
	}

	applyOfferPatch(offer, patch)
	if err := s.offers.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *vendorService) ListOffers(ctx context.Context, vendorID uuid.UUID) ([]model.Offer, error) {
	offers, err := s.offers.FindForVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	return offers, nil
}

func (s *vendorService) updateVendor(ctx context.Context, vendor *model.Vendor) error {
	vendor.UpdatedAt = time.Now().UTC()
	return s.vendors.Update(ctx, vendor)
}

func applyOfferPatch(offer *model.Offer, patch model.OfferPatch) {
	if patch.Title != nil && *patch.Title != "" {
		offer.Title = *patch.Title
	}
	if patch.Description != nil {
		offer.Description = *patch.Description
	}
	if patch.OfferType != nil && *patch.OfferType != "" {
		offer.OfferType = *patch.OfferType
	}
	if patch.MinValue != nil {
		offer.MinValue = *patch.MinValue
	}
	if patch.OfferAmount != nil && patch.OfferAmount.IsPositive() {
		offer.OfferAmount = *patch.OfferAmount
	}
	if patch.StartValidity != nil {
		offer.StartValidity = patch.StartValidity
	}
	if patch.EndValidity != nil {
		offer.EndValidity = patch.EndValidity
	}
	if patch.Promocode != nil && *patch.Promocode != "" {
		offer.Promocode = *patch.Promocode
	}
	if patch.PromoType != nil {
		offer.PromoType = *patch.PromoType
	}
	if patch.Bank != nil {
		offer.Bank = patch.Bank
	}
	if patch.Bins != nil {
		offer.Bins = patch.Bins
	}
	if patch.Pincode != nil {
		offer.Pincode = *patch.Pincode
	}
	if patch.IsActive != nil {
		offer.IsActive = *patch.IsActive
	}
}
