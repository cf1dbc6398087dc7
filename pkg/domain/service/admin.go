package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"restro/pkg/domain/model"
)

type AdminService interface {
	CreateVendor(ctx context.Context, input model.VendorSignUp) (*model.Vendor, error)
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error)
	VerifyDeliveryUser(ctx context.Context, id uuid.UUID, verified bool) (*model.DeliveryUser, error)
	ListDeliveryUsers(ctx context.Context) ([]model.DeliveryUser, error)
}

func NewAdminService(
	vendors model.VendorRepository,
	deliveryUsers model.DeliveryUserRepository,
	passwords model.PasswordManager,
	dispatcher EventDispatcher,
) AdminService {
	return &adminService{vendors: vendors, deliveryUsers: deliveryUsers, passwords: passwords, dispatcher: dispatcher}
}

type adminService struct {
	vendors       model.VendorRepository
	deliveryUsers model.DeliveryUserRepository
	passwords     model.PasswordManager
	dispatcher    EventDispatcher
}

func (s *adminService) CreateVendor(ctx context.Context, input model.VendorSignUp) (*model.Vendor, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if _, err := s.vendors.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if model.KindOf(err) != model.KindNotFound {
		return nil, err
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.vendors.NextID()
	if err != nil {
		return nil, err
	}
	foodTypes := input.FoodTypes
	if foodTypes == nil {
		foodTypes = []string{}
	}
	now := time.Now().UTC()
	vendor := &model.Vendor{
		ID:           id,
		Name:         input.Name,
		OwnerName:    input.OwnerName,
		FoodTypes:    foodTypes,
		Pincode:      input.Pincode,
		Address:      input.Address,
		Phone:        input.Phone,
		Email:        email,
		PasswordHash: hash,
		CoverImages:  []string{},
		Foods:        []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.VendorCreated{VendorID: id, Name: vendor.Name})
	return vendor, nil
}

func (s *adminService) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	return vendors, nil
}

func (s *adminService) GetVendor(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	return s.vendors.Find(ctx, id)
}

func (s *adminService) VerifyDeliveryUser(ctx context.Context, id uuid.UUID, verified bool) (*model.DeliveryUser, error) {
	user, err := s.deliveryUsers.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Verified == verified {
		return user, nil
	}

	user.Verified = verified
	user.UpdatedAt = time.Now().UTC()
	if err := s.deliveryUsers.Update(ctx, user); err != nil {
		return nil, err
	}
	dispatch(s.dispatcher, model.DeliveryUserVerified{DeliveryUserID: id, Verified: verified})
	return user, nil
}

func (s *adminService) ListDeliveryUsers(ctx context.Context) ([]model.DeliveryUser, error) {
	users, err := s.deliveryUsers.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.DeliveryUser{}
	}
	return users, nil
}
