package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 12
)

var (
	ErrPasswordTooShort = model.Errorf(model.KindValidation, "password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong  = model.Errorf(model.KindValidation, "password must not exceed %d characters", maxPasswordLength)
	ErrEmailRequired    = model.NewError(model.KindValidation, "email is required")
)

type AccountService interface {
	SignUpCustomer(ctx context.Context, input model.CustomerSignUp) (*model.Session[*model.Customer], error)
	LoginCustomer(ctx context.Context, email, password string) (*model.Session[*model.Customer], error)
	// VerifyCustomer consumes the OTP sent to the customer's phone and reissues the token.
	VerifyCustomer(ctx context.Context, customerID uuid.UUID, otp string) (*model.Session[*model.Customer], error)
	RequestCustomerOTP(ctx context.Context, customerID uuid.UUID) error
	CustomerProfile(ctx context.Context, customerID uuid.UUID) (*model.Customer, error)
	EditCustomerProfile(ctx context.Context, customerID uuid.UUID, update model.ProfileUpdate) (*model.Customer, error)

	SignUpDeliveryUser(ctx context.Context, input model.DeliveryUserSignUp) (*model.Session[*model.DeliveryUser], error)
	LoginDeliveryUser(ctx context.Context, email, password string) (*model.Session[*model.DeliveryUser], error)
	VerifyDeliveryUser(ctx context.Context, deliveryUserID uuid.UUID, otp string) (*model.Session[*model.DeliveryUser], error)
	RequestDeliveryOTP(ctx context.Context, deliveryUserID uuid.UUID) error
	DeliveryProfile(ctx context.Context, deliveryUserID uuid.UUID) (*model.DeliveryUser, error)
	EditDeliveryProfile(ctx context.Context, deliveryUserID uuid.UUID, update model.ProfileUpdate) (*model.DeliveryUser, error)
	UpdateDeliveryStatus(ctx context.Context, deliveryUserID uuid.UUID, update model.DeliveryStatusUpdate) (*model.DeliveryUser, error)

	LoginVendor(ctx context.Context, email, password string) (*model.Session[*model.Vendor], error)
}

func NewAccountService(
	customers model.CustomerRepository,
	deliveryUsers model.DeliveryUserRepository,
	vendors model.VendorRepository,
	passwords model.PasswordManager,
	tokens model.TokenManager,
	otp OTPService,
	dispatcher EventDispatcher,
) AccountService {
	return &accountService{
		customers:     customers,
		deliveryUsers: deliveryUsers,
		vendors:       vendors,
		passwords:     passwords,
		tokens:        tokens,
		otp:           otp,
		dispatcher:    dispatcher,
	}
}

type accountService struct {
	customers     model.CustomerRepository
	deliveryUsers model.DeliveryUserRepository
	vendors       model.VendorRepository
	passwords     model.PasswordManager
	tokens        model.TokenManager
	otp           OTPService
	dispatcher    EventDispatcher
}

func (s *accountService) SignUpCustomer(ctx context.Context, input model.CustomerSignUp) (*model.Session[*model.Customer], error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if model.KindOf(err) != model.KindNotFound {
		return nil, err
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.customers.NextID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	customer := &model.Customer{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Address:      input.Address,
		Phone:        input.Phone,
		Pincode:      input.Pincode,
		Cart:         []model.CartItem{},
		Orders:       []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.sendSignUpOTP(ctx, customer.Phone)
	dispatch(s.dispatcher, model.CustomerRegistered{CustomerID: id, Email: email})
	return s.customerSession(customer)
}

func (s *accountService) LoginCustomer(ctx context.Context, email, password string) (*model.Session[*model.Customer], error) {
	customer, err := s.customers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, credentialsError(err)
	}
	if !s.passwords.Check(customer.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	return s.customerSession(customer)
}

func (s *accountService) VerifyCustomer(ctx context.Context, customerID uuid.UUID, otp string) (*model.Session[*model.Customer], error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, customer.Phone, otp); err != nil {
		return nil, err
	}

	customer.Verified = true
	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	dispatch(s.dispatcher, model.CustomerVerified{CustomerID: customerID})
	return s.customerSession(customer)
}

func (s *accountService) RequestCustomerOTP(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return err
	}
	return s.otp.Send(ctx, customer.Phone)
}

func (s *accountService) CustomerProfile(ctx context.Context, customerID uuid.UUID) (*model.Customer, error) {
	return s.customers.Find(ctx, customerID)
}

func (s *accountService) EditCustomerProfile(ctx context.Context, customerID uuid.UUID, update model.ProfileUpdate) (*model.Customer, error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		return nil, err
	}
	applyProfile(update, &customer.FirstName, &customer.LastName, &customer.Address, &customer.Pincode)
	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *accountService) SignUpDeliveryUser(ctx context.Context, input model.DeliveryUserSignUp) (*model.Session[*model.DeliveryUser], error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if _, err := s.deliveryUsers.FindByEmail(ctx, email); err == nil {
		return nil, model.ErrEmailTaken
	} else if model.KindOf(err) != model.KindNotFound {
		return nil, err
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	id, err := s.deliveryUsers.NextID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &model.DeliveryUser{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Address:      input.Address,
		Phone:        input.Phone,
		Pincode:      input.Pincode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deliveryUsers.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendSignUpOTP(ctx, user.Phone)
	dispatch(s.dispatcher, model.DeliveryUserRegistered{DeliveryUserID: id, Email: email})
	return s.deliverySession(user)
}

func (s *accountService) LoginDeliveryUser(ctx context.Context, email, password string) (*model.Session[*model.DeliveryUser], error) {
	user, err := s.deliveryUsers.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, credentialsError(err)
	}
	if !s.passwords.Check(user.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	return s.deliverySession(user)
}

func (s *accountService) VerifyDeliveryUser(ctx context.Context, deliveryUserID uuid.UUID, otp string) (*model.Session[*model.DeliveryUser], error) {
	user, err := s.deliveryUsers.Find(ctx, deliveryUserID)
	if err != nil {
		return nil, err
	}
	if err := s.otp.Verify(ctx, user.Phone, otp); err != nil {
		return nil, err
	}

	user.Verified = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.deliveryUsers.Update(ctx, user); err != nil {
		return nil, err
	}
	dispatch(s.dispatcher, model.DeliveryUserVerified{DeliveryUserID: deliveryUserID, Verified: true})
	return s.deliverySession(user)
}

func (s *accountService) RequestDeliveryOTP(ctx context.Context, deliveryUserID uuid.UUID) error {
	user, err := s.deliveryUsers.Find(ctx, deliveryUserID)
	if err != nil {
		return err
	}
	return s.otp.Send(ctx, user.Phone)
}

func (s *accountService) DeliveryProfile(ctx context.Context, deliveryUserID uuid.UUID) (*model.DeliveryUser, error) {
	return s.deliveryUsers.Find(ctx, deliveryUserID)
}

func (s *accountService) EditDeliveryProfile(ctx context.Context, deliveryUserID uuid.UUID, update model.ProfileUpdate) (*model.DeliveryUser, error) {
	user, err := s.deliveryUsers.Find(ctx, deliveryUserID)
	if err != nil {
		return nil, err
	}
	applyProfile(update, &user.FirstName, &user.LastName, &user.Address, &user.Pincode)
	user.UpdatedAt = time.Now().UTC()
	if err := s.deliveryUsers.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountService) UpdateDeliveryStatus(ctx context.Context, deliveryUserID uuid.UUID, update model.DeliveryStatusUpdate) (*model.DeliveryUser, error) {
	user, err := s.deliveryUsers.Find(ctx, deliveryUserID)
	if err != nil {
		return nil, err
	}
	if update.Lat != nil {
		user.Lat = *update.Lat
	}
	if update.Lng != nil {
		user.Lng = *update.Lng
	}
	if update.IsAvailable != nil {
		user.IsAvailable = *update.IsAvailable
	} else {
		user.IsAvailable = !user.IsAvailable
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.deliveryUsers.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountService) LoginVendor(ctx context.Context, email, password string) (*model.Session[*model.Vendor], error) {
	vendor, err := s.vendors.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, credentialsError(err)
	}
	if !s.passwords.Check(vendor.PasswordHash, password) {
		return nil, model.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(model.Claims{Subject: vendor.ID, Email: vendor.Email, Role: model.RoleVendor, Verified: true})
	if err != nil {
		return nil, err
	}
	return &model.Session[*model.Vendor]{Token: token, Profile: vendor}, nil
}

// sendSignUpOTP does not fail the sign-up: the account exists and the user
// can ask for a new code once logged in.
func (s *accountService) sendSignUpOTP(ctx context.Context, phone string) {
	if err := s.otp.Send(ctx, phone); err != nil {
		log.WithError(err).Warn("failed to send sign-up otp")
	}
}

func (s *accountService) customerSession(customer *model.Customer) (*model.Session[*model.Customer], error) {
	token, err := s.tokens.Issue(model.Claims{
		Subject:  customer.ID,
		Email:    customer.Email,
		Role:     model.RoleCustomer,
		Verified: customer.Verified,
	})
	if err != nil {
		return nil, err
	}
	return &model.Session[*model.Customer]{Token: token, Profile: customer}, nil
}

func (s *accountService) deliverySession(user *model.DeliveryUser) (*model.Session[*model.DeliveryUser], error) {
	token, err := s.tokens.Issue(model.Claims{
		Subject:  user.ID,
		Email:    user.Email,
		Role:     model.RoleDelivery,
		Verified: user.Verified,
	})
	if err != nil {
		return nil, err
	}
	return &model.Session[*model.DeliveryUser]{Token: token, Profile: user}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	return email, nil
}

func validatePassword(password string) error {
	switch {
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// credentialsError hides whether the email exists.
func credentialsError(err error) error {
	if model.KindOf(err) == model.KindNotFound {
		return model.ErrInvalidCredentials
	}
	return err
}

func applyProfile(update model.ProfileUpdate, firstName, lastName, address, pincode *string) {
	if update.FirstName != nil {
		*firstName = *update.FirstName
	}
	if update.LastName != nil {
		*lastName = *update.LastName
	}
	if update.Address != nil {
		*address = *update.Address
	}
	if update.Pincode != nil {
		*pincode = *update.Pincode
	}
}
