package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound = NewError(KindNotFound, "customer not found")
	ErrEmailTaken       = NewError(KindValidation, "email is already taken")
)

type Customer struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Address      string      `json:"address"`
	Phone        string      `json:"phone"`
	Pincode      string      `json:"pincode"`
	Verified     bool        `json:"verified"`
	Lat          float64     `json:"lat"`
	Lng          float64     `json:"lng"`
	Cart         []CartItem  `json:"cart"`
	Orders       []uuid.UUID `json:"orders"`
	CreatedAt    time.Time   `json:"-"`
	UpdatedAt    time.Time   `json:"-"`
}

// CartItem is a line of the customer's cart. Unit is always at least 1.
type CartItem struct {
	FoodID uuid.UUID `json:"food"`
	Unit   int       `json:"unit"`
}

type CartView struct {
	Cart       []CartItem `json:"cart"`
	TotalUnits int        `json:"totalUnits"`
}

type CustomerSignUp struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	Pincode   string
}

type CustomerRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, customer *Customer) error
	// Update stores the profile and cart. The order list is not written.
	Update(ctx context.Context, customer *Customer) error
	// AppendOrder appends orderID to the customer's order list in a single write.
	AppendOrder(ctx context.Context, customerID, orderID uuid.UUID) error
	Find(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}

// ProfileUpdate edits a customer or delivery user profile; nil fields stay as they are.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Address   *string
	Pincode   *string
}
