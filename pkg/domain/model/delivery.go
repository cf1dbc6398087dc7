package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ErrDeliveryUserNotFound = NewError(KindNotFound, "delivery user not found")

type DeliveryUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Pincode      string    `json:"pincode"`
	Verified     bool      `json:"verified"`
	IsAvailable  bool      `json:"isAvailable"`
	// OnDelivery is set by an assignment claim and cleared on release. It is
	// kept apart from IsAvailable, which only the delivery user changes.
	OnDelivery   bool      `json:"onDelivery"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Eligible reports whether the delivery user may be bound to a new order.
func (d DeliveryUser) Eligible() bool {
	return d.Verified && d.IsAvailable && !d.OnDelivery
}

type DeliveryUserSignUp struct {
	Email     string
	Phone     string
	Password  string
	FirstName string
	LastName  string
	Address   string
	Pincode   string
}

// DeliveryStatusUpdate carries optional fields; nil means unchanged. A nil
// IsAvailable toggles the current availability.
type DeliveryStatusUpdate struct {
	Lat         *float64
	Lng         *float64
	IsAvailable *bool
}

type DeliveryUserRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, user *DeliveryUser) error
	Update(ctx context.Context, user *DeliveryUser) error
	Find(ctx context.Context, id uuid.UUID) (*DeliveryUser, error)
	FindByEmail(ctx context.Context, email string) (*DeliveryUser, error)
	List(ctx context.Context) ([]DeliveryUser, error)
	// FindAvailable returns verified and available delivery users in pincode,
	// oldest registration first.
	FindAvailable(ctx context.Context, pincode string) ([]DeliveryUser, error)
	// Claim marks the delivery user as on delivery only if still eligible.
	// It reports whether this call won the claim.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	// Release clears the on-delivery mark. IsAvailable is left as it is.
	Release(ctx context.Context, id uuid.UUID) error
	// Update does not write OnDelivery; only Claim and Release do.
}
