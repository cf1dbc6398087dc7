package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ErrVendorNotFound = NewError(KindNotFound, "vendor not found")

type Vendor struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	OwnerName        string      `json:"ownerName"`
	FoodTypes        []string    `json:"foodType"`
	Pincode          string      `json:"pincode"`
	Address          string      `json:"address"`
	Phone            string      `json:"phone"`
	Email            string      `json:"email"`
	PasswordHash     string      `json:"-"`
	ServiceAvailable bool        `json:"serviceAvailable"`
	CoverImages      []string    `json:"coverImages"`
	Rating           float64     `json:"rating"`
	Foods            []uuid.UUID `json:"foods"`
	Lat              float64     `json:"lat"`
	Lng              float64     `json:"lng"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"-"`
}

// Restaurant is a vendor with its menu resolved.
type Restaurant struct {
	Vendor
	Menu []Food `json:"foods"`
}

type VendorSignUp struct {
	Name      string
	OwnerName string
	FoodTypes []string
	Pincode   string
	Address   string
	Phone     string
	Email     string
	Password  string
}

type VendorRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, vendor *Vendor) error
	Update(ctx context.Context, vendor *Vendor) error
	Find(ctx context.Context, id uuid.UUID) (*Vendor, error)
	FindByEmail(ctx context.Context, email string) (*Vendor, error)
	List(ctx context.Context) ([]Vendor, error)
	// FindServiceable returns vendors in pincode that currently accept orders.
	FindServiceable(ctx context.Context, pincode string) ([]Vendor, error)
	// FindTopRated returns serviceable vendors in pincode rated at least minRating,
	// best rated first.
	FindTopRated(ctx context.Context, pincode string, minRating float64, limit int) ([]Vendor, error)
}

// VendorProfileUpdate carries the profile fields to change; empty fields stay as they are.
type VendorProfileUpdate struct {
	Name      string
	Address   string
	Phone     string
	FoodTypes []string
}
