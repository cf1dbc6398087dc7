package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrFoodNotFound = NewError(KindNotFound, "food item not found")

type Food struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendorId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	FoodType    string          `json:"foodType"`
	ReadyTime   int             `json:"readyTime"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"-"`
}

// FoodWithVendor is a food joined with the vendor serving it.
type FoodWithVendor struct {
	Food
	Vendor Vendor `json:"vendor"`
}

type FoodInput struct {
	Name        string
	Description string
	Category    string
	FoodType    string
	ReadyTime   int
	Price       decimal.Decimal
}

// FoodFilter narrows a food lookup. Zero fields do not filter.
type FoodFilter struct {
	VendorIDs []uuid.UUID
	// MaxReadyTime keeps foods ready within the given minutes.
	MaxReadyTime int
	// NameContains is matched case-insensitively.
	NameContains string
}

type FoodRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, food *Food) error
	Find(ctx context.Context, id uuid.UUID) (*Food, error)
	// FindByIDs returns the foods found among ids; missing ids are silently skipped.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Food, error)
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]Food, error)
	FindByFilter(ctx context.Context, filter FoodFilter) ([]Food, error)
}
