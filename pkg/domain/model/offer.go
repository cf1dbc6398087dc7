package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOfferNotFound      = NewError(KindNotFound, "offer not found or inactive")
	ErrOfferNotApplicable = NewError(KindValidation, "offer not applicable for your location")
)

type OfferType string

const (
	GenericOffer OfferType = "GENERIC"
	VendorOffer  OfferType = "VENDOR"
)

type Offer struct {
	ID            uuid.UUID       `json:"id"`
	OfferType     OfferType       `json:"offerType"`
	Vendors       []uuid.UUID     `json:"vendors"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	MinValue      decimal.Decimal `json:"minValue"`
	OfferAmount   decimal.Decimal `json:"offerAmount"`
	StartValidity *time.Time      `json:"startValidity,omitempty"`
	EndValidity   *time.Time      `json:"endValidity,omitempty"`
	Promocode     string          `json:"promocode"`
	PromoType     string          `json:"promoType"`
	Bank          []string        `json:"bank"`
	Bins          []int           `json:"bins"`
	Pincode       string          `json:"pincode"`
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"-"`
}

// AppliesToVendor reports whether the offer is generic or lists vendorID.
func (o Offer) AppliesToVendor(vendorID uuid.UUID) bool {
	if o.OfferType == GenericOffer {
		return true
	}
	return o.OwnedBy(vendorID)
}

// OwnedBy reports whether vendorID is listed on the offer.
func (o Offer) OwnedBy(vendorID uuid.UUID) bool {
	for _, id := range o.Vendors {
		if id == vendorID {
			return true
		}
	}
	return false
}

// OfferPatch carries the fields to change; nil fields stay as they are.
type OfferPatch struct {
	Title         *string
	Description   *string
	OfferType     *OfferType
	MinValue      *decimal.Decimal
	OfferAmount   *decimal.Decimal
	StartValidity *time.Time
	EndValidity   *time.Time
	Promocode     *string
	PromoType     *string
	Bank          []string
	Bins          []int
	Pincode       *string
	IsActive      *bool
}

type OfferRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, offer *Offer) error
	Update(ctx context.Context, offer *Offer) error
	Find(ctx context.Context, id uuid.UUID) (*Offer, error)
	FindActiveByPincode(ctx context.Context, pincode string) ([]Offer, error)
	// FindForVendor returns offers listing vendorID plus every generic offer.
	FindForVendor(ctx context.Context, vendorID uuid.UUID) ([]Offer, error)
}
