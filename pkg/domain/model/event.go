package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderCreated struct {
	OrderID    uuid.UUID
	HumanID    string
	CustomerID uuid.UUID
	VendorID   uuid.UUID
	Amount     decimal.Decimal
}

func (e OrderCreated) Type() string { return "OrderCreated" }

type DeliveryAssigned struct {
	OrderID    uuid.UUID
	DeliveryID uuid.UUID
}

func (e DeliveryAssigned) Type() string { return "DeliveryAssigned" }

type OrderStatusChanged struct {
	OrderID  uuid.UUID
	VendorID uuid.UUID
	From     OrderStatus
	To       OrderStatus
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }

type TransactionOpened struct {
	TransactionID uuid.UUID
	CustomerID    uuid.UUID
	Amount        decimal.Decimal
	OfferUsed     string
}

func (e TransactionOpened) Type() string { return "TransactionOpened" }

type CustomerRegistered struct {
	CustomerID uuid.UUID
	Email      string
}

func (e CustomerRegistered) Type() string { return "CustomerRegistered" }

type CustomerVerified struct {
	CustomerID uuid.UUID
}

func (e CustomerVerified) Type() string { return "CustomerVerified" }

type DeliveryUserRegistered struct {
	DeliveryUserID uuid.UUID
	Email          string
}

func (e DeliveryUserRegistered) Type() string { return "DeliveryUserRegistered" }

type DeliveryUserVerified struct {
	DeliveryUserID uuid.UUID
	Verified       bool
}

func (e DeliveryUserVerified) Type() string { return "DeliveryUserVerified" }

type VendorCreated struct {
	VendorID uuid.UUID
	Name     string
}

func (e VendorCreated) Type() string { return "VendorCreated" }

type FoodAdded struct {
	FoodID   uuid.UUID
	VendorID uuid.UUID
}

func (e FoodAdded) Type() string { return "FoodAdded" }

type OfferCreated struct {
	OfferID   uuid.UUID
	OfferType OfferType
}

func (e OfferCreated) Type() string { return "OfferCreated" }

type ImageUploadFailed struct {
	FileName string
	Reason   string
}

func (e ImageUploadFailed) Type() string { return "ImageUploadFailed" }
