package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// NoOffer marks a transaction paid without a discount.
	NoOffer            = "NA"
	DefaultPaymentMode = "COD"
	CashOnDeliveryNote = "Payment is cash on delivery"
)

var (
	ErrTransactionNotFound = NewError(KindNotFound, "transaction not found")
	ErrInvalidTransaction  = NewError(KindInvalidTransaction, "invalid transaction")
	ErrInvalidAmount       = NewError(KindValidation, "amount must be positive")
)

type TransactionStatus string

const (
	TxOpen      TransactionStatus = "OPEN"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
)

type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	CustomerID    uuid.UUID         `json:"customer"`
	OrderID       *uuid.UUID        `json:"orderId"`
	PayableAmount decimal.Decimal   `json:"orderValue"`
	OfferUsed     string            `json:"offerUsed"`
	Status        TransactionStatus `json:"status"`
	PaymentMode   string            `json:"paymentMode"`
	PaymentNote   string            `json:"paymentResponse"`
	CreatedAt     time.Time         `json:"createdAt"`
}

type TransactionRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, tx *Transaction) error
	Find(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	// LinkOrder attaches orderID only while the transaction is not yet linked.
	// It reports whether the link happened.
	LinkOrder(ctx context.Context, txID, orderID uuid.UUID) (bool, error)
}
