package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

type PaymentService interface {
	// CreateTransaction opens a cash-on-delivery transaction. An active offer
	// is subtracted from amount; an unknown or inactive offer is ignored.
	CreateTransaction(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, paymentMode string, offerID *uuid.UUID) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

func NewPaymentService(transactions model.TransactionRepository, offers model.OfferRepository, dispatcher EventDispatcher) PaymentService {
	return &paymentService{transactions: transactions, offers: offers, dispatcher: dispatcher}
}

type paymentService struct {
	transactions model.TransactionRepository
	offers       model.OfferRepository
	dispatcher   EventDispatcher
}

func (s *paymentService) CreateTransaction(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, paymentMode string, offerID *uuid.UUID) (*model.Transaction, error) {
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	payable := amount
	offerUsed := model.NoOffer
	if offerID != nil {
		offerUsed = offerID.String()
		discount, err := s.discount(ctx, *offerID)
		if err != nil {
			return nil, err
		}
		payable = payable.Sub(discount)
	}
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	if paymentMode == "" {
		paymentMode = model.DefaultPaymentMode
	}

	id, err := s.transactions.NextID()
	if err != nil {
		return nil, err
	}
	tx := &model.Transaction{
		ID:            id,
		CustomerID:    customerID,
		PayableAmount: payable,
		OfferUsed:     offerUsed,
		Status:        model.TxOpen,
		PaymentMode:   paymentMode,
		PaymentNote:   model.CashOnDeliveryNote,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.TransactionOpened{
		TransactionID: id,
		CustomerID:    customerID,
		Amount:        payable,
		OfferUsed:     offerUsed,
	})
	return tx, nil
}

func (s *paymentService) discount(ctx context.Context, offerID uuid.UUID) (decimal.Decimal, error) {
	offer, err := s.offers.Find(ctx, offerID)
	if model.KindOf(err) == model.KindNotFound {
		log.WithField("offer", offerID).Info("offer not found, paying full amount")
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	if !offer.IsActive {
		return decimal.Zero, nil
	}
	return offer.OfferAmount, nil
}

func (s *paymentService) GetTransaction(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	return s.transactions.Find(ctx, id)
}

func (s *paymentService) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.transactions.List(ctx)
}
