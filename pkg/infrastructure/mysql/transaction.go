package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"restro/pkg/domain/model"
)

func NewTransactionRepository(client sqlx.ExtContext) model.TransactionRepository {
	return &transactionRepository{client: client}
}

type transactionRepository struct {
	client sqlx.ExtContext
}

type sqlxTransaction struct {
	ID            uuid.UUID       `db:"transaction_id"`
	CustomerID    uuid.UUID       `db:"customer_id"`
	OrderID       uuid.NullUUID   `db:"order_id"`
	PayableAmount decimal.Decimal `db:"payable_amount"`
	OfferUsed     string          `db:"offer_used"`
	Status        string          `db:"status"`
	PaymentMode   string          `db:"payment_mode"`
	PaymentNote   string          `db:"payment_note"`
	CreatedAt     time.Time       `db:"created_at"`
}

const transactionColumns = `transaction_id, customer_id, order_id, payable_amount, offer_used, status,
	payment_mode, payment_note, created_at`

func (r *transactionRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	var orderID uuid.NullUUID
	if tx.OrderID != nil {
		orderID = uuid.NullUUID{UUID: *tx.OrderID, Valid: true}
	}
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO payment_transaction (`+transactionColumns+`)
		VALUES (:transaction_id, :customer_id, :order_id, :payable_amount, :offer_used, :status,
			:payment_mode, :payment_note, :created_at)`,
		sqlxTransaction{
			ID:            tx.ID,
			CustomerID:    tx.CustomerID,
			OrderID:       orderID,
			PayableAmount: tx.PayableAmount,
			OfferUsed:     tx.OfferUsed,
			Status:        string(tx.Status),
			PaymentMode:   tx.PaymentMode,
			PaymentNote:   tx.PaymentNote,
			CreatedAt:     tx.CreatedAt,
		},
	)
	return errors.WithStack(err)
}

func (r *transactionRepository) Find(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var tx sqlxTransaction
	err := sqlx.GetContext(ctx, r.client, &tx,
		`SELECT `+transactionColumns+` FROM payment_transaction WHERE transaction_id = ?`, id)
	if err != nil {
		return nil, notFound(err, model.ErrTransactionNotFound)
	}
	result := fromSqlxTransaction(tx)
	return &result, nil
}

func (r *transactionRepository) List(ctx context.Context) ([]model.Transaction, error) {
	var rows []sqlxTransaction
	err := sqlx.SelectContext(ctx, r.client, &rows,
		`SELECT `+transactionColumns+` FROM payment_transaction ORDER BY created_at`)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	transactions := make([]model.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, fromSqlxTransaction(row))
	}
	return transactions, nil
}

func (r *transactionRepository) LinkOrder(ctx context.Context, txID, orderID uuid.UUID) (bool, error) {
	result, err := r.client.ExecContext(ctx, `
		UPDATE payment_transaction
		SET order_id = ?
		WHERE transaction_id = ? AND order_id IS NULL`,
		orderID, txID,
	)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return affected(result)
}

func fromSqlxTransaction(t sqlxTransaction) model.Transaction {
	var orderID *uuid.UUID
	if t.OrderID.Valid {
		id := t.OrderID.UUID
		orderID = &id
	}
	return model.Transaction{
		ID:            t.ID,
		CustomerID:    t.CustomerID,
		OrderID:       orderID,
		PayableAmount: t.PayableAmount,
		OfferUsed:     t.OfferUsed,
		Status:        model.TransactionStatus(t.Status),
		PaymentMode:   t.PaymentMode,
		PaymentNote:   t.PaymentNote,
		CreatedAt:     t.CreatedAt,
	}
}
