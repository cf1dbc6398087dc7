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

func NewOrderRepository(client sqlx.ExtContext) model.OrderRepository {
	return &orderRepository{client: client}
}

type orderRepository struct {
	client sqlx.ExtContext
}

type sqlxOrder struct {
	ID          uuid.UUID                 `db:"order_id"`
	OrderID     string                    `db:"human_order_id"`
	VendorID    uuid.UUID                 `db:"vendor_id"`
	CustomerID  uuid.UUID                 `db:"customer_id"`
	Items       jsonList[model.OrderItem] `db:"items"`
	TotalAmount decimal.Decimal           `db:"total_amount"`
	PaidAmount  decimal.Decimal           `db:"paid_amount"`
	OrderDate   time.Time                 `db:"order_date"`
	Status      string                    `db:"status"`
	Remarks     string                    `db:"remarks"`
	DeliveryID  uuid.NullUUID             `db:"delivery_user_id"`
	ReadyTime   int                       `db:"ready_time"`
	Version     int                       `db:"version"`
	UpdatedAt   time.Time                 `db:"updated_at"`
}

const orderColumns = `order_id, human_order_id, vendor_id, customer_id, items, total_amount, paid_amount,
	order_date, status, remarks, delivery_user_id, ready_time, version, updated_at`

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO customer_order (`+orderColumns+`)
		VALUES (:order_id, :human_order_id, :vendor_id, :customer_id, :items, :total_amount, :paid_amount,
			:order_date, :status, :remarks, :delivery_user_id, :ready_time, :version, :updated_at)`,
		toSqlxOrder(order),
	)
	if duplicateKey(err, "uq_order_human_id") {
		return model.ErrOrderIDTaken
	}
	return errors.WithStack(err)
}

func (r *orderRepository) Find(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM customer_order WHERE order_id = ?`, id)
}

func (r *orderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM customer_order WHERE human_order_id = ?`, orderID)
}

func (r *orderRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.client, &exists,
		`SELECT EXISTS(SELECT 1 FROM customer_order WHERE human_order_id = ?)`, orderID)
	return exists, errors.WithStack(err)
}

func (r *orderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Order, error) {
	return r.findMany(ctx, `
		SELECT `+orderColumns+` FROM customer_order WHERE customer_id = ? ORDER BY order_date`, customerID)
}

func (r *orderRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Order, error) {
	return r.findMany(ctx, `
		SELECT `+orderColumns+` FROM customer_order WHERE vendor_id = ? ORDER BY order_date`, vendorID)
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	row := toSqlxOrder(order)
	result, err := r.client.ExecContext(ctx, `
		UPDATE customer_order
		SET items = ?, total_amount = ?, paid_amount = ?, status = ?, remarks = ?, delivery_user_id = ?,
			ready_time = ?, version = ?, updated_at = ?
		WHERE order_id = ? AND version = ?`,
		row.Items, row.TotalAmount, row.PaidAmount, row.Status, row.Remarks, row.DeliveryID,
		row.ReadyTime, row.Version, row.UpdatedAt,
		row.ID, row.Version-1,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	updated, err := affected(result)
	if err != nil || updated {
		return err
	}

	if _, err = r.Find(ctx, order.ID); err != nil {
		return err
	}
	return model.ErrOptimisticLock
}

func (r *orderRepository) AssignDelivery(ctx context.Context, orderID, deliveryID uuid.UUID) (bool, error) {
	result, err := r.client.ExecContext(ctx, `
		UPDATE customer_order
		SET delivery_user_id = ?, version = version + 1, updated_at = ?
		WHERE order_id = ? AND delivery_user_id IS NULL`,
		deliveryID, now(), orderID,
	)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return affected(result)
}

func (r *orderRepository) findOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	var order sqlxOrder
	if err := sqlx.GetContext(ctx, r.client, &order, query, args...); err != nil {
		return nil, notFound(err, model.ErrOrderNotFound)
	}
	result := fromSqlxOrder(order)
	return &result, nil
}

func (r *orderRepository) findMany(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	var rows []sqlxOrder
	if err := sqlx.SelectContext(ctx, r.client, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}
	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, fromSqlxOrder(row))
	}
	return orders, nil
}

func toSqlxOrder(o *model.Order) sqlxOrder {
	var deliveryID uuid.NullUUID
	if o.DeliveryID != nil {
		deliveryID = uuid.NullUUID{UUID: *o.DeliveryID, Valid: true}
	}
	return sqlxOrder{
		ID:          o.ID,
		OrderID:     o.OrderID,
		VendorID:    o.VendorID,
		CustomerID:  o.CustomerID,
		Items:       o.Items,
		TotalAmount: o.TotalAmount,
		PaidAmount:  o.PaidAmount,
		OrderDate:   o.OrderDate,
		Status:      string(o.Status),
		Remarks:     o.Remarks,
		DeliveryID:  deliveryID,
		ReadyTime:   o.ReadyTime,
		Version:     o.Version,
		UpdatedAt:   o.UpdatedAt,
	}
}

func fromSqlxOrder(o sqlxOrder) model.Order {
	var deliveryID *uuid.UUID
	if o.DeliveryID.Valid {
		id := o.DeliveryID.UUID
		deliveryID = &id
	}
	return model.Order{
		ID:          o.ID,
		OrderID:     o.OrderID,
		VendorID:    o.VendorID,
		CustomerID:  o.CustomerID,
		Items:       nonNil(o.Items),
		TotalAmount: o.TotalAmount,
		PaidAmount:  o.PaidAmount,
		OrderDate:   o.OrderDate,
		Status:      model.OrderStatus(o.Status),
		Remarks:     o.Remarks,
		DeliveryID:  deliveryID,
		ReadyTime:   o.ReadyTime,
		Version:     o.Version,
		UpdatedAt:   o.UpdatedAt,
	}
}
