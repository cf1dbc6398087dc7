package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

func NewCustomerRepository(client sqlx.ExtContext) model.CustomerRepository {
	return &customerRepository{client: client}
}

type customerRepository struct {
	client sqlx.ExtContext
}

type sqlxCustomer struct {
	ID           uuid.UUID                `db:"customer_id"`
	Email        string                   `db:"email"`
	PasswordHash string                   `db:"password_hash"`
	FirstName    string                   `db:"first_name"`
	LastName     string                   `db:"last_name"`
	Address      string                   `db:"address"`
	Phone        string                   `db:"phone"`
	Pincode      string                   `db:"pincode"`
	Verified     bool                     `db:"verified"`
	Lat          float64                  `db:"lat"`
	Lng          float64                  `db:"lng"`
	Cart         jsonList[model.CartItem] `db:"cart"`
	Orders       jsonList[uuid.UUID]      `db:"orders"`
	CreatedAt    time.Time                `db:"created_at"`
	UpdatedAt    time.Time                `db:"updated_at"`
}

const customerColumns = `customer_id, email, password_hash, first_name, last_name, address, phone, pincode,
	verified, lat, lng, cart, orders, created_at, updated_at`

func (r *customerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO customer (`+customerColumns+`)
		VALUES (:customer_id, :email, :password_hash, :first_name, :last_name, :address, :phone, :pincode,
			:verified, :lat, :lng, :cart, :orders, :created_at, :updated_at)`,
		toSqlxCustomer(customer),
	)
	return errors.WithStack(err)
}

// Update leaves the orders column alone; only AppendOrder writes it.
func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	result, err := sqlx.NamedExecContext(ctx, r.client, `
		UPDATE customer
		SET email = :email, password_hash = :password_hash, first_name = :first_name, last_name = :last_name,
			address = :address, phone = :phone, pincode = :pincode, verified = :verified, lat = :lat, lng = :lng,
			cart = :cart, updated_at = :updated_at
		WHERE customer_id = :customer_id`,
		toSqlxCustomer(customer),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) AppendOrder(ctx context.Context, customerID, orderID uuid.UUID) error {
	result, err := r.client.ExecContext(ctx, `
		UPDATE customer
		SET orders = JSON_ARRAY_APPEND(orders, '$', ?), updated_at = ?
		WHERE customer_id = ?`,
		orderID.String(), now(), customerID,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepository) Find(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customer WHERE customer_id = ?`, id)
}

func (r *customerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customer WHERE email = ?`, email)
}

func (r *customerRepository) findOne(ctx context.Context, query string, args ...any) (*model.Customer, error) {
	var customer sqlxCustomer
	if err := sqlx.GetContext(ctx, r.client, &customer, query, args...); err != nil {
		return nil, notFound(err, model.ErrCustomerNotFound)
	}
	return fromSqlxCustomer(customer), nil
}

func toSqlxCustomer(c *model.Customer) sqlxCustomer {
	return sqlxCustomer{
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Address:      c.Address,
		Phone:        c.Phone,
		Pincode:      c.Pincode,
		Verified:     c.Verified,
		Lat:          c.Lat,
		Lng:          c.Lng,
		Cart:         c.Cart,
		Orders:       c.Orders,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func fromSqlxCustomer(c sqlxCustomer) *model.Customer {
	return &model.Customer{
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Address:      c.Address,
		Phone:        c.Phone,
		Pincode:      c.Pincode,
		Verified:     c.Verified,
		Lat:          c.Lat,
		Lng:          c.Lng,
		Cart:         nonNil(c.Cart),
		Orders:       nonNil(c.Orders),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func nonNil[T any](list jsonList[T]) []T {
	if list == nil {
		return []T{}
	}
	return list
}
