package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

func NewDeliveryUserRepository(client sqlx.ExtContext) model.DeliveryUserRepository {
	return &deliveryUserRepository{client: client}
}

type deliveryUserRepository struct {
	client sqlx.ExtContext
}

type sqlxDeliveryUser struct {
	ID           uuid.UUID `db:"delivery_user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Address      string    `db:"address"`
	Phone        string    `db:"phone"`
	Pincode      string    `db:"pincode"`
	Verified     bool      `db:"verified"`
	IsAvailable  bool      `db:"is_available"`
	OnDelivery   bool      `db:"on_delivery"`
	Lat          float64   `db:"lat"`
	Lng          float64   `db:"lng"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const deliveryUserColumns = `delivery_user_id, email, password_hash, first_name, last_name, address, phone,
	pincode, verified, is_available, on_delivery, lat, lng, created_at, updated_at`

func (r *deliveryUserRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *deliveryUserRepository) Create(ctx context.Context, user *model.DeliveryUser) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO delivery_user (`+deliveryUserColumns+`)
		VALUES (:delivery_user_id, :email, :password_hash, :first_name, :last_name, :address, :phone,
			:pincode, :verified, :is_available, :on_delivery, :lat, :lng, :created_at, :updated_at)`,
		sqlxDeliveryUser(*user),
	)
	return errors.WithStack(err)
}

func (r *deliveryUserRepository) Update(ctx context.Context, user *model.DeliveryUser) error {
	result, err := sqlx.NamedExecContext(ctx, r.client, `
		UPDATE delivery_user
		SET email = :email, password_hash = :password_hash, first_name = :first_name, last_name = :last_name,
			address = :address, phone = :phone, pincode = :pincode, verified = :verified,
			is_available = :is_available, lat = :lat, lng = :lng, updated_at = :updated_at
		WHERE delivery_user_id = :delivery_user_id`,
		sqlxDeliveryUser(*user),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrDeliveryUserNotFound
	}
	return nil
}

func (r *deliveryUserRepository) Find(ctx context.Context, id uuid.UUID) (*model.DeliveryUser, error) {
	var user sqlxDeliveryUser
	err := sqlx.GetContext(ctx, r.client, &user,
		`SELECT `+deliveryUserColumns+` FROM delivery_user WHERE delivery_user_id = ?`, id)
	if err != nil {
		return nil, notFound(err, model.ErrDeliveryUserNotFound)
	}
	result := model.DeliveryUser(user)
	return &result, nil
}

func (r *deliveryUserRepository) FindByEmail(ctx context.Context, email string) (*model.DeliveryUser, error) {
	var user sqlxDeliveryUser
	err := sqlx.GetContext(ctx, r.client, &user,
		`SELECT `+deliveryUserColumns+` FROM delivery_user WHERE email = ?`, email)
	if err != nil {
		return nil, notFound(err, model.ErrDeliveryUserNotFound)
	}
	result := model.DeliveryUser(user)
	return &result, nil
}

func (r *deliveryUserRepository) List(ctx context.Context) ([]model.DeliveryUser, error) {
	return r.findMany(ctx, `SELECT `+deliveryUserColumns+` FROM delivery_user ORDER BY created_at`)
}

func (r *deliveryUserRepository) FindAvailable(ctx context.Context, pincode string) ([]model.DeliveryUser, error) {
	return r.findMany(ctx, `
		SELECT `+deliveryUserColumns+` FROM delivery_user
		WHERE pincode = ? AND verified = TRUE AND is_available = TRUE AND on_delivery = FALSE
		ORDER BY created_at`,
		pincode,
	)
}

func (r *deliveryUserRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.client.ExecContext(ctx, `
		UPDATE delivery_user
		SET on_delivery = TRUE, updated_at = ?
		WHERE delivery_user_id = ? AND verified = TRUE AND is_available = TRUE AND on_delivery = FALSE`,
		now(), id,
	)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return affected(result)
}

func (r *deliveryUserRepository) Release(ctx context.Context, id uuid.UUID) error {
	result, err := r.client.ExecContext(ctx, `
		UPDATE delivery_user SET on_delivery = FALSE, updated_at = ? WHERE delivery_user_id = ?`,
		now(), id,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrDeliveryUserNotFound
	}
	return nil
}

func (r *deliveryUserRepository) findMany(ctx context.Context, query string, args ...any) ([]model.DeliveryUser, error) {
	var rows []sqlxDeliveryUser
	if err := sqlx.SelectContext(ctx, r.client, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}
	users := make([]model.DeliveryUser, 0, len(rows))
	for _, row := range rows {
		users = append(users, model.DeliveryUser(row))
	}
	return users, nil
}
