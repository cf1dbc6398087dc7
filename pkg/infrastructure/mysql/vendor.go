package mysql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

func NewVendorRepository(client sqlx.ExtContext) model.VendorRepository {
	return &vendorRepository{client: client}
}

type vendorRepository struct {
	client sqlx.ExtContext
}

type sqlxVendor struct {
	ID               uuid.UUID           `db:"vendor_id"`
	Name             string              `db:"name"`
	OwnerName        string              `db:"owner_name"`
	FoodTypes        jsonList[string]    `db:"food_types"`
	Pincode          string              `db:"pincode"`
	Address          string              `db:"address"`
	Phone            string              `db:"phone"`
	Email            string              `db:"email"`
	PasswordHash     string              `db:"password_hash"`
	ServiceAvailable bool                `db:"service_available"`
	CoverImages      jsonList[string]    `db:"cover_images"`
	Rating           float64             `db:"rating"`
	Foods            jsonList[uuid.UUID] `db:"foods"`
	Lat              float64             `db:"lat"`
	Lng              float64             `db:"lng"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}

const vendorColumns = `vendor_id, name, owner_name, food_types, pincode, address, phone, email, password_hash,
	service_available, cover_images, rating, foods, lat, lng, created_at, updated_at`

func (r *vendorRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *vendorRepository) Create(ctx context.Context, vendor *model.Vendor) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO vendor (`+vendorColumns+`)
		VALUES (:vendor_id, :name, :owner_name, :food_types, :pincode, :address, :phone, :email, :password_hash,
			:service_available, :cover_images, :rating, :foods, :lat, :lng, :created_at, :updated_at)`,
		toSqlxVendor(vendor),
	)
	return errors.WithStack(err)
}

func (r *vendorRepository) Update(ctx context.Context, vendor *model.Vendor) error {
	result, err := sqlx.NamedExecContext(ctx, r.client, `
		UPDATE vendor
		SET name = :name, owner_name = :owner_name, food_types = :food_types, pincode = :pincode,
			address = :address, phone = :phone, email = :email, password_hash = :password_hash,
			service_available = :service_available, cover_images = :cover_images, rating = :rating,
			foods = :foods, lat = :lat, lng = :lng, updated_at = :updated_at
		WHERE vendor_id = :vendor_id`,
		toSqlxVendor(vendor),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrVendorNotFound
	}
	return nil
}

func (r *vendorRepository) Find(ctx context.Context, id uuid.UUID) (*model.Vendor, error) {
	return r.findOne(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE vendor_id = ?`, id)
}

func (r *vendorRepository) FindByEmail(ctx context.Context, email string) (*model.Vendor, error) {
	return r.findOne(ctx, `SELECT `+vendorColumns+` FROM vendor WHERE email = ?`, email)
}

func (r *vendorRepository) List(ctx context.Context) ([]model.Vendor, error) {
	return r.findMany(ctx, `SELECT `+vendorColumns+` FROM vendor ORDER BY created_at`)
}

func (r *vendorRepository) FindServiceable(ctx context.Context, pincode string) ([]model.Vendor, error) {
	return r.findMany(ctx, `
		SELECT `+vendorColumns+` FROM vendor
		WHERE pincode = ? AND service_available = TRUE
		ORDER BY created_at`,
		pincode,
	)
}

func (r *vendorRepository) FindTopRated(ctx context.Context, pincode string, minRating float64, limit int) ([]model.Vendor, error) {
	return r.findMany(ctx, `
		SELECT `+vendorColumns+` FROM vendor
		WHERE pincode = ? AND service_available = TRUE AND rating >= ?
		ORDER BY rating DESC
		LIMIT ?`,
		pincode, minRating, limit,
	)
}

func (r *vendorRepository) findOne(ctx context.Context, query string, args ...any) (*model.Vendor, error) {
	var vendor sqlxVendor
	if err := sqlx.GetContext(ctx, r.client, &vendor, query, args...); err != nil {
		return nil, notFound(err, model.ErrVendorNotFound)
	}
	result := fromSqlxVendor(vendor)
	return &result, nil
}

func (r *vendorRepository) findMany(ctx context.Context, query string, args ...any) ([]model.Vendor, error) {
	var rows []sqlxVendor
	if err := sqlx.SelectContext(ctx, r.client, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}
	vendors := make([]model.Vendor, 0, len(rows))
	for _, row := range rows {
		vendors = append(vendors, fromSqlxVendor(row))
	}
	return vendors, nil
}

func toSqlxVendor(v *model.Vendor) sqlxVendor {
	return sqlxVendor{
		ID:               v.ID,
		Name:             v.Name,
		OwnerName:        v.OwnerName,
		FoodTypes:        v.FoodTypes,
		Pincode:          v.Pincode,
		Address:          v.Address,
		Phone:            v.Phone,
		Email:            v.Email,
		PasswordHash:     v.PasswordHash,
		ServiceAvailable: v.ServiceAvailable,
		CoverImages:      v.CoverImages,
		Rating:           v.Rating,
		Foods:            v.Foods,
		Lat:              v.Lat,
		Lng:              v.Lng,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func fromSqlxVendor(v sqlxVendor) model.Vendor {
	return model.Vendor{
		ID:               v.ID,
		Name:             v.Name,
		OwnerName:        v.OwnerName,
		FoodTypes:        nonNil(v.FoodTypes),
		Pincode:          v.Pincode,
		Address:          v.Address,
		Phone:            v.Phone,
		Email:            v.Email,
		PasswordHash:     v.PasswordHash,
		ServiceAvailable: v.ServiceAvailable,
		CoverImages:      nonNil(v.CoverImages),
		Rating:           v.Rating,
		Foods:            nonNil(v.Foods),
		Lat:              v.Lat,
		Lng:              v.Lng,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}
