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

func NewOfferRepository(client sqlx.ExtContext) model.OfferRepository {
	return &offerRepository{client: client}
}

type offerRepository struct {
	client sqlx.ExtContext
}

type sqlxOffer struct {
	ID            uuid.UUID           `db:"offer_id"`
	OfferType     string              `db:"offer_type"`
	Vendors       jsonList[uuid.UUID] `db:"vendors"`
	Title         string              `db:"title"`
	Description   string              `db:"description"`
	MinValue      decimal.Decimal     `db:"min_value"`
	OfferAmount   decimal.Decimal     `db:"offer_amount"`
	StartValidity *time.Time          `db:"start_validity"`
	EndValidity   *time.Time          `db:"end_validity"`
	Promocode     string              `db:"promocode"`
	PromoType     string              `db:"promo_type"`
	Bank          jsonList[string]    `db:"bank"`
	Bins          jsonList[int]       `db:"bins"`
	Pincode       string              `db:"pincode"`
	IsActive      bool                `db:"is_active"`
	CreatedAt     time.Time           `db:"created_at"`
}

const offerColumns = `offer_id, offer_type, vendors, title, description, min_value, offer_amount,
	start_validity, end_validity, promocode, promo_type, bank, bins, pincode, is_active, created_at`

func (r *offerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO offer (`+offerColumns+`)
		VALUES (:offer_id, :offer_type, :vendors, :title, :description, :min_value, :offer_amount,
			:start_validity, :end_validity, :promocode, :promo_type, :bank, :bins, :pincode, :is_active, :created_at)`,
		toSqlxOffer(offer),
	)
	return errors.WithStack(err)
}

func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	result, err := sqlx.NamedExecContext(ctx, r.client, `
		UPDATE offer
		SET offer_type = :offer_type, vendors = :vendors, title = :title, description = :description,
			min_value = :min_value, offer_amount = :offer_amount, start_validity = :start_validity,
			end_validity = :end_validity, promocode = :promocode, promo_type = :promo_type, bank = :bank,
			bins = :bins, pincode = :pincode, is_active = :is_active
		WHERE offer_id = :offer_id`,
		toSqlxOffer(offer),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	found, err := affected(result)
	if err != nil {
		return err
	}
	if !found {
		return model.ErrOfferNotFound
	}
	return nil
}

func (r *offerRepository) Find(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	var offer sqlxOffer
	err := sqlx.GetContext(ctx, r.client, &offer, `SELECT `+offerColumns+` FROM offer WHERE offer_id = ?`, id)
	if err != nil {
		return nil, notFound(err, model.ErrOfferNotFound)
	}
	result := fromSqlxOffer(offer)
	return &result, nil
}

func (r *offerRepository) FindActiveByPincode(ctx context.Context, pincode string) ([]model.Offer, error) {
	return r.findMany(ctx, `
		SELECT `+offerColumns+` FROM offer
		WHERE pincode = ? AND is_active = TRUE
		ORDER BY created_at`,
		pincode,
	)
}

func (r *offerRepository) FindForVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Offer, error) {
	return r.findMany(ctx, `
		SELECT `+offerColumns+` FROM offer
		WHERE offer_type = ? OR JSON_CONTAINS(vendors, JSON_QUOTE(?))
		ORDER BY created_at`,
		string(model.GenericOffer), vendorID.String(),
	)
}

func (r *offerRepository) findMany(ctx context.Context, query string, args ...any) ([]model.Offer, error) {
	var rows []sqlxOffer
	if err := sqlx.SelectContext(ctx, r.client, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}
	offers := make([]model.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, fromSqlxOffer(row))
	}
	return offers, nil
}

func toSqlxOffer(o *model.Offer) sqlxOffer {
	return sqlxOffer{
		ID:            o.ID,
		OfferType:     string(o.OfferType),
		Vendors:       o.Vendors,
		Title:         o.Title,
		Description:   o.Description,
		MinValue:      o.MinValue,
		OfferAmount:   o.OfferAmount,
		StartValidity: o.StartValidity,
		EndValidity:   o.EndValidity,
		Promocode:     o.Promocode,
		PromoType:     o.PromoType,
		Bank:          o.Bank,
		Bins:          o.Bins,
		Pincode:       o.Pincode,
		IsActive:      o.IsActive,
		CreatedAt:     o.CreatedAt,
	}
}

func fromSqlxOffer(o sqlxOffer) model.Offer {
	return model.Offer{
		ID:            o.ID,
		OfferType:     model.OfferType(o.OfferType),
		Vendors:       nonNil(o.Vendors),
		Title:         o.Title,
		Description:   o.Description,
		MinValue:      o.MinValue,
		OfferAmount:   o.OfferAmount,
		StartValidity: o.StartValidity,
		EndValidity:   o.EndValidity,
		Promocode:     o.Promocode,
		PromoType:     o.PromoType,
		Bank:          nonNil(o.Bank),
		Bins:          nonNil(o.Bins),
		Pincode:       o.Pincode,
		IsActive:      o.IsActive,
		CreatedAt:     o.CreatedAt,
	}
}
