package mysql

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"restro/pkg/domain/model"
)

func NewFoodRepository(client sqlx.ExtContext) model.FoodRepository {
	return &foodRepository{client: client}
}

type foodRepository struct {
	client sqlx.ExtContext
}

type sqlxFood struct {
	ID          uuid.UUID        `db:"food_id"`
	VendorID    uuid.UUID        `db:"vendor_id"`
	Name        string           `db:"name"`
	Description string           `db:"description"`
	Category    string           `db:"category"`
	FoodType    string           `db:"food_type"`
	ReadyTime   int              `db:"ready_time"`
	Price       decimal.Decimal  `db:"price"`
	Rating      float64          `db:"rating"`
	Images      jsonList[string] `db:"images"`
	CreatedAt   time.Time        `db:"created_at"`
}

const foodColumns = `food_id, vendor_id, name, description, category, food_type, ready_time, price, rating,
	images, created_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *foodRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *foodRepository) Create(ctx context.Context, food *model.Food) error {
	_, err := sqlx.NamedExecContext(ctx, r.client, `
		INSERT INTO food (`+foodColumns+`)
		VALUES (:food_id, :vendor_id, :name, :description, :category, :food_type, :ready_time, :price, :rating,
			:images, :created_at)`,
		sqlxFood{
			ID:          food.ID,
			VendorID:    food.VendorID,
			Name:        food.Name,
			Description: food.Description,
			Category:    food.Category,
			FoodType:    food.FoodType,
			ReadyTime:   food.ReadyTime,
			Price:       food.Price,
			Rating:      food.Rating,
			Images:      food.Images,
			CreatedAt:   food.CreatedAt,
		},
	)
	return errors.WithStack(err)
}

func (r *foodRepository) Find(ctx context.Context, id uuid.UUID) (*model.Food, error) {
	var food sqlxFood
	err := sqlx.GetContext(ctx, r.client, &food, `SELECT `+foodColumns+` FROM food WHERE food_id = ?`, id)
	if err != nil {
		return nil, notFound(err, model.ErrFoodNotFound)
	}
	result := fromSqlxFood(food)
	return &result, nil
}

func (r *foodRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Food, error) {
	if len(ids) == 0 {
		return []model.Food{}, nil
	}
	query, args, err := sqlx.In(`SELECT `+foodColumns+` FROM food WHERE food_id IN (?)`, ids)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return r.findMany(ctx, r.client.Rebind(query), args...)
}

func (r *foodRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]model.Food, error) {
	return r.findMany(ctx, `SELECT `+foodColumns+` FROM food WHERE vendor_id = ? ORDER BY created_at`, vendorID)
}

func (r *foodRepository) FindByFilter(ctx context.Context, filter model.FoodFilter) ([]model.Food, error) {
	var (
		conditions []string
		args       []any
	)
	if len(filter.VendorIDs) > 0 {
		conditions = append(conditions, "vendor_id IN (?)")
		args = append(args, filter.VendorIDs)
	}
	if filter.MaxReadyTime > 0 {
		conditions = append(conditions, "ready_time <= ?")
		args = append(args, filter.MaxReadyTime)
	}
	if filter.NameContains != "" {
		// The column collation is case-insensitive.
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+likeEscaper.Replace(filter.NameContains)+"%")
	}

	query := `SELECT ` + foodColumns + ` FROM food`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return r.findMany(ctx, r.client.Rebind(query), args...)
}

func (r *foodRepository) findMany(ctx context.Context, query string, args ...any) ([]model.Food, error) {
	var rows []sqlxFood
	if err := sqlx.SelectContext(ctx, r.client, &rows, query, args...); err != nil {
		return nil, errors.WithStack(err)
	}
	foods := make([]model.Food, 0, len(rows))
	for _, row := range rows {
		foods = append(foods, fromSqlxFood(row))
	}
	return foods, nil
}

func fromSqlxFood(f sqlxFood) model.Food {
	return model.Food{
		ID:          f.ID,
		VendorID:    f.VendorID,
		Name:        f.Name,
		Description: f.Description,
		Category:    f.Category,
		FoodType:    f.FoodType,
		ReadyTime:   f.ReadyTime,
		Price:       f.Price,
		Rating:      f.Rating,
		Images:      nonNil(f.Images),
		CreatedAt:   f.CreatedAt,
	}
}
