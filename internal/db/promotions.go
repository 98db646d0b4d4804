package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yourorg/eztech-media/internal/models"
)

const promotionSchema = `
create table if not exists promotion (
    id          bigserial primary key,
    title       text not null check (title <> ''),
    description text not null default '',
    image_url   text,
    start_date  timestamptz not null,
    end_date    timestamptz not null,
    is_active   boolean not null default false,
    check (end_date >= start_date)
);
create index if not exists promotion_active_idx on promotion (is_active, start_date);
`

const promotionColumns = `id, title, description, image_url, start_date, end_date, is_active`

type PromotionRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, p models.Promotion) (models.Promotion, error)
	Get(ctx context.Context, id int64) (models.Promotion, error)
	// List returns promotions ordered by start date; activeOnly keeps rows with is_active set.
	List(ctx context.Context, activeOnly bool) ([]models.Promotion, error)
	Update(ctx context.Context, p models.Promotion) (models.Promotion, error)
	// SetImage points the promotion at an image blob; nil clears it.
	SetImage(ctx context.Context, id int64, imageURL *string) error
	Delete(ctx context.Context, id int64) error
}

func NewPromotionRepo(p *Pool) PromotionRepository { return &promotionRepo{p: p} }

type promotionRepo struct{ p *Pool }

func validatePromotion(p models.Promotion) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	return nil
}

func scanPromotion(row pgx.Row) (models.Promotion, error) {
	var p models.Promotion
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.StartDate, &p.EndDate, &p.IsActive)
	if err != nil {
		return models.Promotion{}, mapPgErr(err)
	}
	return p, nil
}

func (r *promotionRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.p.Exec(ctx, promotionSchema)
	return err
}

func (r *promotionRepo) Create(ctx context.Context, p models.Promotion) (models.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return models.Promotion{}, err
	}
	const q = `insert into promotion (title, description, image_url, start_date, end_date, is_active)
               values ($1, $2, $3, $4, $5, $6)
               returning ` + promotionColumns
	return scanPromotion(r.p.QueryRow(ctx, q, p.Title, p.Description, p.ImageURL, p.StartDate, p.EndDate, p.IsActive))
}

func (r *promotionRepo) Get(ctx context.Context, id int64) (models.Promotion, error) {
	const q = `select ` + promotionColumns + ` from promotion where id = $1`
	return scanPromotion(r.p.QueryRow(ctx, q, id))
}

func (r *promotionRepo) List(ctx context.Context, activeOnly bool) ([]models.Promotion, error) {
	const q = `select ` + promotionColumns + ` from promotion
               where ($1 = false or is_active) order by start_date asc, id asc`
	rows, err := r.p.Query(ctx, q, activeOnly)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()
	out := []models.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapPgErr(rows.Err())
}

func (r *promotionRepo) Update(ctx context.Context, p models.Promotion) (models.Promotion, error) {
	if err := validatePromotion(p); err != nil {
		return models.Promotion{}, err
	}
	const q = `update promotion set title=$2, description=$3, image_url=$4, start_date=$5, end_date=$6, is_active=$7
               where id = $1
               returning ` + promotionColumns
	return scanPromotion(r.p.QueryRow(ctx, q, p.ID, p.Title, p.Description, p.ImageURL, p.StartDate, p.EndDate, p.IsActive))
}

func (r *promotionRepo) SetImage(ctx context.Context, id int64, imageURL *string) error {
	tag, err := r.p.Exec(ctx, `update promotion set image_url = $2 where id = $1`, id, imageURL)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *promotionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.p.Exec(ctx, `delete from promotion where id = $1`, id)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
