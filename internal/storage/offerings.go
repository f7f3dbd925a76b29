package storage

import (
	"context"
	"fmt"

	"chapkhane/internal/shop"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OfferingRepository stores shop.Offering rows in the services table.
type OfferingRepository struct {
	db *sqlx.DB
}

func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

const offeringColumns = `id, slug, title_fa, title_en, description_fa, description_en,
	starting_price, active, sort_order, created_at`

func (r *OfferingRepository) Save(ctx context.Context, o *shop.Offering) error {
	const query = `
		INSERT INTO services (` + offeringColumns + `)
		VALUES (:id, :slug, :title_fa, :title_en, :description_fa, :description_en,
			:starting_price, :active, :sort_order, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			title_fa = EXCLUDED.title_fa,
			title_en = EXCLUDED.title_en,
			description_fa = EXCLUDED.description_fa,
			description_en = EXCLUDED.description_en,
			starting_price = EXCLUDED.starting_price,
			active = EXCLUDED.active,
			sort_order = EXCLUDED.sort_order`

	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("failed to save service: %w", err)
	}
	return nil
}

func (r *OfferingRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Offering, error) {
	const query = `SELECT ` + offeringColumns + ` FROM services WHERE id = $1`

	var o shop.Offering
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, notFound("service", id, err)
	}
	return &o, nil
}

func (r *OfferingRepository) List(ctx context.Context, activeOnly bool) ([]shop.Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY sort_order, slug`

	var list []shop.Offering
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}
	return list, nil
}

func (r *OfferingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return requireAffected(res, "service", id)
}
