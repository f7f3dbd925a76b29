package storage

import (
	"context"
	"errors"
	"fmt"

	"chapkhane/internal/pricing"
	"chapkhane/pkg/redis"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog:v1"

// CatalogStore loads the price tables from Postgres. Reads go through Redis
// when a client is configured. Currency and the custom area rate are not
// stored; they always come from defaults, which carries the configured values.
type CatalogStore struct {
	db       *sqlx.DB
	cache    *redis.Client
	defaults pricing.Catalog
	logger   *zap.Logger
}

func NewCatalogStore(db *sqlx.DB, cache *redis.Client, defaults pricing.Catalog, logger *zap.Logger) *CatalogStore {
	return &CatalogStore{db: db, cache: cache, defaults: defaults, logger: logger}
}

type priceOptionRow struct {
	Dimension string              `db:"dimension"`
	ID        string              `db:"id"`
	LabelFa   string              `db:"label_fa"`
	LabelEn   string              `db:"label_en"`
	Value     decimal.Decimal     `db:"value"`
	WidthCM   decimal.NullDecimal `db:"width_cm"`
	HeightCM  decimal.NullDecimal `db:"height_cm"`
	SortOrder int                 `db:"sort_order"`
}

// LoadCatalog returns the stored catalog, seeding the defaults into an empty
// database first.
func (s *CatalogStore) LoadCatalog(ctx context.Context) (pricing.Catalog, error) {
	const operation = "storage.CatalogStore.LoadCatalog"

	if s.cache != nil {
		var cached pricing.Catalog
		err := s.cache.GetJSON(ctx, catalogCacheKey, &cached)
		if err == nil {
			return s.configured(cached), nil
		}
		if !errors.Is(err, redis.ErrMiss) {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
	}

	var options []priceOptionRow
	if err := s.db.SelectContext(ctx, &options,
		`SELECT dimension, id, label_fa, label_en, value, width_cm, height_cm, sort_order
		 FROM price_options ORDER BY dimension, sort_order, id`); err != nil {
		return pricing.Catalog{}, fmt.Errorf("%s: options: %w", operation, err)
	}

	if len(options) == 0 {
		s.logger.Info("Price tables empty, seeding defaults")
		if err := s.Save(ctx, s.defaults); err != nil {
			return pricing.Catalog{}, fmt.Errorf("%s: %w", operation, err)
		}
		return s.defaults.Clone(), nil
	}

	var tiers []pricing.Tier
	if err := s.db.SelectContext(ctx, &tiers,
		`SELECT min_quantity, rate FROM discount_tiers ORDER BY min_quantity DESC`); err != nil {
		return pricing.Catalog{}, fmt.Errorf("%s: discount tiers: %w", operation, err)
	}
	catalog, err := assembleCatalog(options, tiers, s.defaults)
	if err != nil {
		return pricing.Catalog{}, fmt.Errorf("%s: %w", operation, err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, catalogCacheKey, catalog); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}
	return catalog, nil
}

// Save replaces the stored price tables with catalog.
func (s *CatalogStore) Save(ctx context.Context, catalog pricing.Catalog) error {
	const operation = "storage.CatalogStore.Save"

	if err := catalog.Validate(); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", operation, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM price_options`,
		`DELETE FROM discount_tiers`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: clear: %w", operation, err)
		}
	}

	for _, row := range catalogRows(catalog) {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO price_options (dimension, id, label_fa, label_en, value, width_cm, height_cm, sort_order)
			VALUES (:dimension, :id, :label_fa, :label_en, :value, :width_cm, :height_cm, :sort_order)`, row); err != nil {
			return fmt.Errorf("%s: option %s/%s: %w", operation, row.Dimension, row.ID, err)
		}
	}
	for _, t := range catalog.DiscountTiers {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO discount_tiers (min_quantity, rate) VALUES ($1, $2)`, t.MinQuantity, t.Rate); err != nil {
			return fmt.Errorf("%s: tier %d: %w", operation, t.MinQuantity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", operation, err)
	}
	return s.Invalidate(ctx)
}

func (s *CatalogStore) configured(c pricing.Catalog) pricing.Catalog {
	c.Currency = s.defaults.Currency
	c.CustomAreaRate = s.defaults.CustomAreaRate
	return c
}

// Invalidate drops the cached catalog so the next load reads Postgres.
func (s *CatalogStore) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, catalogCacheKey); err != nil {
		return fmt.Errorf("storage.CatalogStore.Invalidate: %w", err)
	}
	return nil
}

func catalogRows(c pricing.Catalog) []priceOptionRow {
	rows := make([]priceOptionRow, 0, 32)
	for i, p := range c.PaperSizes {
		rows = append(rows, priceOptionRow{
			Dimension: string(pricing.DimensionPaper),
			ID:        p.ID,
			LabelFa:   p.LabelFa,
			LabelEn:   p.LabelEn,
			Value:     p.BasePrice,
			WidthCM:   decimal.NewNullDecimal(p.WidthCM),
			HeightCM:  decimal.NewNullDecimal(p.HeightCM),
			SortOrder: i,
		})
	}
	for _, d := range pricing.OptionDimensions {
		for i, o := range c.Options(d) {
			rows = append(rows, priceOptionRow{
				Dimension: string(d),
				ID:        o.ID,
				LabelFa:   o.LabelFa,
				LabelEn:   o.LabelEn,
				Value:     o.Value,
				SortOrder: i,
			})
		}
	}
	return rows
}

// assembleCatalog builds a catalog from stored rows, taking currency and the
// custom area rate from defaults. The result is validated.
func assembleCatalog(options []priceOptionRow, tiers []pricing.Tier, defaults pricing.Catalog) (pricing.Catalog, error) {
	catalog := pricing.Catalog{
		Currency:       defaults.Currency,
		CustomAreaRate: defaults.CustomAreaRate,
		DiscountTiers:  tiers,
	}

	grouped := make(map[pricing.Dimension][]pricing.Option)
	for _, row := range options {
		d := pricing.Dimension(row.Dimension)
		if d == pricing.DimensionPaper {
			if !row.WidthCM.Valid || !row.HeightCM.Valid {
				return pricing.Catalog{}, fmt.Errorf("paper size %s: missing dimensions", row.ID)
			}
			catalog.PaperSizes = append(catalog.PaperSizes, pricing.PaperSize{
				ID:        row.ID,
				LabelFa:   row.LabelFa,
				LabelEn:   row.LabelEn,
				WidthCM:   row.WidthCM.Decimal,
				HeightCM:  row.HeightCM.Decimal,
				BasePrice: row.Value,
			})
			continue
		}
		grouped[d] = append(grouped[d], pricing.Option{
			ID:      row.ID,
			LabelFa: row.LabelFa,
			LabelEn: row.LabelEn,
			Value:   row.Value,
		})
	}
	for _, d := range pricing.OptionDimensions {
		catalog.SetOptions(d, grouped[d])
	}

	if err := catalog.Validate(); err != nil {
		return pricing.Catalog{}, err
	}
	return catalog, nil
}

// Catalogs returns a catalog store on this connection. cache may be nil.
func (s *PostgresStorage) Catalogs(cache *redis.Client, defaults pricing.Catalog) *CatalogStore {
	return NewCatalogStore(s.db, cache, defaults, s.logger)
}
