package shop

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// SaveOffering creates the offering when its ID is zero and updates it otherwise.
func (s *Service) SaveOffering(ctx context.Context, o *Offering) error {
	const operation = "shop.Service.SaveOffering"

	o.Slug = strings.ToLower(strings.TrimSpace(o.Slug))
	o.TitleFa = strings.TrimSpace(o.TitleFa)
	o.TitleEn = strings.TrimSpace(o.TitleEn)
	switch {
	case !slugPattern.MatchString(o.Slug):
		return invalidInput("slug", "must be lowercase words joined by hyphens")
	case o.TitleFa == "":
		return invalidInput("title_fa", "is required")
	case o.StartingPrice.IsNegative():
		return invalidInput("starting_price", "must not be negative")
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
		o.CreatedAt = s.now()
	} else {
		existing, err := s.offerings.FindByID(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}
		o.CreatedAt = existing.CreatedAt
	}

	if err := s.offerings.Save(ctx, o); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	s.logger.Info("Offering saved",
		zap.String("offering_id", o.ID.String()),
		zap.String("slug", o.Slug))
	return nil
}

func (s *Service) GetOffering(ctx context.Context, id uuid.UUID) (*Offering, error) {
	o, err := s.offerings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.GetOffering: %w", err)
	}
	return o, nil
}

func (s *Service) ListOfferings(ctx context.Context, activeOnly bool) ([]Offering, error) {
	list, err := s.offerings.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.ListOfferings: %w", err)
	}
	return list, nil
}

func (s *Service) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	if err := s.offerings.Delete(ctx, id); err != nil {
		return fmt.Errorf("shop.Service.DeleteOffering: %w", err)
	}
	return nil
}

// SeedOfferings stores DefaultOfferings when the repository is empty.
func (s *Service) SeedOfferings(ctx context.Context) error {
	const operation = "shop.Service.SeedOfferings"

	existing, err := s.offerings.List(ctx, false)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, o := range DefaultOfferings() {
		o := o
		if err := s.SaveOffering(ctx, &o); err != nil {
			return fmt.Errorf("%s: %s: %w", operation, o.Slug, err)
		}
	}
	return nil
}

func DefaultOfferings() []Offering {
	return []Offering{
		{
			Slug:          "business-cards",
			TitleFa:       "کارت ویزیت",
			TitleEn:       "Business cards",
			DescriptionFa: "چاپ کارت ویزیت با کاغذ گلاسه، مات و سلفون",
			DescriptionEn: "Glossy, matte and laminated business cards",
			StartingPrice: decimal.NewFromInt(150),
			Active:        true,
			SortOrder:     1,
		},
		{
			Slug:          "flyers",
			TitleFa:       "تراکت و بروشور",
			TitleEn:       "Flyers and brochures",
			DescriptionFa: "چاپ تراکت در قطع‌های A4 تا A6",
			DescriptionEn: "Flyers from A4 down to A6",
			StartingPrice: decimal.NewFromInt(400),
			Active:        true,
			SortOrder:     2,
		},
		{
			Slug:          "posters",
			TitleFa:       "پوستر",
			TitleEn:       "Posters",
			DescriptionFa: "پوستر در قطع A3 و ابعاد دلخواه",
			DescriptionEn: "A3 and custom-size posters",
			StartingPrice: decimal.NewFromInt(2000),
			Active:        true,
			SortOrder:     3,
		},
		{
			Slug:          "packaging",
			TitleFa:       "بسته‌بندی و جعبه",
			TitleEn:       "Packaging",
			DescriptionFa: "جعبه و بسته‌بندی با طلاکوب، برجسته و دایکات",
			DescriptionEn: "Boxes with foil stamping, embossing and die cutting",
			StartingPrice: decimal.NewFromInt(5000),
			Active:        true,
			SortOrder:     4,
		},
	}
}
