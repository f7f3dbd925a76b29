package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dimension names one choice axis of a print order.
type Dimension string

const (
	DimensionPaper      Dimension = "paper_size"
	DimensionMaterial   Dimension = "material"
	DimensionWeight     Dimension = "weight"
	DimensionColorMode  Dimension = "color_mode"
	DimensionSides      Dimension = "sides"
	DimensionLamination Dimension = "lamination"
	DimensionAddOn      Dimension = "add_on"
)

// OptionDimensions lists the dimensions backed by plain options, in the order
// a customer is asked about them.
var OptionDimensions = []Dimension{
	DimensionMaterial,
	DimensionWeight,
	DimensionColorMode,
	DimensionSides,
	DimensionLamination,
	DimensionAddOn,
}

// Flat reports whether options of the dimension carry an additive per-unit
// price rather than a multiplicative factor.
func (d Dimension) Flat() bool {
	return d == DimensionLamination || d == DimensionAddOn
}

// Option is one catalog entry. Value is a factor or a flat price depending on
// the dimension it belongs to.
type Option struct {
	ID      string          `json:"id"`
	LabelFa string          `json:"label_fa"`
	LabelEn string          `json:"label_en"`
	Value   decimal.Decimal `json:"value"`
}

type PaperSize struct {
	ID        string          `json:"id"`
	LabelFa   string          `json:"label_fa"`
	LabelEn   string          `json:"label_en"`
	WidthCM   decimal.Decimal `json:"width_cm"`
	HeightCM  decimal.Decimal `json:"height_cm"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// Tier grants Rate to every quantity at or above MinQuantity.
type Tier struct {
	MinQuantity int             `json:"min_quantity" db:"min_quantity"`
	Rate        decimal.Decimal `json:"rate" db:"rate"`
}

// Catalog is the static configuration the engine prices against.
type Catalog struct {
	Currency       string          `json:"currency"`
	CustomAreaRate decimal.Decimal `json:"custom_area_rate"`
	PaperSizes     []PaperSize     `json:"paper_sizes"`
	Materials      []Option        `json:"materials"`
	Weights        []Option        `json:"weights"`
	ColorModes     []Option        `json:"color_modes"`
	Sides          []Option        `json:"sides"`
	Laminations    []Option        `json:"laminations"`
	AddOns         []Option        `json:"add_ons"`
	DiscountTiers  []Tier          `json:"discount_tiers"`
}

// DefaultCustomAreaRate is the price per square decimetre of a custom size.
const DefaultCustomAreaRate = 10000

func opt(id, fa, en, value string) Option {
	return Option{ID: id, LabelFa: fa, LabelEn: en, Value: decimal.RequireFromString(value)}
}

func paper(id, fa, en, w, h, base string) PaperSize {
	return PaperSize{
		ID:        id,
		LabelFa:   fa,
		LabelEn:   en,
		WidthCM:   decimal.RequireFromString(w),
		HeightCM:  decimal.RequireFromString(h),
		BasePrice: decimal.RequireFromString(base),
	}
}

func tier(min int, rate string) Tier {
	return Tier{MinQuantity: min, Rate: decimal.RequireFromString(rate)}
}

// DefaultCatalog returns the shop's built-in price tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Currency:       "IRT",
		CustomAreaRate: decimal.NewFromInt(DefaultCustomAreaRate),
		PaperSizes: []PaperSize{
			paper("a3", "آ۳", "A3", "29.7", "42", "2000"),
			paper("a4", "آ۴", "A4", "21", "29.7", "1200"),
			paper("a5", "آ۵", "A5", "14.8", "21", "700"),
			paper("a6", "آ۶", "A6", "10.5", "14.8", "400"),
			paper("business_card", "کارت ویزیت", "Business card", "9", "5", "150"),
		},
		Materials: []Option{
			opt("glossy", "گلاسه", "Glossy", "1.0"),
			opt("matte", "مات", "Matte", "1.1"),
			opt("kraft", "کرافت", "Kraft", "0.9"),
			opt("textured", "بافت‌دار", "Textured", "1.3"),
		},
		Weights: []Option{
			opt("80g", "۸۰ گرم", "80 gsm", "0.8"),
			opt("120g", "۱۲۰ گرم", "120 gsm", "1.0"),
			opt("170g", "۱۷۰ گرم", "170 gsm", "1.15"),
			opt("250g", "۲۵۰ گرم", "250 gsm", "1.35"),
			opt("300g", "۳۰۰ گرم", "300 gsm", "1.5"),
			opt("350g", "۳۵۰ گرم", "350 gsm", "1.7"),
		},
		ColorModes: []Option{
			opt("mono", "تک‌رنگ", "Monochrome", "0.5"),
			opt("single_spot", "یک رنگ اسپات", "Single spot color", "0.7"),
			opt("two_color", "دو رنگ", "Two color", "0.85"),
			opt("cmyk", "چهار رنگ (CMYK)", "Full color (CMYK)", "1.0"),
			opt("cmyk_spot", "CMYK + اسپات", "CMYK + spot", "1.25"),
		},
		Sides: []Option{
			opt(string(SidesSingle), "یک‌رو", "Single sided", "1.0"),
			opt(string(SidesDouble), "دو‌رو", "Double sided", "1.7"),
		},
		Laminations: []Option{
			opt("none", "بدون سلفون", "None", "0"),
			opt("glossy", "سلفون براق", "Glossy", "500"),
			opt("matte", "سلفون مات", "Matte", "500"),
			opt("soft_touch", "سلفون مخملی", "Soft touch", "900"),
		},
		AddOns: []Option{
			opt("foil_stamping", "طلاکوب", "Foil stamping", "1500"),
			opt("embossing", "برجسته‌کاری", "Embossing", "1200"),
			opt("die_cutting", "دایکات", "Die cutting", "800"),
			opt("rounded_corners", "گردکردن گوشه", "Rounded corners", "300"),
		},
		DiscountTiers: []Tier{
			tier(10000, "0.30"),
			tier(5000, "0.25"),
			tier(2000, "0.20"),
			tier(1000, "0.15"),
			tier(500, "0.10"),
			tier(100, "0.05"),
			tier(1, "0"),
		},
	}
}

// Options returns the option list of a plain dimension.
func (c Catalog) Options(d Dimension) []Option {
	switch d {
	case DimensionMaterial:
		return c.Materials
	case DimensionWeight:
		return c.Weights
	case DimensionColorMode:
		return c.ColorModes
	case DimensionSides:
		return c.Sides
	case DimensionLamination:
		return c.Laminations
	case DimensionAddOn:
		return c.AddOns
	}
	return nil
}

// SetOptions replaces the option list of a plain dimension.
func (c *Catalog) SetOptions(d Dimension, opts []Option) {
	switch d {
	case DimensionMaterial:
		c.Materials = opts
	case DimensionWeight:
		c.Weights = opts
	case DimensionColorMode:
		c.ColorModes = opts
	case DimensionSides:
		c.Sides = opts
	case DimensionLamination:
		c.Laminations = opts
	case DimensionAddOn:
		c.AddOns = opts
	}
}

// Paper looks up a predefined paper size.
func (c Catalog) Paper(id string) (PaperSize, bool) {
	for _, p := range c.PaperSizes {
		if p.ID == id {
			return p, true
		}
	}
	return PaperSize{}, false
}

// Option looks up one option of a plain dimension.
func (c Catalog) Option(d Dimension, id string) (Option, bool) {
	for _, o := range c.Options(d) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Validate rejects tables the engine cannot price against.
func (c Catalog) Validate() error {
	const operation = "pricing.Catalog.Validate"

	if !c.CustomAreaRate.IsPositive() {
		return fmt.Errorf("%s: custom area rate must be positive, got %s", operation, c.CustomAreaRate)
	}

	seen := make(map[string]bool, len(c.PaperSizes))
	for _, p := range c.PaperSizes {
		switch {
		case p.ID == "":
			return fmt.Errorf("%s: paper size with empty id", operation)
		case p.ID == CustomSize:
			return fmt.Errorf("%s: paper size id %q is reserved", operation, CustomSize)
		case seen[p.ID]:
			return fmt.Errorf("%s: duplicate paper size %q", operation, p.ID)
		case !p.WidthCM.IsPositive() || !p.HeightCM.IsPositive():
			return fmt.Errorf("%s: paper size %q needs positive dimensions", operation, p.ID)
		case p.BasePrice.IsNegative():
			return fmt.Errorf("%s: paper size %q has negative base price", operation, p.ID)
		}
		seen[p.ID] = true
	}

	for _, d := range OptionDimensions {
		opts := c.Options(d)
		if len(opts) == 0 {
			return fmt.Errorf("%s: no %s options", operation, d)
		}
		ids := make(map[string]bool, len(opts))
		for _, o := range opts {
			switch {
			case o.ID == "":
				return fmt.Errorf("%s: %s option with empty id", operation, d)
			case ids[o.ID]:
				return fmt.Errorf("%s: duplicate %s option %q", operation, d, o.ID)
			case o.Value.IsNegative():
				return fmt.Errorf("%s: %s option %q has negative value", operation, d, o.ID)
			}
			ids[o.ID] = true
		}
	}

	for _, s := range []Sides{SidesSingle, SidesDouble} {
		if _, ok := c.Option(DimensionSides, string(s)); !ok {
			return fmt.Errorf("%s: sides option %q is missing", operation, s)
		}
	}

	if _, err := NewDiscountTable(c.DiscountTiers); err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

// Clone returns a deep copy, so a frozen engine never shares slices with the
// caller.
func (c Catalog) Clone() Catalog {
	out := c
	out.PaperSizes = append([]PaperSize(nil), c.PaperSizes...)
	out.Materials = append([]Option(nil), c.Materials...)
	out.Weights = append([]Option(nil), c.Weights...)
	out.ColorModes = append([]Option(nil), c.ColorModes...)
	out.Sides = append([]Option(nil), c.Sides...)
	out.Laminations = append([]Option(nil), c.Laminations...)
	out.AddOns = append([]Option(nil), c.AddOns...)
	out.DiscountTiers = append([]Tier(nil), c.DiscountTiers...)
	return out
}
