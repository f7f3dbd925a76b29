package pricing

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Engine prices order specifications against a frozen catalog. It holds no
// mutable state, so one Engine may serve any number of goroutines.
type Engine struct {
	catalog   Catalog
	papers    map[string]PaperSize
	options   map[Dimension]map[string]decimal.Decimal
	discounts DiscountTable
}

// NewEngine validates catalog and returns an engine over a private copy of it.
func NewEngine(catalog Catalog) (*Engine, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	catalog = catalog.Clone()

	discounts, err := NewDiscountTable(catalog.DiscountTiers)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		catalog:   catalog,
		papers:    make(map[string]PaperSize, len(catalog.PaperSizes)),
		options:   make(map[Dimension]map[string]decimal.Decimal, len(OptionDimensions)),
		discounts: discounts,
	}
	for _, p := range catalog.PaperSizes {
		e.papers[p.ID] = p
	}
	for _, d := range OptionDimensions {
		values := make(map[string]decimal.Decimal)
		for _, o := range catalog.Options(d) {
			values[o.ID] = o.Value
		}
		e.options[d] = values
	}
	return e, nil
}

// Catalog returns a copy of the tables the engine prices against.
func (e *Engine) Catalog() Catalog {
	return e.catalog.Clone()
}

// Discount returns the volume discount rate for a quantity.
func (e *Engine) Discount(quantity int) decimal.Decimal {
	return e.discounts.Rate(quantity)
}

// Compute returns the price breakdown for spec. Errors match
// ErrInvalidSpecification or ErrIncompleteDimensions.
func (e *Engine) Compute(spec OrderSpec) (Quote, error) {
	if spec.Quantity < 1 {
		return Quote{}, invalid("quantity", strconv.Itoa(spec.Quantity), "must be at least 1")
	}

	material, err := e.lookup(DimensionMaterial, spec.Material)
	if err != nil {
		return Quote{}, err
	}
	weight, err := e.lookup(DimensionWeight, spec.Weight)
	if err != nil {
		return Quote{}, err
	}
	color, err := e.lookup(DimensionColorMode, spec.ColorMode)
	if err != nil {
		return Quote{}, err
	}
	sides, err := e.lookup(DimensionSides, string(spec.Sides))
	if err != nil {
		return Quote{}, err
	}
	lamination, err := e.lookup(DimensionLamination, spec.Lamination)
	if err != nil {
		return Quote{}, err
	}
	addOns, err := e.addOnTotal(spec.AddOns)
	if err != nil {
		return Quote{}, err
	}

	base, area, err := e.resolvePaper(spec)
	if err != nil {
		return Quote{}, err
	}

	unit := base.Mul(material).Mul(weight).Mul(color).Mul(sides)
	unit = unit.Add(lamination)
	unit = unit.Add(addOns)

	raw := unit.Mul(decimal.NewFromInt(int64(spec.Quantity)))
	rate := e.discounts.Rate(spec.Quantity)
	discount := raw.Mul(rate)

	return Quote{
		Currency:       e.catalog.Currency,
		Quantity:       spec.Quantity,
		Area:           area,
		BasePrice:      base,
		UnitPrice:      unit,
		RawTotal:       raw,
		DiscountRate:   rate,
		DiscountAmount: discount,
		FinalTotal:     raw.Sub(discount),
	}, nil
}

func (e *Engine) lookup(d Dimension, id string) (decimal.Decimal, error) {
	v, ok := e.options[d][id]
	if !ok {
		return decimal.Zero, invalid(string(d), id, "unknown option")
	}
	return v, nil
}

// addOnTotal sums flat prices of distinct add-ons; a repeated id is counted
// once.
func (e *Engine) addOnTotal(ids []string) (decimal.Decimal, error) {
	total := decimal.Zero
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		price, err := e.lookup(DimensionAddOn, id)
		if err != nil {
			return decimal.Zero, err
		}
		seen[id] = true
		total = total.Add(price)
	}
	return total, nil
}

func (e *Engine) resolvePaper(spec OrderSpec) (base, area decimal.Decimal, err error) {
	if spec.PaperSize == CustomSize {
		w, h := spec.CustomWidth, spec.CustomHeight
		if w == nil || h == nil || !w.IsPositive() || !h.IsPositive() {
			return decimal.Zero, decimal.Zero, ErrIncompleteDimensions
		}
		area = w.Mul(*h).Div(hundred)
		return area.Mul(e.catalog.CustomAreaRate), area, nil
	}

	p, ok := e.papers[spec.PaperSize]
	if !ok {
		return decimal.Zero, decimal.Zero, invalid(string(DimensionPaper), spec.PaperSize, "unknown paper size")
	}
	return p.BasePrice, p.WidthCM.Mul(p.HeightCM).Div(hundred), nil
}

// MustNewEngine is NewEngine for catalogs known to be valid.
func MustNewEngine(catalog Catalog) *Engine {
	e, err := NewEngine(catalog)
	if err != nil {
		panic(fmt.Sprintf("pricing: %v", err))
	}
	return e
}
