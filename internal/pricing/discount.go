package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DiscountTable is a volume discount step function. Tiers are kept sorted by
// descending threshold and the first tier the quantity reaches wins.
type DiscountTable struct {
	tiers []Tier
}

// NewDiscountTable sorts and checks tiers. Rates must lie in [0, 1) and must
// not shrink as the threshold grows, otherwise a larger run could cost more
// per unit than a smaller one.
func NewDiscountTable(tiers []Tier) (DiscountTable, error) {
	sorted := append([]Tier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity > sorted[j].MinQuantity
	})

	one := decimal.NewFromInt(1)
	for i, t := range sorted {
		if t.MinQuantity < 1 {
			return DiscountTable{}, fmt.Errorf("discount tier threshold must be at least 1, got %d", t.MinQuantity)
		}
		if t.Rate.IsNegative() || t.Rate.GreaterThanOrEqual(one) {
			return DiscountTable{}, fmt.Errorf("discount rate %s for %d+ is outside [0, 1)", t.Rate, t.MinQuantity)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MinQuantity == t.MinQuantity {
			return DiscountTable{}, fmt.Errorf("duplicate discount tier threshold %d", t.MinQuantity)
		}
		if prev.Rate.LessThan(t.Rate) {
			return DiscountTable{}, fmt.Errorf("discount for %d+ (%s) is lower than for %d+ (%s)",
				prev.MinQuantity, prev.Rate, t.MinQuantity, t.Rate)
		}
	}
	return DiscountTable{tiers: sorted}, nil
}

// Rate returns the discount of the largest threshold not exceeding quantity,
// or zero below every threshold.
func (t DiscountTable) Rate(quantity int) decimal.Decimal {
	for _, tier := range t.tiers {
		if quantity >= tier.MinQuantity {
			return tier.Rate
		}
	}
	return decimal.Zero
}

// Tiers returns the table in scan order.
func (t DiscountTable) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}
