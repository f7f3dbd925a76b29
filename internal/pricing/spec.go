package pricing

import "github.com/shopspring/decimal"

// CustomSize selects area-based pricing from CustomWidth and CustomHeight.
const CustomSize = "custom"

// Sides is the number of printed faces.
type Sides string

const (
	SidesSingle Sides = "single"
	SidesDouble Sides = "double"
)

// OrderSpec describes one print job. Enumerated fields hold catalog ids.
type OrderSpec struct {
	PaperSize    string           `json:"paper_size"`
	CustomWidth  *decimal.Decimal `json:"custom_width,omitempty"`
	CustomHeight *decimal.Decimal `json:"custom_height,omitempty"`
	Material     string           `json:"material"`
	Weight       string           `json:"weight"`
	ColorMode    string           `json:"color_mode"`
	Sides        Sides            `json:"sides"`
	Lamination   string           `json:"lamination"`
	AddOns       []string         `json:"add_ons,omitempty"`
	Quantity     int              `json:"quantity"`
}

// Quote is the price breakdown for an OrderSpec. Money is in catalog
// currency units, unrounded.
type Quote struct {
	Currency       string          `json:"currency"`
	Quantity       int             `json:"quantity"`
	Area           decimal.Decimal `json:"area"`
	BasePrice      decimal.Decimal `json:"base_price"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	RawTotal       decimal.Decimal `json:"raw_total"`
	DiscountRate   decimal.Decimal `json:"discount_rate"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalTotal     decimal.Decimal `json:"final_total"`
}

// EffectiveUnitPrice is the final total spread over the run.
func (q Quote) EffectiveUnitPrice() decimal.Decimal {
	if q.Quantity == 0 {
		return decimal.Zero
	}
	return q.FinalTotal.Div(decimal.NewFromInt(int64(q.Quantity)))
}
