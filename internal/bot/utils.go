package bot

import (
	"fmt"
	"strings"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var faPrinter = message.NewPrinter(language.Persian)

var dimensionLabels = map[pricing.Dimension]string{
	pricing.DimensionPaper:      "قطع",
	pricing.DimensionMaterial:   "جنس کاغذ",
	pricing.DimensionWeight:     "گرماژ",
	pricing.DimensionColorMode:  "رنگ",
	pricing.DimensionSides:      "چاپ",
	pricing.DimensionLamination: "روکش",
	pricing.DimensionAddOn:      "خدمات تکمیلی",
}

var dimensionPrompts = map[pricing.Dimension]string{
	pricing.DimensionMaterial:   "🧾 جنس کاغذ را انتخاب کنید:",
	pricing.DimensionWeight:     "⚖️ گرماژ کاغذ را انتخاب کنید:",
	pricing.DimensionColorMode:  "🎨 نوع چاپ رنگی را انتخاب کنید:",
	pricing.DimensionSides:      "📑 چاپ یک‌رو یا دورو؟",
	pricing.DimensionLamination: "✨ روکش را انتخاب کنید:",
	pricing.DimensionAddOn:      textAddOnsPrompt,
}

var statusLabels = map[shop.OrderStatus]string{
	shop.StatusNew:        "🆕 جدید",
	shop.StatusProcessing: "🔄 در حال انجام",
	shop.StatusCompleted:  "✅ تکمیل شده",
	shop.StatusCancelled:  "❌ لغو شده",
}

func statusLabel(s shop.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// formatAmount renders d with Persian digits and grouping.
func formatAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return faPrinter.Sprintf("%d", d.IntPart())
	}
	return faPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

func formatPercent(rate decimal.Decimal) string {
	return faPrinter.Sprint(number.Percent(rate.InexactFloat64()))
}

func currencyLabel(code string) string {
	switch code {
	case "IRT":
		return "تومان"
	case "IRR":
		return "ریال"
	}
	return code
}

func formatPrice(d decimal.Decimal, currency string) string {
	return formatAmount(d) + " " + currencyLabel(currency)
}

func optionLabel(c pricing.Catalog, d pricing.Dimension, id string) string {
	if o, ok := c.Option(d, id); ok && o.LabelFa != "" {
		return o.LabelFa
	}
	return id
}

func paperLabel(c pricing.Catalog, spec pricing.OrderSpec) string {
	if spec.PaperSize == pricing.CustomSize {
		if spec.CustomWidth == nil || spec.CustomHeight == nil {
			return "دلخواه"
		}
		return fmt.Sprintf("%s×%s سانتی‌متر", formatAmount(*spec.CustomWidth), formatAmount(*spec.CustomHeight))
	}
	if p, ok := c.Paper(spec.PaperSize); ok && p.LabelFa != "" {
		return p.LabelFa
	}
	return spec.PaperSize
}

func specLines(c pricing.Catalog, spec pricing.OrderSpec) []string {
	addOns := "ندارد"
	if len(spec.AddOns) > 0 {
		labels := make([]string, len(spec.AddOns))
		for i, id := range spec.AddOns {
			labels[i] = optionLabel(c, pricing.DimensionAddOn, id)
		}
		addOns = strings.Join(labels, "، ")
	}
	return []string{
		dimensionLabels[pricing.DimensionPaper] + ": " + paperLabel(c, spec),
		dimensionLabels[pricing.DimensionMaterial] + ": " + optionLabel(c, pricing.DimensionMaterial, spec.Material),
		dimensionLabels[pricing.DimensionWeight] + ": " + optionLabel(c, pricing.DimensionWeight, spec.Weight),
		dimensionLabels[pricing.DimensionColorMode] + ": " + optionLabel(c, pricing.DimensionColorMode, spec.ColorMode),
		dimensionLabels[pricing.DimensionSides] + ": " + optionLabel(c, pricing.DimensionSides, string(spec.Sides)),
		dimensionLabels[pricing.DimensionLamination] + ": " + optionLabel(c, pricing.DimensionLamination, spec.Lamination),
		dimensionLabels[pricing.DimensionAddOn] + ": " + addOns,
		"تیراژ: " + formatAmount(decimal.NewFromInt(int64(spec.Quantity))),
	}
}

func priceLines(q pricing.Quote) []string {
	lines := []string{
		"قیمت واحد: " + formatPrice(q.UnitPrice, q.Currency),
		"جمع: " + formatPrice(q.RawTotal, q.Currency),
	}
	if q.DiscountRate.IsPositive() {
		lines = append(lines, fmt.Sprintf("تخفیف (%s): %s", formatPercent(q.DiscountRate), formatPrice(q.DiscountAmount, q.Currency)))
	}
	return append(lines, "💰 مبلغ نهایی: "+formatPrice(q.FinalTotal, q.Currency))
}

// FormatQuote is the pre-invoice shown before the customer confirms.
func FormatQuote(c pricing.Catalog, spec pricing.OrderSpec, q pricing.Quote) string {
	lines := append([]string{"🧾 پیش‌فاکتور", ""}, specLines(c, spec)...)
	lines = append(lines, "")
	lines = append(lines, priceLines(q)...)
	return strings.Join(lines, "\n")
}

// FormatOrderNotification is the order summary sent to admins.
func FormatOrderNotification(c pricing.Catalog, o shop.Order) string {
	lines := []string{
		fmt.Sprintf("📦 سفارش جدید #%s", o.ShortID()),
		"منبع: " + string(o.Source),
		"مشتری: " + o.Customer.Name,
		"تلفن: " + shop.FormatPhoneNumber(o.Customer.Phone),
		"",
	}
	lines = append(lines, specLines(c, o.Spec)...)
	lines = append(lines, "")
	lines = append(lines, priceLines(o.Quote)...)
	if o.Notes != "" {
		lines = append(lines, "", "توضیحات: "+o.Notes)
	}
	return strings.Join(lines, "\n")
}

func fullName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" && u.UserName != "" {
		name = "@" + u.UserName
	}
	return name
}
