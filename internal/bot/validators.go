package bot

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxDimensionCM = 500
	maxQuantity    = 1_000_000
)

var (
	errBadDimensions = errors.New("dimensions must be two positive numbers")
	errBadQuantity   = errors.New("quantity out of range")
)

// foldDigits turns Persian and Arabic-Indic digits and the Persian decimal
// separator into their ASCII forms.
func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r == '٫':
			return '.'
		}
		return r
	}, s)
}

var dimensionSeparators = strings.NewReplacer(
	"×", " ", "*", " ", "x", " ", "X", " ", "در", " ", ",", " ", "،", " ",
)

// parseDimensions reads "21x29.7", "۲۱ در ۲۹٫۷" and similar into centimetres.
func parseDimensions(text string) (width, height decimal.Decimal, err error) {
	fields := strings.Fields(dimensionSeparators.Replace(foldDigits(text)))
	if len(fields) != 2 {
		return decimal.Zero, decimal.Zero, errBadDimensions
	}
	limit := decimal.NewFromInt(maxDimensionCM)
	values := make([]decimal.Decimal, 2)
	for i, f := range fields {
		v, err := decimal.NewFromString(f)
		if err != nil || !v.IsPositive() || v.GreaterThan(limit) {
			return decimal.Zero, decimal.Zero, errBadDimensions
		}
		values[i] = v
	}
	return values[0], values[1], nil
}

var groupSeparators = strings.NewReplacer(",", "", "٬", "", "،", "", " ", "", "_", "")

func parseQuantity(text string) (int, error) {
	n, err := strconv.Atoi(groupSeparators.Replace(foldDigits(strings.TrimSpace(text))))
	if err != nil || n < 1 || n > maxQuantity {
		return 0, errBadQuantity
	}
	return n, nil
}
