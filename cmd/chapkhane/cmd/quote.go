package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"chapkhane/internal/pricing"
	"chapkhane/pkg/api"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	quoteSpec   pricing.OrderSpec
	quoteSides  string
	quoteWidth  string
	quoteHeight string
	quoteRemote string
	quoteToken  string
	quoteJSON   bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an order specification",
	Long: `Price an order with the built-in catalog, or against a running API
with --remote.

Examples:
  chapkhane quote --paper a5 --quantity 1000
  chapkhane quote --paper custom --width 30 --height 40 --lamination matte
  chapkhane quote --remote http://localhost:8080 --quantity 250 --json`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringVar(&quoteSpec.PaperSize, "paper", "a4", "paper size id, or custom")
	f.StringVar(&quoteWidth, "width", "", "custom width in cm")
	f.StringVar(&quoteHeight, "height", "", "custom height in cm")
	f.StringVar(&quoteSpec.Material, "material", "glossy", "material id")
	f.StringVar(&quoteSpec.Weight, "weight", "120g", "paper weight id")
	f.StringVar(&quoteSpec.ColorMode, "color", "cmyk", "color mode id")
	f.StringVar(&quoteSides, "sides", string(pricing.SidesSingle), "single or double")
	f.StringVar(&quoteSpec.Lamination, "lamination", "none", "lamination id")
	f.StringSliceVar(&quoteSpec.AddOns, "add-on", nil, "add-on id (repeatable)")
	f.IntVarP(&quoteSpec.Quantity, "quantity", "q", 100, "number of copies")
	f.StringVar(&quoteRemote, "remote", "", "price against the API at this base URL")
	f.StringVar(&quoteToken, "token", "", "bearer token for --remote")
	f.BoolVar(&quoteJSON, "json", false, "print the quote as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	spec := quoteSpec
	spec.Sides = pricing.Sides(quoteSides)
	var err error
	if spec.CustomWidth, err = decimalFlag("width", quoteWidth); err != nil {
		return err
	}
	if spec.CustomHeight, err = decimalFlag("height", quoteHeight); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var q pricing.Quote
	if quoteRemote != "" {
		remote, err := api.NewClient(quoteRemote, quoteToken, appLogger).Quote(ctx, spec)
		if err != nil {
			return err
		}
		q = *remote
	} else {
		engine, err := pricing.NewEngine(defaultCatalog())
		if err != nil {
			return err
		}
		if q, err = engine.Compute(spec); err != nil {
			return err
		}
	}

	if quoteJSON {
		return printJSON(cmd, q)
	}
	printQuote(cmd.OutOrStdout(), q)
	return nil
}

func decimalFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}

func printQuote(w io.Writer, q pricing.Quote) {
	fmt.Fprintf(w, "Quantity:     %d\n", q.Quantity)
	fmt.Fprintf(w, "Area:         %s dm²\n", q.Area)
	fmt.Fprintf(w, "Base price:   %s %s\n", q.BasePrice, q.Currency)
	fmt.Fprintf(w, "Unit price:   %s %s\n", q.UnitPrice, q.Currency)
	fmt.Fprintf(w, "Raw total:    %s %s\n", q.RawTotal, q.Currency)
	fmt.Fprintf(w, "Discount:     %s%% (%s %s)\n", q.DiscountRate.Shift(2), q.DiscountAmount, q.Currency)
	fmt.Fprintf(w, "Final total:  %s %s\n", q.FinalTotal, q.Currency)
}
