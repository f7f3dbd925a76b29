// Package cmd holds the chapkhane command line.
package cmd

import (
	"fmt"

	"chapkhane/internal/config"
	"chapkhane/internal/pricing"
	"chapkhane/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logLevel  string
	logFormat string

	cfg       *config.Config
	appLogger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chapkhane",
	Short: "Print shop pricing, ordering and admin tools",
	Long: `chapkhane prices print jobs, takes orders over HTTP and Telegram and
exports them as Excel workbooks.

Examples:
  chapkhane serve
  chapkhane serve --memory
  chapkhane quote --paper a4 --quantity 500 --add-on rounded_corners
  chapkhane migrate up
  chapkhane export --status new`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLogger != nil {
			_ = appLogger.Sync()
		}
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "override LOG_FORMAT (json or console)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}

	l, err := logger.New(c.LogLevel, c.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	cfg, appLogger = c, l
	return nil
}

// defaultCatalog is the built-in catalog with the configured currency and
// custom-size rate.
func defaultCatalog() pricing.Catalog {
	c := pricing.DefaultCatalog()
	c.Currency = cfg.Pricing.Currency
	c.CustomAreaRate = cfg.Pricing.CustomAreaRate
	return c
}
