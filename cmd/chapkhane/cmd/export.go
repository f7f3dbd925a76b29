package cmd

import (
	"fmt"
	"os"
	"time"

	"chapkhane/internal/shop"
	"chapkhane/internal/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportStatus string
	exportLimit  int
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export orders to an Excel workbook",
	Long: `Write the orders workbook. Without --out it goes to the report store:
an S3 bucket when REPORTS_S3_BUCKET is set, REPORTS_DIR otherwise.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "only orders with this status")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "at most this many orders, newest first")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write the workbook to this file")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	filter := shop.OrderFilter{Status: shop.OrderStatus(exportStatus), Limit: exportLimit}
	if filter.Status != "" && !filter.Status.Valid() {
		return fmt.Errorf("unknown status %q", exportStatus)
	}

	pg, err := storage.NewPostgresStorage(ctx, cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer pg.Close()

	orders, err := pg.Orders().List(ctx, filter)
	if err != nil {
		return err
	}
	data, err := storage.OrdersWorkbook(orders)
	if err != nil {
		return err
	}

	location := exportOut
	if exportOut != "" {
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	} else {
		sink, err := storage.NewReportSink(ctx, cfg.Reports)
		if err != nil {
			return err
		}
		if location, err = sink.Put(ctx, storage.OrdersReportName(time.Now()), data); err != nil {
			return err
		}
	}

	appLogger.Info("Orders exported",
		zap.Int("orders", len(orders)),
		zap.String("location", location))
	fmt.Fprintln(cmd.OutOrStdout(), location)
	return nil
}
