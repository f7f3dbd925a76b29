package cmd

import (
	"encoding/json"

	"chapkhane/internal/storage"

	"github.com/spf13/cobra"
)

var catalogFromDB bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the price catalog as JSON",
	Long: `Print the built-in price catalog, or with --db the one stored in
Postgres. An empty database is seeded with the built-in catalog first.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogFromDB, "db", false, "load the catalog from Postgres")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	catalog := defaultCatalog()
	if catalogFromDB {
		pg, err := storage.NewPostgresStorage(ctx, cfg.Database, appLogger)
		if err != nil {
			return err
		}
		defer pg.Close()

		if catalog, err = pg.Catalogs(nil, catalog).LoadCatalog(ctx); err != nil {
			return err
		}
	}
	return printJSON(cmd, catalog)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
