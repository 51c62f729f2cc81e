package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/recordstore"
	"storefront/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	raw     bool
	filter  string
	max     int
	verbose bool

	cfg    *config.Config
	client *recordstore.Client
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Inspect catalog records in the record store",
		Long: `Query the catalog tables the storefront reads from and print the
results, either normalized the way the API serves them or as raw records.

Credentials come from .env or the environment (RECORDSTORE_API_KEY,
RECORDSTORE_BASE_ID).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine, the environment may already be set
			_ = godotenv.Load()

			opts.cfg = config.Load()
			if opts.cfg.RecordStore.APIKey == "" || opts.cfg.RecordStore.BaseID == "" {
				return fmt.Errorf("RECORDSTORE_API_KEY and RECORDSTORE_BASE_ID must be set")
			}

			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			log, err := logger.New("development", level)
			if err != nil {
				return err
			}
			opts.logger = log
			opts.client = recordstore.NewClient(opts.cfg.RecordStore, log)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&opts.raw, "raw", false, "print records as returned by the record store")
	flags.StringVar(&opts.filter, "filter", "", "filterByFormula expression")
	flags.IntVar(&opts.max, "max", recordstore.DefaultMaxRecords, "maximum number of records")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log record store requests")

	root.AddCommand(
		newProductsCmd(opts),
		newBrandsCmd(opts),
		newCategoriesCmd(opts),
		newRecordCmd(opts),
	)
	return root
}

func (o *options) catalog() repository.CatalogRepository {
	return repository.NewCatalogRepository(o.client, o.cfg.RecordStore)
}

func (o *options) listOptions() repository.ListOptions {
	return repository.ListOptions{Filter: o.filter, MaxRecords: o.max}
}

// printRaw lists table without normalization
func (o *options) printRaw(cmd *cobra.Command, table string) error {
	records, err := o.client.List(cmd.Context(), table, recordstore.ListParams{
		Filter:     o.filter,
		MaxRecords: o.max,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), records)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
