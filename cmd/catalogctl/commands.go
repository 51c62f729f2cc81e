package main

import (
	"fmt"

	"storefront/internal/normalizer"
	"storefront/internal/recordstore"

	"github.com/spf13/cobra"
)

func newProductsCmd(opts *options) *cobra.Command {
	var sku string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sku != "" {
				opts.filter = recordstore.And(opts.filter, recordstore.FieldEquals(normalizer.FieldSKU, sku))
			}
			if opts.raw {
				return opts.printRaw(cmd, opts.cfg.RecordStore.ProductsTable)
			}

			products, err := opts.catalog().ListProducts(cmd.Context(), opts.listOptions())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSLUG\tSKU\tRETAIL\tWHOLESALE\tSTOCK\tACTIVE")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%d\t%t\n",
					p.ID, p.Slug, p.SKU, p.PriceRetail, p.PriceWholesale, p.Stock, p.Active)
			}
			fmt.Fprintf(tw, "\n%d products\n", len(products))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sku, "sku", "", "only the product with this SKU")
	return cmd
}

func newBrandsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.raw {
				return opts.printRaw(cmd, opts.cfg.RecordStore.BrandsTable)
			}

			brands, err := opts.catalog().ListBrands(cmd.Context(), opts.listOptions())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSLUG\tNAME")
			for _, b := range brands {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", b.ID, b.Slug, b.Name)
			}
			fmt.Fprintf(tw, "\n%d brands\n", len(brands))
			return tw.Flush()
		},
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.raw {
				return opts.printRaw(cmd, opts.cfg.RecordStore.CategoriesTable)
			}

			categories, err := opts.catalog().ListCategories(cmd.Context(), opts.listOptions())
			if err != nil {
				return err
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tSLUG\tNAME")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Slug, c.Name)
			}
			fmt.Fprintf(tw, "\n%d categories\n", len(categories))
			return tw.Flush()
		},
	}
}

func newRecordCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "record <table> <id>",
		Short: "Print one raw record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := opts.client.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}
