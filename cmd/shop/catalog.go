package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/stride-storefront/internal/apiclient"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var q apiclient.ProductQuery
	var inStock, featured bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List products matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("in-stock") {
				q.InStock = &inStock
			}
			if cmd.Flags().Changed("featured") {
				q.Featured = &featured
			}
			page, err := a.client.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBRAND\tNAME\tPRICE\tSTOCK\tSIZES")
			for _, p := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Brand, p.Name, p.Price, p.Stock, joinSizes(p.Sizes))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "page %d of %d (%d products)\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	f := list.Flags()
	f.StringVarP(&q.Search, "search", "s", "", "free-text search over name and brand")
	f.StringVar(&q.Brand, "brand", "", "filter by brand")
	f.StringVar(&q.Category, "category", "", "filter by category id or slug")
	f.StringVar(&q.Type, "type", "", "shoes, clothing or accessories")
	f.StringVar(&q.Size, "size", "", "only products offering this size")
	f.StringVar(&q.MinPrice, "min-price", "", "minimum price")
	f.StringVar(&q.MaxPrice, "max-price", "", "maximum price")
	f.BoolVar(&inStock, "in-stock", false, "only products with stock")
	f.BoolVar(&featured, "featured", false, "only featured products")
	f.StringVar(&q.Sort, "sort", "", "name, price, created_at or stock")
	f.BoolVar(&q.Desc, "desc", false, "sort descending")
	f.IntVar(&q.Page, "page", 1, "page number")
	f.IntVar(&q.Limit, "limit", 20, "page size")

	show := &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}
			p, err := a.client.GetProduct(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", p.Brand, p.Name)
			price := p.Price.String()
			if p.OriginalPrice != nil && p.Price.LessThan(*p.OriginalPrice) {
				price += fmt.Sprintf(" (was %s)", p.OriginalPrice)
			}
			fmt.Fprintf(a.out, "  price:    %s\n", price)
			fmt.Fprintf(a.out, "  type:     %s\n", p.Type)
			if p.Category != "" {
				fmt.Fprintf(a.out, "  category: %s\n", p.Category)
			}
			fmt.Fprintf(a.out, "  sizes:    %s\n", joinSizes(p.Sizes))
			fmt.Fprintf(a.out, "  stock:    %d\n", p.Stock)
			if p.Description != "" {
				fmt.Fprintf(a.out, "\n%s\n", p.Description)
			}
			return nil
		},
	}

	brands := &cobra.Command{
		Use:   "brands",
		Short: "List the brands in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.client.Brands(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}

	cmd.AddCommand(list, show, brands)
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tPRODUCTS")
			for _, c := range cats {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.Slug, c.Name, c.ProductCount)
			}
			return tw.Flush()
		},
	}
}

func joinSizes(sizes types.Sizes) string {
	if len(sizes) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
