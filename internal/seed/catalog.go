// Package seed loads the demo catalog used by local development and the
// shop CLI walkthrough.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Result counts what a seeding run inserted.
type Result struct {
	Categories int
	Products   int
	Skipped    bool
}

type demoProduct struct {
	category string
	input    products.CreateProductInput
}

var demoCategories = []categories.CreateCategoryInput{
	{Name: "Running", Description: "Road and trail running shoes."},
	{Name: "Lifestyle", Description: "Everyday sneakers."},
	{Name: "Apparel", Description: "Tees, hoodies and track pants."},
	{Name: "Accessories", Description: "Socks, caps and bags."},
}

func shoeSizes(sizes ...float64) types.Sizes {
	out := make(types.Sizes, 0, len(sizes))
	for _, s := range sizes {
		out = append(out, types.NumericSize(s))
	}
	return out
}

func labelSizes(labels ...string) types.Sizes {
	out := make(types.Sizes, 0, len(labels))
	for _, l := range labels {
		out = append(out, types.LabelSize(l))
	}
	return out
}

func money(v string) *types.Money {
	m := types.MustMoney(v)
	return &m
}

var demoProducts = []demoProduct{
	{"running", products.CreateProductInput{
		Name: "Pegasus 41", Brand: "Nike", Description: "Responsive daily trainer.",
		Price: types.MustMoney("139.99"), Images: []string{"/img/pegasus-41.jpg"},
		Sizes: shoeSizes(40, 41, 42, 43, 44), Stock: 12, Type: enums.ProductTypeShoes, Featured: true,
	}},
	{"running", products.CreateProductInput{
		Name: "Ultraboost Light", Brand: "Adidas", Description: "Lightweight cushioning for long runs.",
		Price: types.MustMoney("159.99"), OriginalPrice: money("189.99"), Images: []string{"/img/ultraboost-light.jpg"},
		Sizes: shoeSizes(39, 40, 41, 42, 43), Stock: 6, Type: enums.ProductTypeShoes,
	}},
	{"running", products.CreateProductInput{
		Name: "Gel-Kayano 31", Brand: "Asics", Description: "Stability trainer.",
		Price: types.MustMoney("164.00"), Images: []string{"/img/gel-kayano-31.jpg"},
		Sizes: shoeSizes(40.5, 41.5, 42.5, 44), Stock: 3, Type: enums.ProductTypeShoes,
	}},
	{"lifestyle", products.CreateProductInput{
		Name: "Air Max 90", Brand: "Nike", Description: "The 1990 icon.",
		Price: types.MustMoney("129.99"), Images: []string{"/img/air-max-90.jpg", "/img/air-max-90-side.jpg"},
		Sizes: shoeSizes(38, 39, 40, 41, 42, 43, 44, 45), Stock: 20, Type: enums.ProductTypeShoes, Featured: true,
	}},
	{"lifestyle", products.CreateProductInput{
		Name: "Samba OG", Brand: "Adidas", Description: "Terrace classic with gum sole.",
		Price: types.MustMoney("99.99"), Images: []string{"/img/samba-og.jpg"},
		Sizes: shoeSizes(37, 38, 39, 40, 41, 42), Stock: 0, Type: enums.ProductTypeShoes,
	}},
	{"lifestyle", products.CreateProductInput{
		Name: "550", Brand: "New Balance", Description: "Retro basketball low.",
		Price: types.MustMoney("109.99"), OriginalPrice: money("119.99"), Images: []string{"/img/nb-550.jpg"},
		Sizes: shoeSizes(40, 41, 42, 43), Stock: 8, Type: enums.ProductTypeShoes,
	}},
	{"apparel", products.CreateProductInput{
		Name: "Essential Logo Tee", Brand: "Stride", Description: "Heavyweight cotton tee.",
		Price: types.MustMoney("25.00"), Images: []string{"/img/logo-tee.jpg"},
		Sizes: labelSizes("S", "M", "L", "XL"), Stock: 40, Type: enums.ProductTypeClothing, Featured: true,
	}},
	{"apparel", products.CreateProductInput{
		Name: "Tech Fleece Hoodie", Brand: "Nike", Description: "Full-zip fleece hoodie.",
		Price: types.MustMoney("119.99"), Images: []string{"/img/tech-fleece.jpg"},
		Sizes: labelSizes("S", "M", "L"), Stock: 4, Type: enums.ProductTypeClothing,
	}},
	{"accessories", products.CreateProductInput{
		Name: "Everyday Crew Socks 3-Pack", Brand: "Stride", Description: "Cushioned crew socks.",
		Price: types.MustMoney("14.99"), Images: []string{"/img/crew-socks.jpg"},
		Sizes: labelSizes("M", "L"), Stock: 60, Type: enums.ProductTypeAccessories,
	}},
	{"accessories", products.CreateProductInput{
		Name: "Club Cap", Brand: "Nike", Description: "Unstructured six-panel cap.",
		Price: types.MustMoney("24.99"), Images: []string{},
		Sizes: labelSizes("One Size"), Stock: 15, Type: enums.ProductTypeAccessories,
	}},
}

// Catalog inserts the demo categories and products unless the catalog already
// has products. Individual failures are collected and returned together.
func Catalog(ctx context.Context, cats categories.Service, prods products.Service, logg *logger.Logger) (Result, error) {
	if logg == nil {
		logg = logger.Nop()
	}
	existing, err := prods.List(ctx, products.ListFilters{Pagination: pagination.Params{Page: 1, Limit: 1}})
	if err != nil {
		return Result{}, fmt.Errorf("check existing catalog: %w", err)
	}
	if existing.Total > 0 {
		logg.Info(logg.WithField(ctx, "products", existing.Total), "seed.catalog_skipped")
		return Result{Skipped: true}, nil
	}

	var (
		res  Result
		errs error
	)
	categoryIDs := map[string]types.Category{}
	for _, input := range demoCategories {
		category, err := cats.Create(ctx, input)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category %s: %w", input.Name, err))
			continue
		}
		categoryIDs[category.Slug] = *category
		res.Categories++
	}

	for _, demo := range demoProducts {
		input := demo.input
		if category, ok := categoryIDs[demo.category]; ok {
			id := category.ID
			input.CategoryID = &id
		}
		if _, err := prods.Create(ctx, input); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s: %w", input.Name, err))
			continue
		}
		res.Products++
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"categories": res.Categories,
		"products":   res.Products,
	}), "seed.catalog_loaded")
	return res, errs
}
