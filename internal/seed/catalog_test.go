package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/db/dbtest"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
)

func TestCatalogSeedsOnceAndLinksCategories(t *testing.T) {
	client := dbtest.New(t)
	cats, err := categories.NewService(categories.NewRepository(client))
	require.NoError(t, err)
	prods, err := products.NewService(products.NewRepository(client))
	require.NoError(t, err)
	ctx := context.Background()

	res, err := Catalog(ctx, cats, prods, logger.Nop())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, len(demoCategories), res.Categories)
	assert.Equal(t, len(demoProducts), res.Products)

	page, err := prods.List(ctx, products.ListFilters{CategorySlug: "running", Pagination: pagination.Params{Page: 1, Limit: 50}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	again, err := Catalog(ctx, cats, prods, logger.Nop())
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	all, err := prods.List(ctx, products.ListFilters{Pagination: pagination.Params{Page: 1, Limit: 50}})
	require.NoError(t, err)
	assert.EqualValues(t, len(demoProducts), all.Total)
}
