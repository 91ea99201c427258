package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/dbtest"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func newTestService(t *testing.T) (Service, *Repository, *db.Client) {
	t.Helper()
	client := dbtest.New(t)
	repo := NewRepository(client)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo, client
}

func mustCategory(t *testing.T, client *db.Client, name, slug string) models.Category {
	t.Helper()
	cat := models.Category{Name: name, Slug: slug}
	require.NoError(t, client.DB().Create(&cat).Error)
	return cat
}

func mustProduct(t *testing.T, repo *Repository, mutate func(*models.Product)) models.Product {
	t.Helper()
	p := models.Product{
		Name:   "Air Max 90",
		Brand:  "Nike",
		Price:  decimal.RequireFromString("129.99"),
		Images: types.StringList{"/img/airmax-1.jpg", "/img/airmax-2.jpg"},
		Sizes:  types.Sizes{types.NumericSize(41), types.NumericSize(42), types.NumericSize(42.5)},
		Stock:  10,
		Type:   enums.ProductTypeShoes,
	}
	if mutate != nil {
		mutate(&p)
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func money(v string) *types.Money {
	m := types.MustMoney(v)
	return &m
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _, client := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, client, "Sneakers", "sneakers")

	created, err := svc.Create(ctx, CreateProductInput{
		Name:          "  Gel-Kayano 30 ",
		Brand:         "Asics",
		Price:         types.MustMoney("159.90"),
		OriginalPrice: money("189.90"),
		Images:        []string{"/img/kayano.jpg"},
		Sizes:         types.Sizes{types.NumericSize(40), types.NumericSize(40), types.NumericSize(41)},
		Stock:         4,
		CategoryID:    &cat.ID,
		Type:          enums.ProductTypeShoes,
		Featured:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gel-Kayano 30", created.Name)
	assert.Equal(t, "159.90", created.Price.String())
	require.NotNil(t, created.OriginalPrice)
	assert.Equal(t, "189.90", created.OriginalPrice.String())
	assert.Equal(t, types.Sizes{types.NumericSize(40), types.NumericSize(41)}, created.Sizes)
	assert.Equal(t, "Sneakers", created.Category)
	assert.True(t, created.Featured)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "/img/kayano.jpg", got.FirstImage())
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	base := CreateProductInput{Name: "Tee", Brand: "Stride", Price: types.MustMoney("20"), Type: enums.ProductTypeClothing}

	zero := base
	zero.Price = types.ZeroMoney
	_, err := svc.Create(ctx, zero)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	discounted := base
	discounted.OriginalPrice = money("10")
	_, err = svc.Create(ctx, discounted)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	unknownCategory := base
	id := uuid.New()
	unknownCategory.CategoryID = &id
	_, err = svc.Create(ctx, unknownCategory)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	blankSize := base
	blankSize.Sizes = types.Sizes{types.LabelSize("M"), types.LabelSize(" ")}
	_, err = svc.Create(ctx, blankSize)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetMissingProduct(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), uuid.New()), pkgerrors.CodeNotFound))
}

func TestUpdateProduct(t *testing.T) {
	svc, repo, client := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, client, "Running", "running")
	p := mustProduct(t, repo, func(p *models.Product) {
		orig := decimal.RequireFromString("149.99")
		p.OriginalPrice = &orig
	})

	name := "Air Max 90 SE"
	stock := 0
	updated, err := svc.Update(ctx, p.ID, UpdateProductInput{
		Name:          &name,
		Stock:         &stock,
		ClearOriginal: true,
		CategoryID:    &cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Air Max 90 SE", updated.Name)
	assert.Equal(t, 0, updated.Stock)
	assert.Nil(t, updated.OriginalPrice)
	assert.Equal(t, "Running", updated.Category)
	assert.Equal(t, "129.99", updated.Price.String())

	updated, err = svc.Update(ctx, p.ID, UpdateProductInput{ClearCategory: true})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	lower := types.MustMoney("200")
	_, err = svc.Update(ctx, p.ID, UpdateProductInput{OriginalPrice: money("150"), Price: &lower})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteProduct(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, repo, nil)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err := svc.Get(ctx, p.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListFilters(t *testing.T) {
	svc, repo, client := newTestService(t)
	ctx := context.Background()
	cat := mustCategory(t, client, "Apparel", "apparel")

	airMax := mustProduct(t, repo, func(p *models.Product) { p.Featured = true })
	ultraboost := mustProduct(t, repo, func(p *models.Product) {
		p.Name = "Ultraboost Light"
		p.Brand = "Adidas"
		p.Price = decimal.RequireFromString("189.00")
		p.Sizes = types.Sizes{types.NumericSize(42.5), types.NumericSize(44)}
		p.Stock = 0
	})
	hoodie := mustProduct(t, repo, func(p *models.Product) {
		p.Name = "Tech Fleece Hoodie"
		p.Description = "Warm midlayer"
		p.Price = decimal.RequireFromString("99.50")
		p.Sizes = types.Sizes{types.LabelSize("S"), types.LabelSize("M"), types.LabelSize("L")}
		p.Type = enums.ProductTypeClothing
		p.CategoryID = &cat.ID
	})

	ids := func(res *ListResult) []uuid.UUID {
		out := []uuid.UUID{}
		for _, item := range res.Items {
			out = append(out, item.ID)
		}
		return out
	}
	yes, no := true, false
	m := types.MustMoney("100")
	size42 := types.NumericSize(42.5)
	sizeM := types.LabelSize("M")
	clothing := enums.ProductTypeClothing

	cases := []struct {
		name    string
		filters ListFilters
		want    []uuid.UUID
	}{
		{name: "search matches brand case-insensitively", filters: ListFilters{Search: "ADIDAS"}, want: []uuid.UUID{ultraboost.ID}},
		{name: "search matches description", filters: ListFilters{Search: "midlayer"}, want: []uuid.UUID{hoodie.ID}},
		{name: "brand", filters: ListFilters{Brand: "nike", Sort: enums.ProductSortName}, want: []uuid.UUID{airMax.ID, hoodie.ID}},
		{name: "numeric size membership", filters: ListFilters{Size: &size42, Sort: enums.ProductSortName}, want: []uuid.UUID{airMax.ID, ultraboost.ID}},
		{name: "label size membership", filters: ListFilters{Size: &sizeM}, want: []uuid.UUID{hoodie.ID}},
		{name: "min price", filters: ListFilters{MinPrice: &m, Sort: enums.ProductSortPrice}, want: []uuid.UUID{airMax.ID, ultraboost.ID}},
		{name: "max price", filters: ListFilters{MaxPrice: &m}, want: []uuid.UUID{hoodie.ID}},
		{name: "in stock", filters: ListFilters{InStock: &yes, Sort: enums.ProductSortName}, want: []uuid.UUID{airMax.ID, hoodie.ID}},
		{name: "out of stock", filters: ListFilters{InStock: &no}, want: []uuid.UUID{ultraboost.ID}},
		{name: "featured", filters: ListFilters{Featured: &yes}, want: []uuid.UUID{airMax.ID}},
		{name: "type", filters: ListFilters{Type: &clothing}, want: []uuid.UUID{hoodie.ID}},
		{name: "category id", filters: ListFilters{CategoryID: &cat.ID}, want: []uuid.UUID{hoodie.ID}},
		{name: "category slug", filters: ListFilters{CategorySlug: "apparel"}, want: []uuid.UUID{hoodie.ID}},
		{name: "price descending", filters: ListFilters{Sort: enums.ProductSortPrice, Descending: true}, want: []uuid.UUID{ultraboost.ID, airMax.ID, hoodie.ID}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.List(ctx, tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(res))
			assert.Equal(t, int64(len(tc.want)), res.Total)
		})
	}
}

func TestListPagination(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		mustProduct(t, repo, nil)
	}

	res, err := svc.List(ctx, ListFilters{Pagination: pagination.Params{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 2, res.Page)

	res, err = svc.List(ctx, ListFilters{Pagination: pagination.Params{Page: 3, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestListRejectsInvertedPriceRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.List(context.Background(), ListFilters{MinPrice: money("50"), MaxPrice: money("10")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestBrandsAndFacets(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	facets, err := svc.Facets(ctx)
	require.NoError(t, err)
	assert.Empty(t, facets.Brands)
	assert.True(t, facets.MinPrice.IsZero())
	assert.True(t, facets.MaxPrice.IsZero())

	mustProduct(t, repo, nil)
	mustProduct(t, repo, func(p *models.Product) {
		p.Brand = "Adidas"
		p.Price = decimal.RequireFromString("75")
		p.Sizes = types.Sizes{types.LabelSize("XL"), types.LabelSize("S"), types.NumericSize(39)}
		p.Type = enums.ProductTypeClothing
	})

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adidas", "Nike"}, brands)

	facets, err = svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Adidas", "Nike"}, facets.Brands)
	assert.Equal(t, []enums.ProductType{enums.ProductTypeClothing, enums.ProductTypeShoes}, facets.Types)
	assert.Equal(t, []types.Size{
		types.NumericSize(39), types.NumericSize(41), types.NumericSize(42), types.NumericSize(42.5),
		types.LabelSize("S"), types.LabelSize("XL"),
	}, facets.Sizes)
	assert.Equal(t, "75.00", facets.MinPrice.String())
	assert.Equal(t, "129.99", facets.MaxPrice.String())
}

func TestAdjustStock(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()
	p := mustProduct(t, repo, func(p *models.Product) { p.Stock = 2 })

	require.NoError(t, repo.AdjustStock(ctx, p.ID, -2))
	assert.ErrorIs(t, repo.AdjustStock(ctx, p.ID, -1), ErrInsufficientStock)
	require.NoError(t, repo.AdjustStock(ctx, p.ID, 3))

	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	assert.ErrorIs(t, repo.AdjustStock(ctx, uuid.New(), 1), ErrInsufficientStock)
}
