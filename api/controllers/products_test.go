package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productsvc "github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type stubProductService struct {
	lastFilters productsvc.ListFilters
	lastCreate  productsvc.CreateProductInput
	deleted     []uuid.UUID
	product     *types.Product
	err         error
}

func (s *stubProductService) List(ctx context.Context, filters productsvc.ListFilters) (*productsvc.ListResult, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ListResult{Items: []types.Product{}, Page: filters.Pagination.Page, Limit: filters.Pagination.Limit}, nil
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateProductInput) (*types.Product, error) {
	s.lastCreate = input
	if s.err != nil {
		return nil, s.err
	}
	return &types.Product{ID: uuid.New(), Name: input.Name, Brand: input.Brand, Price: input.Price}, nil
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*types.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Product{ID: id}, nil
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubProductService) Brands(ctx context.Context) ([]string, error) {
	return []string{"Adidas", "Nike"}, s.err
}

func (s *stubProductService) Facets(ctx context.Context) (*types.CatalogFacets, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.CatalogFacets{Brands: []string{"Nike"}}, nil
}

func TestProductListParsesFilters(t *testing.T) {
	svc := &stubProductService{}
	req := httptest.NewRequest(http.MethodGet,
		"/api/products?search=air&brand=Nike&category=running&type=shoes&size=42&min_price=50&max_price=150.5&in_stock=true&sort=price&order=desc&page=2&limit=12", nil)
	rec := httptest.NewRecorder()
	ProductList(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	f := svc.lastFilters
	assert.Equal(t, "air", f.Search)
	assert.Equal(t, "Nike", f.Brand)
	assert.Nil(t, f.CategoryID)
	assert.Equal(t, "running", f.CategorySlug)
	require.NotNil(t, f.Type)
	assert.Equal(t, enums.ProductTypeShoes, *f.Type)
	require.NotNil(t, f.Size)
	assert.Equal(t, types.NumericSize(42), *f.Size)
	require.NotNil(t, f.MinPrice)
	assert.Equal(t, "50.00", f.MinPrice.String())
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, "150.50", f.MaxPrice.String())
	require.NotNil(t, f.InStock)
	assert.True(t, *f.InStock)
	assert.Nil(t, f.Featured)
	assert.Equal(t, enums.ProductSortPrice, f.Sort)
	assert.True(t, f.Descending)
	assert.Equal(t, 2, f.Pagination.Page)
	assert.Equal(t, 12, f.Pagination.Limit)
}

func TestProductListCategoryByID(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()
	rec := httptest.NewRecorder()
	ProductList(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?category="+id.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilters.CategoryID)
	assert.Equal(t, id, *svc.lastFilters.CategoryID)
	assert.Empty(t, svc.lastFilters.CategorySlug)
}

func TestProductListRejectsBadFilters(t *testing.T) {
	cases := map[string]string{
		"type":      "type=boots",
		"sort":      "sort=popularity",
		"order":     "order=sideways",
		"min price": "min_price=-1",
		"in stock":  "in_stock=maybe",
		"limit":     "limit=0",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ProductList(&stubProductService{}, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decodeEnvelope(t, rec, nil)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
		})
	}
}

func TestProductGet(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/nope", nil), map[string]string{"productId": "nope"})
		rec := httptest.NewRecorder()
		ProductGet(&stubProductService{}, logger.Nop()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil), map[string]string{"productId": id.String()})
		rec := httptest.NewRecorder()
		ProductGet(svc, logger.Nop()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeEnvelope(t, rec, nil)
		assert.Equal(t, "product not found", env.Message)
	})

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		svc := &stubProductService{product: &types.Product{ID: id, Name: "Air Max 90"}}
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil), map[string]string{"productId": id.String()})
		rec := httptest.NewRecorder()
		ProductGet(svc, logger.Nop()).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var product types.Product
		env := decodeEnvelope(t, rec, &product)
		assert.True(t, env.Success)
		assert.Equal(t, "Air Max 90", product.Name)
	})
}

func TestAdminCreateProduct(t *testing.T) {
	svc := &stubProductService{}
	body := `{"name":"Ultraboost","brand":"Adidas","price":"180.00","images":["/img/ub.jpg"],"sizes":[41,42],"stock":4,"type":"shoes"}`
	rec := httptest.NewRecorder()
	AdminCreateProduct(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Ultraboost", svc.lastCreate.Name)
	assert.Equal(t, 4, svc.lastCreate.Stock)
	assert.Len(t, svc.lastCreate.Sizes, 2)

	rec = httptest.NewRecorder()
	AdminCreateProduct(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(`{"name":"x","colour":"red"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	svc := &stubProductService{}
	id := uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/admin/products/"+id.String(), nil), map[string]string{"productId": id.String()})
	rec := httptest.NewRecorder()
	AdminDeleteProduct(svc, logger.Nop()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.deleted)
}
