package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/internal/categories"
	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// ProductQuery mirrors the catalog list filters. Zero values are omitted.
type ProductQuery struct {
	Search   string
	Brand    string
	Category string
	Type     string
	Size     string
	MinPrice string
	MaxPrice string
	InStock  *bool
	Featured *bool
	Sort     string
	Desc     bool
	Page     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.Search)
	set("brand", q.Brand)
	set("category", q.Category)
	set("type", q.Type)
	set("size", q.Size)
	set("min_price", q.MinPrice)
	set("max_price", q.MaxPrice)
	set("sort", q.Sort)
	if q.InStock != nil {
		v.Set("in_stock", strconv.FormatBool(*q.InStock))
	}
	if q.Featured != nil {
		v.Set("featured", strconv.FormatBool(*q.Featured))
	}
	if q.Desc {
		v.Set("order", "desc")
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*types.Page[types.Product], error) {
	var page types.Page[types.Product]
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/products", query: q.values()}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/products/" + id.String()}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/products/brands"}, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (c *Client) Facets(ctx context.Context) (*types.CatalogFacets, error) {
	var facets types.CatalogFacets
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/products/filters"}, &facets); err != nil {
		return nil, err
	}
	return &facets, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]types.Category, error) {
	var list []types.Category
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/categories"}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCategory accepts an id or a slug.
func (c *Client) GetCategory(ctx context.Context, idOrSlug string) (*types.Category, error) {
	var category types.Category
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/categories/" + url.PathEscape(idOrSlug)}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateProduct(ctx context.Context, input products.CreateProductInput) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/admin/products", body: input, authenticated: true}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uuid.UUID, input products.UpdateProductInput) (*types.Product, error) {
	var product types.Product
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/api/admin/products/" + id.String(), body: input, authenticated: true}, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/admin/products/" + id.String(), authenticated: true}, nil)
}

func (c *Client) CreateCategory(ctx context.Context, input categories.CreateCategoryInput) (*types.Category, error) {
	var category types.Category
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/admin/categories", body: input, authenticated: true}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, input categories.UpdateCategoryInput) (*types.Category, error) {
	var category types.Category
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/api/admin/categories/" + id.String(), body: input, authenticated: true}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/api/admin/categories/" + id.String(), authenticated: true}, nil)
}
