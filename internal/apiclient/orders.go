package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// CreateOrderRequest is the storefront order payload.
type CreateOrderRequest = types.OrderRequest

// CreateOrder places an order. A non-empty idempotency key makes retries of the
// same payload return the first response.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (*types.OrderCreated, error) {
	var created types.OrderCreated
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/orders", body: req, idempotencyKey: idempotencyKey}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) CreateSpecialOrder(ctx context.Context, req types.SpecialOrderRequest, idempotencyKey string) (*types.SpecialOrder, error) {
	var created types.SpecialOrder
	err := c.do(ctx, call{method: http.MethodPost, path: "/api/special-orders", body: req, idempotencyKey: idempotencyKey}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// OrderQuery filters the back-office order list.
type OrderQuery struct {
	Status string
	Search string
	Page   int
	Limit  int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) ListOrders(ctx context.Context, q OrderQuery) (*types.Page[types.Order], error) {
	var page types.Page[types.Order]
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/orders", query: q.values(), authenticated: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetOrder accepts an order id or an order number.
func (c *Client) GetOrder(ctx context.Context, ref string) (*types.Order, error) {
	var order types.Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/orders/" + url.PathEscape(ref), authenticated: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*types.Order, error) {
	var order types.Order
	body := map[string]enums.OrderStatus{"status": status}
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/api/admin/orders/" + id.String() + "/status", body: body, authenticated: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) ListSpecialOrders(ctx context.Context, q OrderQuery) (*types.Page[types.SpecialOrder], error) {
	var page types.Page[types.SpecialOrder]
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/special-orders", query: q.values(), authenticated: true}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) UpdateSpecialOrderStatus(ctx context.Context, id uuid.UUID, status enums.SpecialOrderStatus) (*types.SpecialOrder, error) {
	var order types.SpecialOrder
	body := map[string]enums.SpecialOrderStatus{"status": status}
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/api/admin/special-orders/" + id.String() + "/status", body: body, authenticated: true}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Overview fetches the dashboard figures. preset is one of 7d, 30d, 90d or all.
func (c *Client) Overview(ctx context.Context, preset string) (*types.AnalyticsOverview, error) {
	query := url.Values{}
	if preset != "" {
		query.Set("preset", preset)
	}
	var overview types.AnalyticsOverview
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/admin/analytics/overview", query: query, authenticated: true}, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}
