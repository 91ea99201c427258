package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalorders "github.com/angelmondragon/stride-storefront/internal/orders"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type stubOrderService struct {
	created     []types.OrderRequest
	lastRef     string
	lastFilters internalorders.ListFilters
	lastStatus  enums.OrderStatus
	err         error
}

func (s *stubOrderService) Create(ctx context.Context, req types.OrderRequest) (*types.OrderCreated, error) {
	s.created = append(s.created, req)
	if s.err != nil {
		return nil, s.err
	}
	return &types.OrderCreated{ID: uuid.New(), OrderNumber: "1001", Total: types.MustMoney("259.98"), Status: enums.OrderStatusPending}, nil
}

func (s *stubOrderService) Get(ctx context.Context, idOrNumber string) (*types.Order, error) {
	s.lastRef = idOrNumber
	if s.err != nil {
		return nil, s.err
	}
	return &types.Order{OrderNumber: idOrNumber}, nil
}

func (s *stubOrderService) List(ctx context.Context, filters internalorders.ListFilters) (*internalorders.ListResult, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	return &internalorders.ListResult{Items: []types.Order{}}, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*types.Order, error) {
	s.lastStatus = status
	if s.err != nil {
		return nil, s.err
	}
	return &types.Order{ID: id, Status: status}, nil
}

func routed(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

const validOrder = `{
	"customer_name": "Luis Pérez",
	"customer_phone": "+52 55 1234 5678",
	"shipping_address": "Av. Reforma 100, CDMX",
	"payment_method": "cash_on_delivery",
	"items": [
		{"id": "8a3f3c5e-7a9b-4a52-9b57-0e1c2f7d9a10", "name": "Air Max 90", "brand": "Nike", "price": "129.99", "quantity": 2, "size": 42, "image": "/img/airmax.jpg"}
	]
}`

func TestCreateOrder(t *testing.T) {
	svc := &stubOrderService{}
	rec := httptest.NewRecorder()
	Create(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(validOrder)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	req := svc.created[0]
	assert.Equal(t, enums.PaymentMethodCashOnDelivery, req.PaymentMethod)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, types.NumericSize(42), req.Items[0].Size)

	var env struct {
		Success bool               `json:"success"`
		Data    types.OrderCreated `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "1001", env.Data.OrderNumber)
	assert.Equal(t, "259.98", env.Data.Total.String())
}

func TestCreateOrderValidation(t *testing.T) {
	cases := map[string]string{
		"no items":       `{"customer_name":"a","customer_phone":"1","shipping_address":"x","payment_method":"cash_on_delivery","items":[]}`,
		"bad payment":    strings.Replace(validOrder, "cash_on_delivery", "crypto", 1),
		"missing name":   strings.Replace(validOrder, `"Luis Pérez"`, `""`, 1),
		"unknown field":  strings.Replace(validOrder, `"items"`, `"coupon": "FREE", "items"`, 1),
		"zero quantity":  strings.Replace(validOrder, `"quantity": 2`, `"quantity": 0`, 1),
		"malformed json": `{"customer_name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubOrderService{}
			rec := httptest.NewRecorder()
			Create(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Empty(t, svc.created)
		})
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeConflict, "some items are out of stock").
		WithDetails(map[string]string{"8a3f3c5e-7a9b-4a52-9b57-0e1c2f7d9a10": "only 1 left"})}
	rec := httptest.NewRecorder()
	Create(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(validOrder)))

	require.Equal(t, http.StatusConflict, rec.Code)
	var env types.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "some items are out of stock", env.Message)
	require.NotNil(t, env.Error)
	assert.Equal(t, string(pkgerrors.CodeConflict), env.Error.Code)
	assert.NotNil(t, env.Error.Details)
}

func TestListOrdersFilters(t *testing.T) {
	svc := &stubOrderService{}
	rec := httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=shipped&search=luis&page=3&limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilters.Status)
	assert.Equal(t, enums.OrderStatusShipped, *svc.lastFilters.Status)
	assert.Equal(t, "luis", svc.lastFilters.Search)
	assert.Equal(t, 3, svc.lastFilters.Pagination.Page)
	assert.Equal(t, 10, svc.lastFilters.Pagination.Limit)

	rec = httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/orders?status=lost", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailPassesReference(t *testing.T) {
	svc := &stubOrderService{}
	rec := httptest.NewRecorder()
	Detail(svc, logger.Nop()).ServeHTTP(rec, routed(httptest.NewRequest(http.MethodGet, "/api/admin/orders/1042", nil), "orderId", "1042"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1042", svc.lastRef)
}

func TestUpdateStatus(t *testing.T) {
	id := uuid.New()

	t.Run("applies transition", func(t *testing.T) {
		svc := &stubOrderService{}
		req := routed(httptest.NewRequest(http.MethodPatch, "/api/admin/orders/"+id.String()+"/status", strings.NewReader(`{"status":"confirmed"}`)), "orderId", id.String())
		rec := httptest.NewRecorder()
		UpdateStatus(svc, logger.Nop()).ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, enums.OrderStatusConfirmed, svc.lastStatus)
	})

	t.Run("disallowed transition", func(t *testing.T) {
		svc := &stubOrderService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move order from pending to delivered")}
		req := routed(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"delivered"}`)), "orderId", id.String())
		rec := httptest.NewRecorder()
		UpdateStatus(svc, logger.Nop()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := &stubOrderService{}
		req := routed(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"lost"}`)), "orderId", id.String())
		rec := httptest.NewRecorder()
		UpdateStatus(svc, logger.Nop()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.lastStatus)
	})
}
