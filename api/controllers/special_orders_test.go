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

	"github.com/angelmondragon/stride-storefront/internal/specialorders"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type stubSpecialOrderService struct {
	created     []types.SpecialOrderRequest
	lastFilters specialorders.ListFilters
	lastStatus  enums.SpecialOrderStatus
}

func (s *stubSpecialOrderService) Create(ctx context.Context, req types.SpecialOrderRequest) (*types.SpecialOrder, error) {
	s.created = append(s.created, req)
	return &types.SpecialOrder{ID: uuid.New(), ProductName: req.ProductName, Status: enums.SpecialOrderStatusPending}, nil
}

func (s *stubSpecialOrderService) List(ctx context.Context, filters specialorders.ListFilters) (*specialorders.ListResult, error) {
	s.lastFilters = filters
	return &specialorders.ListResult{Items: []types.SpecialOrder{}}, nil
}

func (s *stubSpecialOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SpecialOrderStatus) (*types.SpecialOrder, error) {
	s.lastStatus = status
	return &types.SpecialOrder{ID: id, Status: status}, nil
}

func TestSpecialOrderCreate(t *testing.T) {
	svc := &stubSpecialOrderService{}
	body := `{"customer_name":"Ana","customer_phone":"555-0101","product_name":"Samba OG","brand":"Adidas","size":38.5}`
	rec := httptest.NewRecorder()
	SpecialOrderCreate(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/special-orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	assert.Equal(t, types.NumericSize(38.5), svc.created[0].Size)

	rec = httptest.NewRecorder()
	SpecialOrderCreate(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/special-orders", strings.NewReader(`{"customer_name":"Ana"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.created, 1)
}

func TestAdminSpecialOrderListAndStatus(t *testing.T) {
	svc := &stubSpecialOrderService{}
	rec := httptest.NewRecorder()
	AdminSpecialOrderList(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/special-orders?status=contacted&search=samba", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilters.Status)
	assert.Equal(t, enums.SpecialOrderStatusContacted, *svc.lastFilters.Status)
	assert.Equal(t, "samba", svc.lastFilters.Search)

	rec = httptest.NewRecorder()
	AdminSpecialOrderList(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/special-orders?status=archived", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := uuid.New()
	req := withURLParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"fulfilled"}`)), map[string]string{"specialOrderId": id.String()})
	rec = httptest.NewRecorder()
	AdminSpecialOrderStatus(svc, logger.Nop()).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, enums.SpecialOrderStatusFulfilled, svc.lastStatus)
}
