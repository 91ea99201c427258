package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/api/responses"
	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type fakeShop struct {
	mu      sync.Mutex
	product types.Product
	orders  []types.OrderRequest
	keys    []string
	status  int
}

func newFakeShop(t *testing.T) (*fakeShop, *httptest.Server) {
	t.Helper()
	shop := &fakeShop{product: types.Product{
		ID:    uuid.New(),
		Name:  "Pegasus 41",
		Brand: "Nike",
		Price: types.MoneyFromFloat(129.99),
		Sizes: types.Sizes{types.NumericSize(42), types.NumericSize(43)},
		Stock: 5,
		Type:  enums.ProductTypeShoes,
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != shop.product.ID.String() {
			http.Error(w, `{"success":false,"error":{"code":"NOT_FOUND"},"message":"product not found"}`, http.StatusNotFound)
			return
		}
		responses.WriteSuccess(w, shop.product)
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var req types.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		shop.mu.Lock()
		shop.orders = append(shop.orders, req)
		shop.keys = append(shop.keys, r.Header.Get("Idempotency-Key"))
		status := shop.status
		shop.mu.Unlock()
		if status != 0 {
			http.Error(w, "upstream timed out", status)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, types.OrderCreated{
			ID:          uuid.New(),
			OrderNumber: "1001",
			Total:       shop.product.Price.Times(req.Items[0].Quantity),
			Status:      enums.OrderStatusPending,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv(config.EnvClientAPIBaseURL, srv.URL)
	t.Setenv(config.EnvClientStateDriver, config.StateDriverSQLite)
	t.Setenv("STRIDE_CLIENT_STATE_PATH", filepath.Join(t.TempDir(), "shop.db"))
	t.Setenv("STRIDE_CLIENT_LOG_LEVEL", "error")
	return shop, srv
}

func runShop(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{out: &out, errOut: &errOut}
	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), errOut.String(), err
}

func TestCartPersistsAcrossInvocations(t *testing.T) {
	shop, _ := newFakeShop(t)
	id := shop.product.ID.String()

	out, _, err := runShop(t, "cart", "add", id, "42", "-q", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 x Pegasus 41 (42)")

	_, _, err = runShop(t, "cart", "add", id, "42")
	require.NoError(t, err)

	out, _, err = runShop(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "389.97")

	_, _, err = runShop(t, "cart", "add", id, "47")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available in size 47")

	out, _, err = runShop(t, "cart", "set", id, "42", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	shop, _ := newFakeShop(t)
	id := shop.product.ID.String()

	_, _, err := runShop(t, "cart", "add", id, "43", "-q", "1")
	require.NoError(t, err)

	_, errOut, err := runShop(t, "checkout", "--name", "Ana Ruiz", "--phone", "555-0100")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "shipping_address")
	assert.Empty(t, shop.orders)

	out, errOut, err := runShop(t, "checkout",
		"--name", "Ana Ruiz", "--phone", "555-0100",
		"--address", "12 Harbour St", "--payment", "bank_transfer", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deliver to Ana Ruiz (555-0100)")
	assert.Contains(t, errOut, "Order placed")
	assert.Contains(t, errOut, "1001")

	require.Len(t, shop.orders, 1)
	placed := shop.orders[0]
	assert.Equal(t, enums.PaymentMethodBankTransfer, placed.PaymentMethod)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, shop.product.ID, placed.Items[0].ID)
	assert.Equal(t, "43", placed.Items[0].Size.String())
	assert.NotEmpty(t, shop.keys[0])

	out, _, err = runShop(t, "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestCheckoutRetryAfterTimeoutReusesIdempotencyKey(t *testing.T) {
	shop, _ := newFakeShop(t)
	shop.status = http.StatusGatewayTimeout
	metricsFile := filepath.Join(t.TempDir(), "checkout.prom")
	t.Setenv(config.EnvClientMetricsFile, metricsFile)

	_, _, err := runShop(t, "cart", "add", shop.product.ID.String(), "42")
	require.NoError(t, err)

	args := []string{"checkout", "--name", "Ana Ruiz", "--phone", "555-0100", "--address", "12 Harbour St", "--yes"}
	_, _, err = runShop(t, args...)
	require.ErrorIs(t, err, errReported)
	_, _, err = runShop(t, args...)
	require.ErrorIs(t, err, errReported)

	shop.mu.Lock()
	shop.status = 0
	shop.mu.Unlock()
	_, errOut, err := runShop(t, args...)
	require.NoError(t, err)
	assert.Contains(t, errOut, "1001")

	require.Len(t, shop.keys, 3)
	assert.NotEmpty(t, shop.keys[0])
	assert.Equal(t, shop.keys[0], shop.keys[1])
	assert.Equal(t, shop.keys[0], shop.keys[2])

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `checkout_submissions_total{outcome="success"} 1`)
}

func TestCheckoutWithEmptyCartIsRejected(t *testing.T) {
	shop, _ := newFakeShop(t)

	_, errOut, err := runShop(t, "checkout", "--name", "Ana", "--phone", "1", "--address", "x", "--yes")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Your cart is empty")
	assert.Empty(t, shop.orders)
}

func TestAdminCommandsRequireLogin(t *testing.T) {
	newFakeShop(t)

	_, _, err := runShop(t, "admin", "orders", "list")
	require.Error(t, err)
	assert.Contains(t, describe(err), "not logged in")
}

func TestAskYes(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, askYes(strings.NewReader("Y\n"), &out, "? "))
	assert.True(t, askYes(strings.NewReader("yes"), &out, "? "))
	assert.False(t, askYes(strings.NewReader("\n"), &out, "? "))
	assert.False(t, askYes(strings.NewReader(""), &out, "? "))
	assert.Equal(t, "? ? ? ? ", out.String())
}
