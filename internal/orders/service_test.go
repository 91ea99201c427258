package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/dbtest"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type fixture struct {
	svc    Service
	client *db.Client
	shoe   models.Product
	tee    models.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := dbtest.New(t)

	svc, err := NewService(NewRepository(client), client, products.NewInventory(products.NewRepository(client)), logger.Nop())
	require.NoError(t, err)

	shoe := models.Product{
		Name:   "Air Max 90",
		Brand:  "Nike",
		Price:  decimal.RequireFromString("129.99"),
		Images: types.StringList{"/img/airmax.jpg"},
		Sizes:  types.Sizes{types.NumericSize(42), types.NumericSize(43)},
		Stock:  5,
		Type:   enums.ProductTypeShoes,
	}
	tee := models.Product{
		Name:   "Logo Tee",
		Brand:  "Stride",
		Price:  decimal.RequireFromString("25.00"),
		Images: types.StringList{},
		Sizes:  types.Sizes{types.LabelSize("M"), types.LabelSize("L")},
		Stock:  1,
		Type:   enums.ProductTypeClothing,
	}
	require.NoError(t, client.DB().Create(&shoe).Error)
	require.NoError(t, client.DB().Create(&tee).Error)

	return fixture{svc: svc, client: client, shoe: shoe, tee: tee}
}

func (f fixture) stock(t *testing.T, id uuid.UUID) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.client.DB().First(&p, "id = ?", id).Error)
	return p.Stock
}

func orderRequest(items ...types.OrderItem) types.OrderRequest {
	return types.OrderRequest{
		CustomerName:    " Ana Pérez ",
		CustomerPhone:   "+51 999 111 222",
		ShippingAddress: "Av. Larco 123, Miraflores",
		PaymentMethod:   enums.PaymentMethodCashOnDelivery,
		Items:           items,
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestCreateOrderRepricesAndReservesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, orderRequest(
		types.OrderItem{ID: f.shoe.ID, Price: types.MustMoney("1.00"), Quantity: 2, Size: types.NumericSize(42)},
		types.OrderItem{ID: f.tee.ID, Quantity: 1, Size: types.LabelSize("M"), Image: "/img/custom.jpg"},
	))
	require.NoError(t, err)

	assert.Equal(t, "1001", created.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, created.Status)
	assert.Equal(t, "284.98", created.Total.String())

	assert.Equal(t, 3, f.stock(t, f.shoe.ID))
	assert.Equal(t, 0, f.stock(t, f.tee.ID))

	order, err := f.svc.Get(ctx, created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", order.CustomerName)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "129.99", order.Items[0].Price.String())
	assert.Equal(t, "/img/airmax.jpg", order.Items[0].Image)
	assert.Equal(t, types.NumericSize(42), order.Items[0].Size)
	assert.Equal(t, "/img/custom.jpg", order.Items[1].Image)
	assert.Equal(t, types.LabelSize("M"), order.Items[1].Size)

	byID, err := f.svc.Get(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, byID.OrderNumber)
}

func TestOrderNumbersAreSequential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		created, err := f.svc.Create(ctx, orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(43)}))
		require.NoError(t, err)
		numbers = append(numbers, created.OrderNumber)
	}
	assert.Equal(t, []string{"1001", "1002", "1003"}, numbers)
}

func TestCreateOrderRejectsShortageWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, orderRequest(
		types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(42)},
		types.OrderItem{ID: f.tee.ID, Quantity: 1, Size: types.LabelSize("M")},
		types.OrderItem{ID: f.tee.ID, Quantity: 1, Size: types.LabelSize("L")},
	))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	assert.Equal(t, 5, f.stock(t, f.shoe.ID))
	assert.Equal(t, 1, f.stock(t, f.tee.ID))

	list, err := f.svc.List(ctx, ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)
}

func TestCreateOrderValidatesItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]types.OrderRequest{
		"empty":          orderRequest(),
		"unknown":        orderRequest(types.OrderItem{ID: uuid.New(), Quantity: 1}),
		"size":           orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(36)}),
		"missing size":   orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1}),
		"zero quantity":  orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 0, Size: types.NumericSize(42)}),
		"payment method": func() types.OrderRequest {
			req := orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(42)})
			req.PaymentMethod = "bitcoin"
			return req
		}(),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, req)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}
	assert.Equal(t, 5, f.stock(t, f.shoe.ID))
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 2, Size: types.NumericSize(42)}))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusShipped)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	for _, next := range []enums.OrderStatus{enums.OrderStatusConfirmed, enums.OrderStatusShipped, enums.OrderStatusDelivered} {
		order, err := f.svc.UpdateStatus(ctx, created.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}

	_, err = f.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusCancelled)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	assert.Equal(t, 3, f.stock(t, f.shoe.ID))

	_, err = f.svc.UpdateStatus(ctx, uuid.New(), enums.OrderStatusConfirmed)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.UpdateStatus(ctx, created.ID, "lost")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCancelRestoresStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, orderRequest(
		types.OrderItem{ID: f.shoe.ID, Quantity: 2, Size: types.NumericSize(42)},
		types.OrderItem{ID: f.tee.ID, Quantity: 1, Size: types.LabelSize("L")},
	))
	require.NoError(t, err)
	assert.Equal(t, 3, f.stock(t, f.shoe.ID))

	_, err = f.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	order, err := f.svc.UpdateStatus(ctx, created.ID, enums.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, order.Status)

	assert.Equal(t, 5, f.stock(t, f.shoe.ID))
	assert.Equal(t, 1, f.stock(t, f.tee.ID))
}

func TestListOrdersFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(42)}))
	require.NoError(t, err)

	req := orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(43)})
	req.CustomerName = "Luis Gómez"
	req.CustomerPhone = "+51 988 000 111"
	second, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, first.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)

	confirmed := enums.OrderStatusConfirmed
	list, err := f.svc.List(ctx, ListFilters{Status: &confirmed})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, first.OrderNumber, list.Items[0].OrderNumber)

	list, err = f.svc.List(ctx, ListFilters{Search: "luis"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, second.OrderNumber, list.Items[0].OrderNumber)

	list, err = f.svc.List(ctx, ListFilters{Search: second.OrderNumber})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	list, err = f.svc.List(ctx, ListFilters{Pagination: pagination.Params{Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, 2, list.TotalPages)

	bad := enums.OrderStatus("lost")
	_, err = f.svc.List(ctx, ListFilters{Status: &bad})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, orderRequest(types.OrderItem{ID: f.shoe.ID, Quantity: 1, Size: types.NumericSize(42)}))
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, f.stock(t, f.shoe.ID))
}
