package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/internal/products"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Service places storefront orders and manages them from the back office.
type Service interface {
	Create(ctx context.Context, req types.OrderRequest) (*types.OrderCreated, error)
	Get(ctx context.Context, idOrNumber string) (*types.Order, error)
	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*types.Order, error)
}

type service struct {
	repo      *Repository
	tx        txRunner
	inventory Inventory
	logg      *logger.Logger
}

func NewService(repo *Repository, tx txRunner, inventory Inventory, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, inventory: inventory, logg: logg}, nil
}

// Create reprices the submitted lines from the catalog, reserves stock and
// stores the order under the next order number, all in one transaction.
func (s *service) Create(ctx context.Context, req types.OrderRequest) (*types.OrderCreated, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items").
			WithDetails(map[string]string{"items": "must contain at least 1 item"})
	}
	if !req.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method").
			WithDetails(map[string]string{"payment_method": "is not supported"})
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	wanted := map[uuid.UUID]int{}
	for i, item := range req.Items {
		if item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
				WithDetails(map[string]string{fmt.Sprintf("items[%d].quantity", i): "must be at least 1"})
		}
		if _, seen := wanted[item.ID]; !seen {
			ids = append(ids, item.ID)
		}
		wanted[item.ID] += item.Quantity
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalog, err := s.inventory.Lock(ctx, tx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
		}

		built, err := priceItems(req.Items, catalog)
		if err != nil {
			return err
		}

		shortages := map[string]string{}
		for _, id := range ids {
			if p := catalog[id]; p.Stock < wanted[id] {
				shortages[id.String()] = fmt.Sprintf("only %d left", p.Stock)
			}
		}
		if len(shortages) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "some items are out of stock").WithDetails(shortages)
		}

		for _, id := range ids {
			if err := s.inventory.Adjust(ctx, tx, id, -wanted[id]); err != nil {
				if errors.Is(err, products.ErrInsufficientStock) {
					return pkgerrors.New(pkgerrors.CodeConflict, "some items are out of stock").
						WithDetails(map[string]string{id.String(): "insufficient stock"})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
			}
		}

		txRepo := s.repo.WithTx(tx)
		number, err := txRepo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}

		total := decimal.Zero
		for _, item := range built {
			total = total.Add(item.LineTotal)
		}

		order = &models.Order{
			OrderNumber:     number,
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
			ShippingAddress: strings.TrimSpace(req.ShippingAddress),
			PaymentMethod:   req.PaymentMethod,
			Notes:           strings.TrimSpace(req.Notes),
			Status:          enums.OrderStatusPending,
			Total:           total,
			Items:           built,
		}
		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	logCtx := s.logg.WithOrderNumber(ctx, order.OrderNumber)
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"order_id": order.ID.String(),
		"items":    len(order.Items),
		"total":    order.Total.StringFixed(2),
	}), "order.created")

	return &types.OrderCreated{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Total:       types.MoneyFromDecimal(order.Total),
		Status:      order.Status,
	}, nil
}

// priceItems builds order lines from catalog data; client-sent prices are ignored.
func priceItems(items []types.OrderItem, catalog map[uuid.UUID]models.Product) ([]models.OrderItem, error) {
	out := make([]models.OrderItem, 0, len(items))
	invalid := map[string]string{}
	for i, item := range items {
		p, ok := catalog[item.ID]
		if !ok {
			invalid[fmt.Sprintf("items[%d].id", i)] = "product not found"
			continue
		}
		if len(p.Sizes) > 0 && !p.Sizes.Contains(item.Size) {
			invalid[fmt.Sprintf("items[%d].size", i)] = fmt.Sprintf("size %q is not offered", item.Size.String())
			continue
		}
		image := strings.TrimSpace(item.Image)
		if image == "" {
			image = p.Images.First()
		}
		out = append(out, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			Size:      item.Size.String(),
			Image:     image,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
			Position:  i,
		})
	}
	if len(invalid) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order contains invalid items").WithDetails(invalid)
	}
	return out, nil
}

// Get resolves an order by id or by order number.
func (s *service) Get(ctx context.Context, idOrNumber string) (*types.Order, error) {
	var (
		row *models.Order
		err error
	)
	if id, parseErr := uuid.Parse(idOrNumber); parseErr == nil {
		row, err = s.repo.FindByID(ctx, id)
	} else {
		row, err = s.repo.FindByNumber(ctx, strings.TrimSpace(idOrNumber))
	}
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	filters.Pagination = filters.Pagination.Normalize()

	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	items := make([]types.Order, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDTO(row))
	}
	page := pagination.NewPage(items, total, filters.Pagination)
	return &page, nil
}

// UpdateStatus applies one lifecycle transition. Cancelling returns the
// order's units to stock.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*types.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]string{"status": "is not a known order status"})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if !current.Status.CanTransitionTo(status) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", current.Status, status).
				WithDetails(map[string]string{"from": current.Status.String(), "to": status.String()})
		}

		moved, err := txRepo.TransitionStatus(ctx, id, current.Status, status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status changed concurrently")
		}

		if status == enums.OrderStatusCancelled {
			for _, item := range current.Items {
				err := s.inventory.Adjust(ctx, tx, item.ProductID, item.Quantity)
				if err != nil && !errors.Is(err, products.ErrInsufficientStock) {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
				}
			}
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	updated, err := s.Get(ctx, id.String())
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(s.logg.WithOrderNumber(ctx, updated.OrderNumber), "status", status.String()), "order.status_changed")
	return updated, nil
}
