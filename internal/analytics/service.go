// Package analytics computes the back-office dashboard figures.
package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

const (
	DefaultLowStockThreshold = 5
	DefaultTopProducts       = 5
	maxTopProducts           = 50
)

// OverviewRequest selects the window and thresholds of an overview.
type OverviewRequest struct {
	Window            Window
	LowStockThreshold int
	TopProducts       int
}

type Service interface {
	Overview(ctx context.Context, req OverviewRequest) (*types.AnalyticsOverview, error)
}

type service struct {
	reader reader
}

func NewService(q *Query) (Service, error) {
	if q == nil {
		return nil, fmt.Errorf("analytics query required")
	}
	return &service{reader: q}, nil
}

func (s *service) Overview(ctx context.Context, req OverviewRequest) (*types.AnalyticsOverview, error) {
	if !req.Window.Start.IsZero() && !req.Window.End.IsZero() && !req.Window.End.After(req.Window.Start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end must be after start").
			WithDetails(map[string]string{"end": "must be after start"})
	}
	if req.LowStockThreshold <= 0 {
		req.LowStockThreshold = DefaultLowStockThreshold
	}
	if req.TopProducts <= 0 {
		req.TopProducts = DefaultTopProducts
	}
	if req.TopProducts > maxTopProducts {
		req.TopProducts = maxTopProducts
	}

	counts, err := s.reader.OrdersByStatus(ctx, req.Window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	byStatus := make(map[enums.OrderStatus]int64, len(counts))
	var orderCount, billable int64
	for _, c := range counts {
		byStatus[c.Status] = c.Count
		orderCount += c.Count
		if c.Status != enums.OrderStatusCancelled {
			billable += c.Count
		}
	}

	revenue, err := s.reader.Revenue(ctx, req.Window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	productCount, err := s.reader.ProductCount(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	lowStock, err := s.reader.LowStockCount(ctx, req.LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count low stock")
	}
	sales, err := s.reader.TopProducts(ctx, req.Window, req.TopProducts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank products")
	}

	top := make([]types.TopProduct, 0, len(sales))
	for _, row := range sales {
		top = append(top, types.TopProduct{
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  row.Quantity,
			Revenue:   types.MoneyFromDecimal(row.Revenue.Decimal.Round(2)),
		})
	}

	aov := decimal.Zero
	if billable > 0 {
		aov = revenue.Div(decimal.NewFromInt(billable)).Round(2)
	}

	return &types.AnalyticsOverview{
		OrderCount:        orderCount,
		Revenue:           types.MoneyFromDecimal(revenue),
		AverageOrderValue: types.MoneyFromDecimal(aov),
		ProductCount:      productCount,
		LowStockCount:     lowStock,
		OrdersByStatus:    byStatus,
		TopProducts:       top,
	}, nil
}
