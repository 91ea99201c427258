package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

// Window bounds the orders an overview looks at. Zero values are open ends.
type Window struct {
	Start time.Time
	End   time.Time
}

type statusCount struct {
	Status enums.OrderStatus
	Count  int64
}

type productSales struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int64
	Revenue   decimal.NullDecimal
}

// reader is the query surface the service aggregates over.
type reader interface {
	OrdersByStatus(ctx context.Context, w Window) ([]statusCount, error)
	Revenue(ctx context.Context, w Window) (decimal.Decimal, error)
	ProductCount(ctx context.Context) (int64, error)
	LowStockCount(ctx context.Context, threshold int) (int64, error)
	TopProducts(ctx context.Context, w Window, limit int) ([]productSales, error)
}

// Query runs the dashboard aggregates against the primary database.
type Query struct {
	db *gorm.DB
}

func NewQuery(client *db.Client) *Query {
	return &Query{db: client.DB()}
}

func (q *Query) orders(ctx context.Context, w Window) *gorm.DB {
	tx := q.db.WithContext(ctx).Model(&models.Order{})
	if !w.Start.IsZero() {
		tx = tx.Where("orders.created_at >= ?", w.Start.UTC())
	}
	if !w.End.IsZero() {
		tx = tx.Where("orders.created_at < ?", w.End.UTC())
	}
	return tx
}

func (q *Query) OrdersByStatus(ctx context.Context, w Window) ([]statusCount, error) {
	var rows []statusCount
	err := q.orders(ctx, w).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

// Revenue sums totals of every order that was not cancelled.
func (q *Query) Revenue(ctx context.Context, w Window) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := q.orders(ctx, w).
		Where("status <> ?", enums.OrderStatusCancelled).
		Select("SUM(total)").
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal.Round(2), nil
}

func (q *Query) ProductCount(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (q *Query) LowStockCount(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := q.db.WithContext(ctx).Model(&models.Product{}).Where("stock <= ?", threshold).Count(&n).Error
	return n, err
}

// TopProducts ranks products by units sold on non-cancelled orders.
func (q *Query) TopProducts(ctx context.Context, w Window, limit int) ([]productSales, error) {
	tx := q.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled)
	if !w.Start.IsZero() {
		tx = tx.Where("orders.created_at >= ?", w.Start.UTC())
	}
	if !w.End.IsZero() {
		tx = tx.Where("orders.created_at < ?", w.End.UTC())
	}

	var rows []productSales
	err := tx.
		Select("order_items.product_id AS product_id, MAX(order_items.name) AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS revenue").
		Group("order_items.product_id").
		Order("quantity DESC").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
