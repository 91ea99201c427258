package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

const defaultExpiryBatch = 100

type pendingOrderReader interface {
	FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
}

type orderCanceller interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*types.Order, error)
}

// OrderExpiryJobParams configure the pending order expiry job.
type OrderExpiryJobParams struct {
	Logger  *logger.Logger
	Reader  pendingOrderReader
	Orders  orderCanceller
	Metrics *metrics.JobMetrics
	TTL     time.Duration
	Batch   int
}

// NewOrderExpiryJob builds the job that cancels orders left pending longer than
// TTL. Cancelling goes through the order service, so stock is restored the same
// way as a back-office cancellation.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("pending order reader required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("order ttl must be positive")
	}
	batch := params.Batch
	if batch <= 0 {
		batch = defaultExpiryBatch
	}
	return &orderExpiryJob{
		logg:    params.Logger,
		reader:  params.Reader,
		orders:  params.Orders,
		metrics: params.Metrics,
		ttl:     params.TTL,
		batch:   batch,
		now:     time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg    *logger.Logger
	reader  pendingOrderReader
	orders  orderCanceller
	metrics *metrics.JobMetrics
	ttl     time.Duration
	batch   int
	now     func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.reader.FindPendingBefore(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query pending orders: %w", err)
	}

	var errs error
	expired := 0
	for _, order := range stale {
		orderCtx := j.logg.WithOrderNumber(ctx, order.OrderNumber)
		if _, err := j.orders.UpdateStatus(orderCtx, order.ID, enums.OrderStatusCancelled); err != nil {
			// Confirmed or cancelled since the query ran.
			if pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
				j.logg.Warn(j.logg.WithField(orderCtx, "error", err.Error()), "pending order moved before expiry")
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("expire order %s: %w", order.OrderNumber, err))
			continue
		}
		expired++
		j.logg.Info(orderCtx, "order.expired")
	}
	j.metrics.AddExpiredOrders(expired)
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{"candidates": len(stale), "expired": expired}), "order expiry loop complete")
	return errs
}
