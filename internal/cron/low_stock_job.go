package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/metrics"
)

type lowStockCounter interface {
	LowStockCount(ctx context.Context, threshold int) (int64, error)
}

// NewLowStockJob samples how many products sit at or below threshold and
// publishes the figure as a gauge.
func NewLowStockJob(logg *logger.Logger, counter lowStockCounter, threshold int, m *metrics.JobMetrics) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if counter == nil {
		return nil, fmt.Errorf("stock counter required")
	}
	if threshold < 0 {
		return nil, fmt.Errorf("threshold must not be negative")
	}
	return &lowStockJob{logg: logg, counter: counter, threshold: threshold, metrics: m}, nil
}

type lowStockJob struct {
	logg      *logger.Logger
	counter   lowStockCounter
	threshold int
	metrics   *metrics.JobMetrics
}

func (j *lowStockJob) Name() string { return "low-stock" }

func (j *lowStockJob) Run(ctx context.Context) error {
	n, err := j.counter.LowStockCount(ctx, j.threshold)
	if err != nil {
		return fmt.Errorf("count low stock products: %w", err)
	}
	j.metrics.SetLowStock(n)
	logCtx := j.logg.WithFields(ctx, map[string]any{"threshold": j.threshold, "products": n})
	if n > 0 {
		j.logg.Warn(logCtx, "products running low on stock")
		return nil
	}
	j.logg.Info(logCtx, "stock levels healthy")
	return nil
}
