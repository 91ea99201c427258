package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records housekeeping job runs and the catalog figures they sample.
type JobMetrics struct {
	duration      *prometheus.HistogramVec
	success       *prometheus.CounterVec
	failure       *prometheus.CounterVec
	lowStock      prometheus.Gauge
	expiredOrders prometheus.Counter
}

// NewJobMetrics registers the job metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "housekeeping_job_duration_seconds",
		Help:    "Duration of housekeeping jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housekeeping_job_success_total",
		Help: "Successful housekeeping job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "housekeeping_job_failure_total",
		Help: "Failed housekeeping job executions.",
	}, []string{"job"})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_low_stock_products",
		Help: "Products at or below the low-stock threshold at the last check.",
	})
	expired := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_expired_total",
		Help: "Pending orders cancelled after exceeding their time to live.",
	})
	reg.MustRegister(duration, success, failure, lowStock, expired)
	return &JobMetrics{
		duration:      duration,
		success:       success,
		failure:       failure,
		lowStock:      lowStock,
		expiredOrders: expired,
	}
}

// ObserveDuration records the duration for the named job.
func (j *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if j == nil || j.duration == nil {
		return
	}
	j.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (j *JobMetrics) IncSuccess(job string) {
	if j == nil || j.success == nil {
		return
	}
	j.success.WithLabelValues(normalizeLabel(job)).Inc()
}

func (j *JobMetrics) IncFailure(job string) {
	if j == nil || j.failure == nil {
		return
	}
	j.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// SetLowStock publishes the latest low-stock product count.
func (j *JobMetrics) SetLowStock(n int64) {
	if j == nil || j.lowStock == nil {
		return
	}
	j.lowStock.Set(float64(n))
}

// AddExpiredOrders counts orders cancelled by the expiry job.
func (j *JobMetrics) AddExpiredOrders(n int) {
	if j == nil || j.expiredOrders == nil || n <= 0 {
		return
	}
	j.expiredOrders.Add(float64(n))
}
