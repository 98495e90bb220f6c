package store

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for store calls.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the store metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supplierapi_store_calls_total",
			Help: "Number of data store calls by table, operation and outcome.",
		}, []string{"table", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supplierapi_store_call_duration_seconds",
			Help:    "Duration of data store calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}
	m.calls = registerOrReuse(registerer, m.calls).(*prometheus.CounterVec)
	m.duration = registerOrReuse(registerer, m.duration).(*prometheus.HistogramVec)
	return m
}

func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector
		}
		panic(err)
	}
	return c
}

// Tracker records a single store call.
type Tracker struct {
	metrics *Metrics
	table   string
	op      Op
	start   time.Time
}

// Track starts a tracker for one call.
func (m *Metrics) Track(table string, op Op) *Tracker {
	return &Tracker{metrics: m, table: table, op: op, start: time.Now()}
}

// End records duration and outcome, returning err untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	t.metrics.calls.WithLabelValues(t.table, string(t.op), outcome(err)).Inc()
	t.metrics.duration.WithLabelValues(t.table, string(t.op)).Observe(time.Since(t.start).Seconds())
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

type instrumented struct {
	next    Client
	metrics *Metrics
}

// Instrument wraps next so every call is recorded in m.
func Instrument(next Client, m *Metrics) Client {
	if m == nil {
		return next
	}
	return &instrumented{next: next, metrics: m}
}

func (c *instrumented) Select(ctx context.Context, table string, filter *Filter) ([]Row, error) {
	t := c.metrics.Track(table, OpSelect)
	rows, err := c.next.Select(ctx, table, filter)
	return rows, t.End(err)
}

func (c *instrumented) Insert(ctx context.Context, table string, values Row) ([]Row, error) {
	t := c.metrics.Track(table, OpInsert)
	rows, err := c.next.Insert(ctx, table, values)
	return rows, t.End(err)
}

func (c *instrumented) Update(ctx context.Context, table string, values Row, filter Filter) ([]Row, error) {
	t := c.metrics.Track(table, OpUpdate)
	rows, err := c.next.Update(ctx, table, values, filter)
	return rows, t.End(err)
}

func (c *instrumented) Delete(ctx context.Context, table string, filter Filter) ([]Row, error) {
	t := c.metrics.Track(table, OpDelete)
	rows, err := c.next.Delete(ctx, table, filter)
	return rows, t.End(err)
}
