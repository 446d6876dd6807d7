// Package metrics exposes engine activity and ledger gauges to Prometheus.
package metrics

import (
	"sync/atomic"

	"github.com/LeJamon/pixpressd/internal/core/tx"
	"github.com/LeJamon/pixpressd/internal/core/tx/pool"
	"github.com/LeJamon/pixpressd/internal/core/tx/stake"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector records applied transactions. It implements tx.Observer.
type Collector struct {
	registry *prometheus.Registry

	applied *prometheus.CounterVec
	latency *prometheus.HistogramVec
	reserve prometheus.GaugeFunc
	orders  prometheus.GaugeFunc

	// engine is set by Watch and read by scrapes on other goroutines.
	engine atomic.Pointer[tx.Engine]
}

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "pixpressd"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.applied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "transactions_total",
			Help:      "Total number of processed transactions by type and result",
		},
		[]string{"tx_type", "result"},
	)

	c.latency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying a transaction",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 100us to ~0.8s
		},
		[]string{"tx_type"},
	)

	c.reserve = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "reserve",
			Help:      "Reward tokens held by the liquidity pool",
		},
		c.poolReserve,
	)

	c.orders = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "active_orders",
			Help:      "Number of active staked orders",
		},
		c.activeOrders,
	)

	c.registry.MustRegister(c.applied, c.latency, c.reserve, c.orders)
	return c
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// OnApplied implements tx.Observer.
func (c *Collector) OnApplied(t tx.Transaction, res tx.ApplyResult) {
	typ := t.TxType().String()
	c.applied.WithLabelValues(typ, res.Result.String()).Inc()
	c.latency.WithLabelValues(typ).Observe(res.Duration.Seconds())
}

// Watch subscribes the collector to engine and makes the ledger gauges
// read its committed state at scrape time.
func (c *Collector) Watch(engine *tx.Engine) {
	engine.Subscribe(c)
	c.engine.Store(engine)
}

// read runs fn against the watched engine's committed state. It is a no-op
// before Watch.
func (c *Collector) read(fn func(v tx.LedgerView)) {
	engine := c.engine.Load()
	if engine == nil {
		return
	}
	_ = engine.Read(func(v tx.LedgerView) error {
		fn(v)
		return nil
	})
}

func (c *Collector) poolReserve() float64 {
	var reserve uint64
	c.read(func(v tx.LedgerView) {
		if ps, err := pool.Load(v); err == nil {
			reserve = ps.Reserve
		}
	})
	return float64(reserve)
}

func (c *Collector) activeOrders() float64 {
	var n uint64
	c.read(func(v tx.LedgerView) {
		if ms, err := stake.Load(v); err == nil {
			n = ms.OrderCount
		}
	})
	return float64(n)
}
