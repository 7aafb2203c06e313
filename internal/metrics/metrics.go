package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Collector owns a private prometheus registry and the service's metric vectors
type Collector struct {
	registry *prometheus.Registry

	MigrationsTotal     *prometheus.CounterVec
	MigrationDuration   *prometheus.HistogramVec
	PendingMigrations   prometheus.Gauge
	ArchivedRows        *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	CacheLookups        *prometheus.CounterVec
}

// NewCollector creates a collector with every metric registered
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		MigrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migrations_total",
			Help:      "Total number of migration steps executed",
		}, []string{"migration", "direction", "status"}),
		MigrationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "migration_duration_seconds",
			Help:      "Duration of migration steps in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"migration", "direction"}),
		PendingMigrations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "migrations_pending",
			Help:      "Number of migrations not yet applied",
		}),
		ArchivedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "migration_archived_rows_total",
			Help:      "Rows archived before lossy migrations",
		}, []string{"migration", "table", "column"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Order info cache lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.MigrationsTotal,
		c.MigrationDuration,
		c.PendingMigrations,
		c.ArchivedRows,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.CacheLookups,
	)
	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveMigration records one migration step
func (c *Collector) ObserveMigration(name, direction string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.MigrationsTotal.WithLabelValues(name, direction, status).Inc()
	c.MigrationDuration.WithLabelValues(name, direction).Observe(duration.Seconds())
}

// SetPending records the number of unapplied migrations
func (c *Collector) SetPending(n int) {
	c.PendingMigrations.Set(float64(n))
}

// AddArchived records rows uploaded to the archive sink
func (c *Collector) AddArchived(migration, table, column string, rows int) {
	c.ArchivedRows.WithLabelValues(migration, table, column).Add(float64(rows))
}

// CacheHit records a cache lookup result: "hit", "miss" or "error"
func (c *Collector) CacheHit(result string) {
	c.CacheLookups.WithLabelValues(result).Inc()
}

// Middleware records request counts and durations by route
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		c.HTTPRequestsTotal.WithLabelValues(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPRequestDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
