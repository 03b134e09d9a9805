// Package metrics exposes Prometheus collectors for browse requests.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpattn/sfs/internal/browse"
	"github.com/rpattn/sfs/internal/domain"
)

const namespace = "sfs"

// Outcome label values.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomePageNotFound = "page_not_found"
	OutcomeError        = "error"
)

// Collector records browse metrics.
//
// Metrics:
//   - sfs_browse_requests_total: browses by view, outcome and last completed stage
//   - sfs_browse_filtered_rows: filtered row count of successful browses
//   - sfs_browse_duration_seconds: time spent compiling and querying
type Collector struct {
	registry *prometheus.Registry

	requestsTotal *prometheus.CounterVec
	filteredRows  *prometheus.HistogramVec
	duration      *prometheus.HistogramVec
}

// NewCollector registers the browse metrics with registry, or with a fresh
// registry carrying the Go and process collectors when registry is nil.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "browse_requests_total",
				Help:      "Total number of browse requests",
			},
			[]string{"view", "outcome", "stage"},
		),
		filteredRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "browse_filtered_rows",
				Help:      "Rows matching the search and filters of a browse",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"view"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "browse_duration_seconds",
				Help:      "Duration of browse requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"view"},
		),
	}
	registry.MustRegister(c.requestsTotal, c.filteredRows, c.duration)
	return c
}

// ObserveBrowse implements browse.Observer.
func (c *Collector) ObserveBrowse(view string, stage browse.Stage, err error, filtered int64, elapsed time.Duration) {
	outcome := Outcome(err)
	c.requestsTotal.WithLabelValues(view, outcome, stage.String()).Inc()
	c.duration.WithLabelValues(view).Observe(elapsed.Seconds())
	if err == nil {
		c.filteredRows.WithLabelValues(view).Observe(float64(filtered))
	}
}

// Outcome classifies a browse error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrPageNotFound):
		return OutcomePageNotFound
	case errors.Is(err, domain.ErrInvalidFilterValue),
		errors.Is(err, domain.ErrUnsupportedRangeType),
		errors.Is(err, domain.ErrInvalidBoundDirection),
		errors.Is(err, domain.ErrQueryConstruction),
		errors.Is(err, domain.ErrNoDefaultSort),
		errors.Is(err, domain.ErrDependencyResolution):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// Registry returns the registry the collectors live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
