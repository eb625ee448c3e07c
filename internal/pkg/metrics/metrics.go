package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	GridMutations   *prometheus.CounterVec
	GridCells       *prometheus.CounterVec
	RequestsFiled   prometheus.Counter
	RequestDuration *prometheus.HistogramVec
	JobRuns         *prometheus.CounterVec
	GridStreams     prometheus.GaugeFunc
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GridMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grafik",
			Name:      "grid_mutations_total",
			Help:      "Grid mutations by operation.",
		}, []string{"operation"}),
		GridCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grafik",
			Name:      "grid_cells_written_total",
			Help:      "Schedule cells written or cleared by operation.",
		}, []string{"operation"}),
		RequestsFiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "grafik",
			Name:      "leave_requests_filed_total",
			Help:      "Leave requests filed.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "grafik",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "grafik",
			Name:      "cron_job_runs_total",
			Help:      "Housekeeping job runs by job and result.",
		}, []string{"job", "result"}),
	}
	m.registry.MustRegister(
		m.GridMutations,
		m.GridCells,
		m.RequestsFiled,
		m.RequestDuration,
		m.JobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// GridMutation records one grid operation that touched cells cells.
func (m *Metrics) GridMutation(operation string, cells int) {
	if m == nil {
		return
	}
	m.GridMutations.WithLabelValues(operation).Inc()
	m.GridCells.WithLabelValues(operation).Add(float64(cells))
}

func (m *Metrics) RequestFiled() {
	if m == nil {
		return
	}
	m.RequestsFiled.Inc()
}

// JobRun counts a finished cron job run. Its signature fits cron.Observer.
func (m *Metrics) JobRun(job string, _ time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.JobRuns.WithLabelValues(job, result).Inc()
}

// ObserveStreams exports the number of open grid event streams as reported
// by total. Call it once.
func (m *Metrics) ObserveStreams(total func() int) {
	if m == nil {
		return
	}
	m.GridStreams = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "grafik",
		Name:      "grid_streams",
		Help:      "Open grid event streams.",
	}, func() float64 { return float64(total()) })
	m.registry.MustRegister(m.GridStreams)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware observes request latency labelled with the chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
