package telemetry

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

type Metrics struct {
	reg      *prometheus.Registry
	Reports  prometheus.Counter
	Regions  prometheus.Gauge
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	Exports  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "funnel",
			Name:      "reports_built_total",
			Help:      "Reports computed from the current input snapshot.",
		}),
		Regions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "funnel",
			Name:      "regions",
			Help:      "Regions in the last computed report.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "funnel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "code"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "funnel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "funnel",
			Name:      "exports_total",
			Help:      "Rendered charts and workbooks by format.",
		}, []string{"format"}),
	}
	m.reg.MustRegister(m.Reports, m.Regions, m.Requests, m.Latency, m.Exports)
	m.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// ReportBuilt cumple metrics.Observer.
func (m *Metrics) ReportBuilt(regions int) {
	m.Reports.Inc()
	m.Regions.Set(float64(regions))
}

func (m *Metrics) Exported(format string) { m.Exports.WithLabelValues(format).Inc() }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// patrón de ruta, no el path: evita cardinalidad por región
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		m.Latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
