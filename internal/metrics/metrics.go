package metrics

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "isqm"

// Actions counted per calculator.
const (
	ActionValidate = "validate"
	ActionCalc     = "calc"
	ActionSave     = "save"
	ActionImport   = "import"
	ActionBatch    = "batch"
	ActionReport   = "report"
)

type Metrics struct {
	registry     *prometheus.Registry
	Calculations *prometheus.CounterVec
	SaveFailures *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
}

// New registers the service metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Calculator requests by element type and action.",
		}, []string{"type", "action"}),
		SaveFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "save_failures_total",
			Help:      "Failed history writes by classified kind.",
		}, []string{"kind"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func (m *Metrics) Count(calcType, action string) {
	if m == nil {
		return
	}
	m.Calculations.WithLabelValues(calcType, action).Inc()
}

func (m *Metrics) SaveFailed(kind string) {
	if m == nil {
		return
	}
	m.SaveFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware observes latency labelled by the matched mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.Duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
