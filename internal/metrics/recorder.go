package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nao1215/urlprint/internal/fingerprint"
	"github.com/nao1215/urlprint/internal/model"
)

const namespace = "urlprint"

// Recorder holds the metrics of one process.
//
// Design decision: each Recorder owns its registry instead of using the
// global default, so tests and multiple servers in one process do not
// collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	comparisons  *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	requests     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		comparisons: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "comparisons_total",
				Help:      "Finished scheme comparisons by scheme and outcome.",
			},
			[]string{"scheme", "outcome"},
		),
		decodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decode_errors_total",
				Help:      "URLs whose image could not be loaded or decoded.",
			},
			[]string{"scheme"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "scheme_duration_seconds",
				Help:      "Wall time of a scheme pipeline for both URLs.",
				Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"scheme"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by handler and status code.",
			},
			[]string{"handler", "code"},
		),
	}

	r.registry.MustRegister(
		r.comparisons,
		r.decodeErrors,
		r.duration,
		r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveScheme records one finished scheme.
func (r *Recorder) ObserveScheme(result *model.SchemeResult) {
	scheme := string(result.Scheme)
	r.comparisons.WithLabelValues(scheme, result.Outcome().String()).Inc()
	r.duration.WithLabelValues(scheme).Observe(result.Elapsed.Seconds())

	for _, side := range []model.SideResult{result.Left, result.Right} {
		if errors.Is(side.Err, fingerprint.ErrDecode) {
			r.decodeErrors.WithLabelValues(scheme).Inc()
		}
	}
}

// InstrumentHandler counts requests served by next under the given name.
func (r *Recorder) InstrumentHandler(name string, next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(
		r.requests.MustCurryWith(prometheus.Labels{"handler": name}),
		next,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
