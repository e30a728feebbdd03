package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/32Lwk/monte-carlo-pi-multi-language/estimator"
)

const namespace = "montecarlo"

// Metrics exports the outcome of every observed run.
type Metrics struct {
	Estimate *prometheus.GaugeVec
	Error    *prometheus.GaugeVec
	Samples  *prometheus.CounterVec
	Inside   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Estimate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pi_estimate",
			Help:      "Estimate of pi from the latest run.",
		}, []string{"mode", "workers"}),
		Error: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pi_error",
			Help:      "Absolute error of the latest estimate.",
		}, []string{"mode", "workers"}),
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Points drawn across all runs.",
		}, []string{"mode"}),
		Inside: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inside_total",
			Help:      "Points that fell inside the unit circle across all runs.",
		}, []string{"mode"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_seconds",
			Help:      "Wall-clock time of a run.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.Estimate, m.Error, m.Samples, m.Inside, m.Duration)
	}
	return m
}

func (m *Metrics) Observe(res *estimator.Result) {
	mode := res.Mode.String()
	workers := strconv.Itoa(res.Workers)
	m.Estimate.WithLabelValues(mode, workers).Set(res.Estimate)
	m.Error.WithLabelValues(mode, workers).Set(res.Error)
	m.Samples.WithLabelValues(mode).Add(float64(res.Executed))
	m.Inside.WithLabelValues(mode).Add(float64(res.Inside))
	m.Duration.WithLabelValues(mode).Observe(res.Elapsed.Seconds())
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
