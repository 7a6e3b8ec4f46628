// internal/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tamzrod/vitals-sampler/internal/reading"
)

const namespace = "vitals"

// Metrics owns a private registry so tests can build many instances.
type Metrics struct {
	reg *prometheus.Registry

	ticks       *prometheus.CounterVec
	present     *prometheus.GaugeVec
	lastTick    prometheus.Gauge
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	waits       *prometheus.HistogramVec
	mirrorWrite *prometheus.CounterVec
}

// New registers all collectors plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampler_ticks_total",
			Help:      "Sampling loop iterations by outcome (ok, empty, failed).",
		}, []string{"outcome"}),
		present: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading_present",
			Help:      "1 if the reading was present in the last tick.",
		}, []string{"sensor"}),
		lastTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sampler_last_tick_timestamp_seconds",
			Help:      "Capture instant of the last published snapshot.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5, 10},
		}, []string{"route"}),
		waits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_wait_seconds",
			Help:      "Time spent waiting for a value, by whether one appeared.",
			Buckets:   []float64{0, .2, .5, 1, 2, 5, 10},
		}, []string{"satisfied"}),
		mirrorWrite: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mirror_writes_total",
			Help:      "Modbus mirror writes by block and result.",
		}, []string{"block", "result"}),
	}

	m.reg.MustRegister(
		m.ticks, m.present, m.lastTick,
		m.requests, m.duration, m.waits, m.mirrorWrite,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveTick implements sampler.Observer.
func (m *Metrics) ObserveTick(s reading.Snapshot, failed bool) {
	switch {
	case failed:
		m.ticks.WithLabelValues("failed").Inc()
	case s.AnyPresent():
		m.ticks.WithLabelValues("ok").Inc()
	default:
		m.ticks.WithLabelValues("empty").Inc()
	}

	for _, n := range reading.Names {
		v := 0.0
		if s.Get(n).Present() {
			v = 1
		}
		m.present.WithLabelValues(string(n)).Set(v)
	}
	m.lastTick.Set(float64(s.At.UnixNano()) / 1e9)
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route string, code int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveWait records one bounded wait.
func (m *Metrics) ObserveWait(d time.Duration, satisfied bool) {
	m.waits.WithLabelValues(strconv.FormatBool(satisfied)).Observe(d.Seconds())
}

// ObserveMirrorWrite implements mirror.Observer.
func (m *Metrics) ObserveMirrorWrite(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mirrorWrite.WithLabelValues(kind, result).Inc()
}
