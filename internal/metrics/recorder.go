// Package metrics records HTTP request latencies.
//
// Every observation goes to two places: a per-route HDR histogram that serves the
// percentile summary of /api/stats, and Prometheus collectors exposed on /metrics.
package metrics

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// histogram range: 1 microsecond to 1 minute, 3 significant figures
	histMin     = 1
	histMax     = int64(time.Minute / time.Microsecond)
	histSigFigs = 3
)

// Recorder is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	hists map[string]*hdrhistogram.Histogram

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	charts   *prometheus.CounterVec
}

// NewRecorder creates a recorder and registers its collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		hists: make(map[string]*hdrhistogram.Histogram),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picarx",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "picarx",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "picarx",
			Subsystem: "charts",
			Name:      "pages_total",
			Help:      "Chart pages rendered, by chart and outcome.",
		}, []string{"chart", "outcome"}),
	}

	reg.MustRegister(r.requests, r.duration, r.charts)

	return r
}

// Observe records one request.
func (r *Recorder) Observe(route string, code int, d time.Duration) {
	r.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	r.duration.WithLabelValues(route).Observe(d.Seconds())

	us := d.Microseconds()
	if us < histMin {
		us = histMin
	}
	if us > histMax {
		us = histMax
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hists[route]
	if !ok {
		h = hdrhistogram.New(histMin, histMax, histSigFigs)
		r.hists[route] = h
	}
	_ = h.RecordValue(us)
}

// ChartPage counts a chart page; outcome is "rendered" when the chart was drawn and "empty" otherwise.
func (r *Recorder) ChartPage(chart, outcome string) {
	r.charts.WithLabelValues(chart, outcome).Inc()
}

// RouteStats is the latency summary of one route.
type RouteStats struct {
	Route string        `json:"route"`
	Count int64         `json:"count"`
	Min   time.Duration `json:"min"`
	Mean  time.Duration `json:"mean"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
}

// Snapshot returns the latency summary of every route, sorted by route.
func (r *Recorder) Snapshot() []RouteStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := make([]RouteStats, 0, len(r.hists))
	for route, h := range r.hists {
		stats = append(stats, RouteStats{
			Route: route,
			Count: h.TotalCount(),
			Min:   micros(h.Min()),
			Mean:  time.Duration(h.Mean() * float64(time.Microsecond)),
			P50:   micros(h.ValueAtQuantile(50)),
			P95:   micros(h.ValueAtQuantile(95)),
			P99:   micros(h.ValueAtQuantile(99)),
			Max:   micros(h.Max()),
		})
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Route < stats[j].Route })
	return stats
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
