// Package telemetry provides request metrics for the case-management server
// using only standard library constructs: named counters and duration
// histograms with a Prometheus text exposition endpoint.
package telemetry

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

type histogram struct {
	counts []uint64
	sum    float64
	total  uint64
}

// Registry collects counters and histograms. All methods are safe for
// concurrent use.
type Registry struct {
	mu         sync.Mutex
	counters   map[string]float64
	histograms map[string]*histogram
}

func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]float64),
		histograms: make(map[string]*histogram),
	}
}

// key renders a metric name plus sorted labels into a stable series key.
func key(name string, labels map[string]string) string {
	if len(labels) == 0 {
		return name
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", k, labels[k])
	}
	b.WriteByte('}')
	return b.String()
}

// Add increments a counter by delta.
func (r *Registry) Add(name string, delta float64, labels map[string]string) {
	r.mu.Lock()
	r.counters[key(name, labels)] += delta
	r.mu.Unlock()
}

// Observe records a duration observation in seconds.
func (r *Registry) Observe(name string, seconds float64, labels map[string]string) {
	k := key(name, labels)
	r.mu.Lock()
	h, ok := r.histograms[k]
	if !ok {
		h = &histogram{counts: make([]uint64, len(histogramBuckets)+1)}
		r.histograms[k] = h
	}
	idx := len(histogramBuckets)
	for i, upper := range histogramBuckets {
		if seconds <= upper {
			idx = i
			break
		}
	}
	h.counts[idx]++
	h.sum += seconds
	h.total++
	r.mu.Unlock()
}

// CounterValue returns the current value of a counter series.
func (r *Registry) CounterValue(name string, labels map[string]string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[key(name, labels)]
}

// Expose writes all series in the Prometheus text exposition format.
func (r *Registry) Expose() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	series := make([]string, 0, len(r.counters)+len(r.histograms))
	for k, v := range r.counters {
		series = append(series, fmt.Sprintf("%s %g", k, v))
	}
	for k, h := range r.histograms {
		cumulative := uint64(0)
		for i, upper := range histogramBuckets {
			cumulative += h.counts[i]
			series = append(series, fmt.Sprintf("%s_bucket{le=%q} %d", k, fmt.Sprintf("%g", upper), cumulative))
		}
		series = append(series, fmt.Sprintf("%s_bucket{le=\"+Inf\"} %d", k, h.total))
		series = append(series, fmt.Sprintf("%s_sum %g", k, h.sum))
		series = append(series, fmt.Sprintf("%s_count %d", k, h.total))
	}
	sort.Strings(series)
	return strings.Join(series, "\n") + "\n"
}

// Handler serves the metrics endpoint.
func (r *Registry) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, r.Expose())
	}
}

// Middleware records one request counter increment and one latency
// observation per request.
func Middleware(reg *Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			labels := map[string]string{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": fmt.Sprintf("%d", c.Response().Status),
			}
			reg.Add("http_requests_total", 1, labels)
			reg.Observe("http_request_duration_seconds", time.Since(start).Seconds(), map[string]string{
				"method": c.Request().Method,
				"path":   c.Path(),
			})
			return err
		}
	}
}
