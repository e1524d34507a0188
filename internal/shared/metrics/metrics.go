package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	classificationStartedTotal   atomic.Uint64
	classificationCompletedTotal atomic.Uint64
	classificationFailedTotal    atomic.Uint64

	classificationDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncClassificationStarted increments the started counter.
func IncClassificationStarted() {
	classificationStartedTotal.Add(1)
}

// IncClassificationCompleted increments the completed counter.
func IncClassificationCompleted() {
	classificationCompletedTotal.Add(1)
}

// IncClassificationFailed increments the failed counter.
func IncClassificationFailed() {
	classificationFailedTotal.Add(1)
}

// ObserveClassificationDurationMs records a classification duration in milliseconds.
func ObserveClassificationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	classificationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render returns the current metrics in Prometheus text format.
func Render() string {
	var b strings.Builder

	writeCounter(&b, "classification_started_total", classificationStartedTotal.Load())
	writeCounter(&b, "classification_completed_total", classificationCompletedTotal.Load())
	writeCounter(&b, "classification_failed_total", classificationFailedTotal.Load())
	classificationDuration.write(&b, "classification_duration_ms")

	return b.String()
}

func writeCounter(b *strings.Builder, name string, value uint64) {
	fmt.Fprintf(b, "# TYPE %s counter\n", name)
	fmt.Fprintf(b, "%s %d\n", name, value)
}

type histogram struct {
	mu      sync.Mutex
	bounds  []float64
	buckets []uint64
	count   uint64
	sum     float64
}

func newHistogram(bounds []float64) *histogram {
	sorted := make([]float64, len(bounds))
	copy(sorted, bounds)
	sort.Float64s(sorted)
	return &histogram{
		bounds:  sorted,
		buckets: make([]uint64, len(sorted)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.bounds {
		if value <= bound {
			h.buckets[i]++
		}
	}
}

func (h *histogram) write(b *strings.Builder, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(b, "# TYPE %s histogram\n", name)
	for i, bound := range h.bounds {
		fmt.Fprintf(b, "%s_bucket{le=%q} %d\n", name, strconv.FormatFloat(bound, 'f', -1, 64), h.buckets[i])
	}
	fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, h.count)
	fmt.Fprintf(b, "%s_sum %g\n", name, h.sum)
	fmt.Fprintf(b, "%s_count %d\n", name, h.count)
}
