package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	runStartedTotal   atomic.Uint64
	runCompletedTotal atomic.Uint64
	runFailedTotal    atomic.Uint64

	questionAnalyzedTotal atomic.Uint64
	questionFailedTotal   atomic.Uint64
	quotaExceededTotal    atomic.Uint64
	fallbackSegmentTotal  atomic.Uint64

	runDuration = newHistogram([]float64{1000, 5000, 15000, 30000, 60000, 120000, 300000, 600000})
)

// IncRunStarted increments the started-runs counter.
func IncRunStarted() { runStartedTotal.Add(1) }

// IncRunCompleted increments the completed-runs counter.
func IncRunCompleted() { runCompletedTotal.Add(1) }

// IncRunFailed increments the failed-runs counter.
func IncRunFailed() { runFailedTotal.Add(1) }

// IncQuestionAnalyzed increments the analyzed-questions counter.
func IncQuestionAnalyzed() { questionAnalyzedTotal.Add(1) }

// IncQuestionFailed increments the failed-questions counter.
func IncQuestionFailed() { questionFailedTotal.Add(1) }

// IncQuotaExceeded increments the quota-exhaustion counter.
func IncQuotaExceeded() { quotaExceededTotal.Add(1) }

// IncFallbackSegmentation increments the AI-resegmentation counter.
func IncFallbackSegmentation() { fallbackSegmentTotal.Add(1) }

// ObserveRunDurationMs records a full-run duration in milliseconds.
func ObserveRunDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	runDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "exam_run_started_total", "Total analysis runs started", runStartedTotal.Load())
	writeCounter(&buf, "exam_run_completed_total", "Total analysis runs completed", runCompletedTotal.Load())
	writeCounter(&buf, "exam_run_failed_total", "Total analysis runs failed", runFailedTotal.Load())
	writeCounter(&buf, "exam_question_analyzed_total", "Total questions analyzed", questionAnalyzedTotal.Load())
	writeCounter(&buf, "exam_question_failed_total", "Total questions that exhausted retries", questionFailedTotal.Load())
	writeCounter(&buf, "exam_quota_exceeded_total", "Total questions abandoned on provider quota", quotaExceededTotal.Load())
	writeCounter(&buf, "exam_fallback_segmentation_total", "Total AI-assisted resegmentations", fallbackSegmentTotal.Load())
	writeHistogram(&buf, "exam_run_duration_ms", "Run duration in milliseconds", runDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	// counts holds per-bucket tallies; rendering accumulates them into
	// the cumulative le buckets.
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
