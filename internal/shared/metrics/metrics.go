package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	rankRequestsTotal       atomic.Uint64
	resumesAnalyzedTotal    atomic.Uint64
	analysisFallbacksTotal  atomic.Uint64
	extractionFailuresTotal atomic.Uint64
	quotaRejectionsTotal    atomic.Uint64

	modelCallDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncRankRequests increments the ranked-batch counter.
func IncRankRequests() {
	rankRequestsTotal.Add(1)
}

// IncResumesAnalyzed increments the per-resume counter.
func IncResumesAnalyzed() {
	resumesAnalyzedTotal.Add(1)
}

// IncAnalysisFallbacks counts resumes that got the fallback record because
// the model call or response parsing failed.
func IncAnalysisFallbacks() {
	analysisFallbacksTotal.Add(1)
}

// IncExtractionFailures counts resumes whose text could not be extracted.
func IncExtractionFailures() {
	extractionFailuresTotal.Add(1)
}

// IncQuotaRejections counts requests refused for exceeding the free limit.
func IncQuotaRejections() {
	quotaRejectionsTotal.Add(1)
}

// ObserveModelCallDurationMs records one model call duration in milliseconds.
func ObserveModelCallDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	modelCallDuration.Observe(value)
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
	writeCounter(&buf, "rank_requests_total", "Total rank batches processed", rankRequestsTotal.Load())
	writeCounter(&buf, "resumes_analyzed_total", "Total resumes analyzed", resumesAnalyzedTotal.Load())
	writeCounter(&buf, "analysis_fallbacks_total", "Total resumes that fell back to the default record", analysisFallbacksTotal.Load())
	writeCounter(&buf, "extraction_failures_total", "Total resumes whose text extraction failed", extractionFailuresTotal.Load())
	writeCounter(&buf, "quota_rejections_total", "Total requests rejected by the free limit", quotaRejectionsTotal.Load())
	writeHistogram(&buf, "model_call_duration_ms", "Model call duration in milliseconds", modelCallDuration.Snapshot())
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
	// counts holds per-bucket tallies; rendering accumulates them.
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
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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

// SinceMillis returns elapsed milliseconds since start.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond)
}
