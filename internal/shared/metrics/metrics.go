package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	assessmentsSubmittedTotal    atomic.Uint64
	recommendationsAcceptedTotal atomic.Uint64
	familiesApprovedTotal        atomic.Uint64
	familiesRejectedTotal        atomic.Uint64

	assessmentScore = newHistogram([]float64{2, 4, 6, 8, 10})

	levelsMu     sync.Mutex
	levelsTotals = map[string]uint64{}
)

// IncAssessmentSubmitted counts a persisted assessment and its classification.
func IncAssessmentSubmitted(level string) {
	assessmentsSubmittedTotal.Add(1)
	levelsMu.Lock()
	levelsTotals[level]++
	levelsMu.Unlock()
}

// AddRecommendationsAccepted counts goals created from recommendations.
func AddRecommendationsAccepted(n int) {
	if n > 0 {
		recommendationsAcceptedTotal.Add(uint64(n))
	}
}

// IncFamilyApproved increments the approval counter.
func IncFamilyApproved() {
	familiesApprovedTotal.Add(1)
}

// IncFamilyRejected increments the rejection counter.
func IncFamilyRejected() {
	familiesRejectedTotal.Add(1)
}

// ObserveAssessmentScore records a 0-10 score.
func ObserveAssessmentScore(score float64) {
	if score < 0 {
		score = 0
	}
	assessmentScore.Observe(score)
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
	writeCounter(&buf, "assessments_submitted_total", "Total assessments persisted", assessmentsSubmittedTotal.Load())
	writeLabeledCounter(&buf, "assessments_by_level_total", "Assessments persisted per poverty level", "level", levelsSnapshot())
	writeCounter(&buf, "recommendations_accepted_total", "Total recommendations turned into goals", recommendationsAcceptedTotal.Load())
	writeCounter(&buf, "families_approved_total", "Total families approved", familiesApprovedTotal.Load())
	writeCounter(&buf, "families_rejected_total", "Total families rejected", familiesRejectedTotal.Load())
	writeHistogram(&buf, "assessment_score", "Dignometro score of persisted assessments", assessmentScore.Snapshot())
	return buf.String()
}

func levelsSnapshot() map[string]uint64 {
	levelsMu.Lock()
	defer levelsMu.Unlock()
	out := make(map[string]uint64, len(levelsTotals))
	for k, v := range levelsTotals {
		out[k] = v
	}
	return out
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

// Observe puts value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
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
