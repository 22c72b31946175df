package bulk

import (
	"sort"
	"sync"

	"github.com/vedsharma/resterx/internal/model"
)

// Stats summarizes a bulk run
type Stats struct {
	Total      int
	Completed  int
	Successful int
	Failed     int
	Durations  []int64
	MinMs      int64
	MaxMs      int64
	TotalMs    int64
}

// AvgMs returns the mean of the recorded durations
func (s Stats) AvgMs() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.TotalMs) / float64(s.Completed)
}

// SuccessRate returns the share of successful requests as a percentage
func (s Stats) SuccessRate() float64 {
	if s.Completed == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.Completed) * 100
}

// Percentile interpolates the p-th percentile of the durations (0 <= p <= 100)
func (s Stats) Percentile(p float64) int64 {
	if len(s.Durations) == 0 {
		return 0
	}

	sorted := make([]int64, len(s.Durations))
	copy(sorted, s.Durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	index := (p / 100.0) * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return int64(float64(sorted[lower])*(1-weight) + float64(sorted[upper])*weight)
}

// Succeeded reports whether rec counts as a successful bulk attempt
func Succeeded(rec model.ResponseRecord) bool {
	return !rec.Error && rec.StatusCode > 0 && rec.StatusCode < 400
}

// aggregator owns the counters of a run. Workers report through add.
type aggregator struct {
	mu    sync.Mutex
	stats Stats
}

func newAggregator(total int) *aggregator {
	return &aggregator{stats: Stats{
		Total:     total,
		Durations: make([]int64, 0, total),
		MinMs:     -1,
		MaxMs:     -1,
	}}
}

func (a *aggregator) add(rec model.ResponseRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := &a.stats
	s.Completed++
	s.TotalMs += rec.ResponseTimeMs
	s.Durations = append(s.Durations, rec.ResponseTimeMs)
	if Succeeded(rec) {
		s.Successful++
	} else {
		s.Failed++
	}
	if s.MinMs == -1 || rec.ResponseTimeMs < s.MinMs {
		s.MinMs = rec.ResponseTimeMs
	}
	if s.MaxMs == -1 || rec.ResponseTimeMs > s.MaxMs {
		s.MaxMs = rec.ResponseTimeMs
	}
}

// snapshot copies the stats so callers never share the duration slice
func (a *aggregator) snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.stats
	out.Durations = append([]int64(nil), a.stats.Durations...)
	if out.MinMs == -1 {
		out.MinMs = 0
	}
	if out.MaxMs == -1 {
		out.MaxMs = 0
	}
	return out
}
