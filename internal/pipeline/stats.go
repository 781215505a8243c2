package pipeline

import (
	"sort"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
)

// TokenStats summarizes the estimated token sizes of a set of chunks.
type TokenStats struct {
	Count int     `json:"count"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	// OverMax counts chunks above maxTokens; only indivisible units land here.
	OverMax int `json:"over_max"`
}

// Summarize computes token statistics over chunks.
func Summarize(chunks []document.Chunk, maxTokens int) TokenStats {
	if len(chunks) == 0 {
		return TokenStats{}
	}

	values := make([]int, 0, len(chunks))
	sum := 0
	over := 0
	for _, c := range chunks {
		n := chunker.EstimateTokens(c.Text)
		values = append(values, n)
		sum += n
		if n > maxTokens {
			over++
		}
	}
	sort.Ints(values)

	return TokenStats{
		Count:   len(values),
		Min:     values[0],
		Max:     values[len(values)-1],
		Avg:     float64(sum) / float64(len(values)),
		P50:     percentile(values, 50),
		P95:     percentile(values, 95),
		OverMax: over,
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo := float64(sorted[lower])
	hi := float64(sorted[upper])
	return lo + ((hi - lo) * weight)
}
