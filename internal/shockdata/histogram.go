package shockdata

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins matches the bin count of the original analysis UI.
const DefaultHistogramBins = 30

// Histogram holds per-channel velocity counts over one shared set of bin
// edges so the channels can be overlaid on a single chart.
type Histogram struct {
	// Edges has len(bins)+1 entries; bin i covers [Edges[i], Edges[i+1]).
	Edges []float64

	// Series holds one count vector per channel, in channel order.
	Series []HistogramSeries
}

// HistogramSeries is the binned velocity counts for a single channel.
type HistogramSeries struct {
	Channel string
	Counts  []float64
}

// BinCenters returns the midpoint of each bin, for axis labelling.
func (h *Histogram) BinCenters() []float64 {
	if len(h.Edges) < 2 {
		return nil
	}
	centers := make([]float64, len(h.Edges)-1)
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

// VelocityHistograms bins the finite velocities of every channel into the
// given number of bins over a shared range. Non-finite values (the undefined
// first-row velocity in particular) are skipped, not counted as zero. A table
// with no finite velocities yields a Histogram with no edges and empty
// series, which renders as an empty chart.
func VelocityHistograms(t *Table, bins int) *Histogram {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	perChannel := make([][]float64, t.Channels())
	min := math.Inf(1)
	max := math.Inf(-1)
	total := 0
	for i := range t.Vel {
		vals := t.FiniteVelocities(i)
		sort.Float64s(vals)
		perChannel[i] = vals
		if len(vals) > 0 {
			if vals[0] < min {
				min = vals[0]
			}
			if vals[len(vals)-1] > max {
				max = vals[len(vals)-1]
			}
			total += len(vals)
		}
	}

	h := &Histogram{Series: make([]HistogramSeries, t.Channels())}
	for i := range h.Series {
		h.Series[i].Channel = fmt.Sprintf("Vel_%d", i+1)
	}
	if total == 0 {
		return h
	}

	// Degenerate range (all values identical): widen so one bin still holds
	// everything.
	if min == max {
		min -= 0.5
		max += 0.5
	}

	edges := make([]float64, bins+1)
	step := (max - min) / float64(bins)
	for i := range edges {
		edges[i] = min + float64(i)*step
	}
	// stat.Histogram requires every value strictly below the last divider.
	edges[bins] = math.Nextafter(max, math.Inf(1))
	h.Edges = edges

	for i, vals := range perChannel {
		counts := make([]float64, bins)
		if len(vals) > 0 {
			stat.Histogram(counts, edges, vals, nil)
		}
		h.Series[i].Counts = counts
	}
	return h
}
