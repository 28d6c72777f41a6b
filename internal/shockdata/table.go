// Package shockdata decodes uploaded shock-absorber position logs and derives
// per-channel velocities. The input is a fixed-rate (1 kHz) whitespace-delimited
// table of position samples, one column per shock. All functions here are pure:
// no I/O, no shared state, and a Table is never mutated after construction.
package shockdata

import (
	"fmt"
	"math"
	"sort"
)

// Table is one decoded log: a synthesized time axis, the position channels as
// uploaded, and the finite-difference velocity per channel. Column order is
// [Time, Pos_1..Pos_k, Vel_1..Vel_k]. Vel[i][0] is NaN because there is no
// prior sample to difference against; it must not be read as a measured zero.
type Table struct {
	// Time holds the synthesized axis, Time[n] = n * SampleInterval.
	Time []float64

	// Pos[i] is the position series for channel i+1. len(Pos[i]) == len(Time).
	Pos [][]float64

	// Vel[i] is the derived velocity series for channel i+1.
	// Vel[i][0] is NaN; Vel[i][n] = (Pos[i][n] - Pos[i][n-1]) / dt for n >= 1.
	Vel [][]float64

	// SampleInterval is the dt used for the time axis and velocities, in seconds.
	SampleInterval float64
}

// Rows returns the number of samples in the table.
func (t *Table) Rows() int {
	return len(t.Time)
}

// Channels returns the number of position channels.
func (t *Table) Channels() int {
	return len(t.Pos)
}

// Columns returns the column names in table order:
// Time, Pos_1..Pos_k, Vel_1..Vel_k.
func (t *Table) Columns() []string {
	cols := make([]string, 0, 1+2*len(t.Pos))
	cols = append(cols, "Time")
	for i := range t.Pos {
		cols = append(cols, fmt.Sprintf("Pos_%d", i+1))
	}
	for i := range t.Vel {
		cols = append(cols, fmt.Sprintf("Vel_%d", i+1))
	}
	return cols
}

// Window returns the contiguous rows with start <= Time <= end. Bounds that
// select nothing (including start > end) yield a zero-row table, not an
// error; chart rendering handles the empty case. The returned table shares
// backing arrays with the receiver, which is safe because tables are
// immutable after construction.
func (t *Table) Window(start, end float64) *Table {
	n := t.Rows()
	lo := sort.SearchFloat64s(t.Time, start)
	hi := sort.Search(n, func(i int) bool { return t.Time[i] > end })
	if lo > hi {
		lo = hi
	}

	out := &Table{
		Time:           t.Time[lo:hi],
		Pos:            make([][]float64, len(t.Pos)),
		Vel:            make([][]float64, len(t.Vel)),
		SampleInterval: t.SampleInterval,
	}
	for i := range t.Pos {
		out.Pos[i] = t.Pos[i][lo:hi]
	}
	for i := range t.Vel {
		out.Vel[i] = t.Vel[i][lo:hi]
	}
	return out
}

// ChannelVelocity is one row of the long-form velocity view: the wide
// Vel_1..Vel_k columns reshaped into (time, channel, value) triples for the
// overlaid per-channel histogram.
type ChannelVelocity struct {
	Time     float64
	Channel  string
	Velocity float64
}

// Melt reshapes the velocity columns into long form, channel by channel in
// row order. Undefined first-row velocities stay NaN in the melted view;
// consumers that aggregate (histogram binning, plotting) skip non-finite
// values rather than coercing them to zero.
func (t *Table) Melt() []ChannelVelocity {
	out := make([]ChannelVelocity, 0, len(t.Vel)*t.Rows())
	for i, vel := range t.Vel {
		channel := fmt.Sprintf("Vel_%d", i+1)
		for n, v := range vel {
			out = append(out, ChannelVelocity{
				Time:     t.Time[n],
				Channel:  channel,
				Velocity: v,
			})
		}
	}
	return out
}

// FiniteVelocities returns the finite (non-NaN, non-Inf) velocity values for
// channel index i, in row order.
func (t *Table) FiniteVelocities(i int) []float64 {
	out := make([]float64, 0, len(t.Vel[i]))
	for _, v := range t.Vel[i] {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
