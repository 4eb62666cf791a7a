package k0sperf

import (
	"fmt"
	"math"
	"slices"

	"golang.org/x/exp/maps"
)

// SparseHist accumulates entries in an n-dimensional binning, storing
// only the bins that were hit. Each axis is extended with an underflow
// and an overflow bin, values on the upper edge count as overflow.
type SparseHist struct {
	axes    []Axis
	strides []int64
	bins    map[int64]*sparseBin
	entries int64
	sumw    float64
}

type sparseBin struct {
	sumw    float64
	sumw2   float64
	entries int64
}

func NewSparseHist(axes ...Axis) *SparseHist {
	h := &SparseHist{
		axes:    append([]Axis(nil), axes...),
		strides: make([]int64, len(axes)),
		bins:    make(map[int64]*sparseBin),
	}
	stride := int64(1)
	for i, axis := range h.axes {
		h.strides[i] = stride
		stride *= int64(axis.Bins + 2)
	}
	return h
}

// Fill adds one entry with unit weight.
func (h *SparseHist) Fill(values ...float64) {
	if len(values) != len(h.axes) {
		panic(fmt.Sprintf("sparse histogram takes %d values, got %d", len(h.axes), len(values)))
	}
	idx := int64(0)
	for i, axis := range h.axes {
		idx += int64(axisBin(axis, values[i])+1) * h.strides[i]
	}
	b, ok := h.bins[idx]
	if !ok {
		b = &sparseBin{}
		h.bins[idx] = b
	}
	b.sumw++
	b.sumw2++
	b.entries++
	h.entries++
	h.sumw++
}

// axisBin maps a value onto an axis: -1 for underflow, Axis.Bins for
// overflow. NaN counts as overflow.
func axisBin(axis Axis, v float64) int {
	switch {
	case math.IsNaN(v):
		return axis.Bins
	case v < axis.Min:
		return -1
	case v >= axis.Max:
		return axis.Bins
	}
	bin := int(float64(axis.Bins) * (v - axis.Min) / (axis.Max - axis.Min))
	if bin >= axis.Bins {
		// rounding at the upper edge
		bin = axis.Bins - 1
	}
	return bin
}

func (h *SparseHist) Entries() int64 {
	return h.entries
}

func (h *SparseHist) SumW() float64 {
	return h.sumw
}

// Bins returns the filled bins ordered by linear index.
func (h *SparseHist) Bins() []BinContentN {
	indices := maps.Keys(h.bins)
	slices.Sort(indices)
	out := make([]BinContentN, 0, len(indices))
	for _, idx := range indices {
		b := h.bins[idx]
		out = append(out, BinContentN{
			Bin:     idx,
			Coords:  h.coords(idx),
			SumW:    b.sumw,
			SumW2:   b.sumw2,
			Entries: b.entries,
		})
	}
	return out
}

func (h *SparseHist) coords(idx int64) []int {
	coords := make([]int, len(h.axes))
	for i, axis := range h.axes {
		coords[i] = int(idx/h.strides[i]%int64(axis.Bins+2)) - 1
	}
	return coords
}
