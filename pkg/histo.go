package k0sperf

import (
	"fmt"
	"math"
	"sort"

	"go-hep.org/x/hep/hbook"
	"golang.org/x/exp/maps"
)

// HistKind enumerates the supported histogram shapes.
type HistKind int

const (
	TH1F HistKind = iota
	TH2F
	TH3F
	THnSparseF
)

var histKindStrings = []string{"TH1F", "TH2F", "TH3F", "THnSparseF"}

func (k HistKind) String() string {
	if k < TH1F || k > THnSparseF {
		return "UNKNOWN"
	}
	return histKindStrings[k]
}

// Dimensions returns the required axis count, 0 for the variable-rank
// sparse kind.
func (k HistKind) Dimensions() int {
	switch k {
	case TH1F:
		return 1
	case TH2F:
		return 2
	case TH3F:
		return 3
	default:
		return 0
	}
}

// Axis is one histogram dimension with uniform binning.
type Axis struct {
	Name  string
	Bins  int
	Min   float64
	Max   float64
	Label string
}

type histogram struct {
	name   string
	kind   HistKind
	axes   []Axis
	h1     *hbook.H1D
	h2     *hbook.H2D
	sparse *SparseHist
}

// Registry is a named group of histograms. Registration happens once at
// startup, fills run per candidate on a single goroutine and Snapshot
// extracts the accumulated contents for the output writers.
type Registry struct {
	Name  string
	axes  []Axis
	hists map[string]*histogram
}

func NewRegistry(name string) *Registry {
	return &Registry{
		Name:  name,
		hists: make(map[string]*histogram),
	}
}

// DefineAxis records an axis definition and returns it for registration.
func (r *Registry) DefineAxis(name string, bins int, min, max float64, label string) Axis {
	axis := Axis{Name: name, Bins: bins, Min: min, Max: max, Label: label}
	r.axes = append(r.axes, axis)
	return axis
}

// Register creates a histogram of the given kind. Fixed-rank kinds take
// exactly their dimension count in axes, the sparse kind at least one.
func (r *Registry) Register(name string, kind HistKind, axes ...Axis) error {
	if _, ok := r.hists[name]; ok {
		return fmt.Errorf("histogram %q already registered in %q", name, r.Name)
	}
	switch kind {
	case TH1F, TH2F, TH3F:
		if len(axes) != kind.Dimensions() {
			return fmt.Errorf("histogram %q: %v takes %d axes, got %d", name, kind, kind.Dimensions(), len(axes))
		}
	case THnSparseF:
		if len(axes) < 1 {
			return fmt.Errorf("histogram %q: %v takes at least one axis", name, kind)
		}
	default:
		return fmt.Errorf("histogram %q: unknown kind %d", name, int(kind))
	}
	for _, axis := range axes {
		if axis.Bins < 1 || !(axis.Min < axis.Max) {
			return fmt.Errorf("histogram %q: invalid axis %q", name, axis.Name)
		}
	}

	h := &histogram{name: name, kind: kind, axes: append([]Axis(nil), axes...)}
	switch kind {
	case TH1F:
		h.h1 = hbook.NewH1D(axes[0].Bins, axes[0].Min, axes[0].Max)
		h.h1.Ann["name"] = "/" + r.Name + "/" + name
	case TH2F:
		h.h2 = hbook.NewH2D(axes[0].Bins, axes[0].Min, axes[0].Max,
			axes[1].Bins, axes[1].Min, axes[1].Max)
		h.h2.Ann["name"] = "/" + r.Name + "/" + name
	default:
		h.sparse = NewSparseHist(axes...)
	}
	r.hists[name] = h
	return nil
}

// Fill adds one entry with unit weight. Filling an unregistered name or
// passing a value count different from the axis count is a programming
// error and panics.
func (r *Registry) Fill(name string, values ...float64) {
	h, ok := r.hists[name]
	if !ok {
		panic(fmt.Sprintf("fill of unregistered histogram %q in %q", name, r.Name))
	}
	if len(values) != len(h.axes) {
		panic(fmt.Sprintf("histogram %q takes %d values, got %d", name, len(h.axes), len(values)))
	}
	switch h.kind {
	case TH1F:
		h.h1.Fill(values[0], 1)
	case TH2F:
		h.h2.Fill(values[0], values[1], 1)
	default:
		h.sparse.Fill(values...)
	}
}

// Has reports whether a histogram name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.hists[name]
	return ok
}

// Names lists the registered histograms in a stable order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.hists)
	sort.Strings(names)
	return names
}

// H1D exposes the underlying one-dimensional histogram, nil for other kinds.
func (r *Registry) H1D(name string) *hbook.H1D {
	if h, ok := r.hists[name]; ok {
		return h.h1
	}
	return nil
}

// H2D exposes the underlying two-dimensional histogram, nil for other kinds.
func (r *Registry) H2D(name string) *hbook.H2D {
	if h, ok := r.hists[name]; ok {
		return h.h2
	}
	return nil
}

// RegistrySnapshot is a plain-value copy of a registry's contents,
// ordered by histogram name.
type RegistrySnapshot struct {
	Name  string
	Axes  []Axis
	Hists []HistSnapshot
}

type HistSnapshot struct {
	Name    string
	Kind    HistKind
	Axes    []Axis
	Entries int64
	SumW    float64
	Bins1D  []BinContent1D
	Bins2D  []BinContent2D
	BinsN   []BinContentN
}

// BinContent1D is one bin of a one-dimensional histogram. Bin -1 is the
// underflow, Bin == Axis.Bins the overflow.
type BinContent1D struct {
	Bin     int
	XLow    float64
	XHigh   float64
	SumW    float64
	SumW2   float64
	Entries int64
}

// BinContent2D is one filled bin of a two-dimensional histogram.
type BinContent2D struct {
	BinX    int
	BinY    int
	XLow    float64
	XHigh   float64
	YLow    float64
	YHigh   float64
	SumW    float64
	SumW2   float64
	Entries int64
}

// BinContentN is one filled bin of a sparse histogram. Bin is the linear
// index over the axes extended with under- and overflow, Coords holds the
// per-axis indices using the 1D convention.
type BinContentN struct {
	Bin     int64
	Coords  []int
	SumW    float64
	SumW2   float64
	Entries int64
}

func (r *Registry) Snapshot() RegistrySnapshot {
	snap := RegistrySnapshot{
		Name: r.Name,
		Axes: append([]Axis(nil), r.axes...),
	}
	names := maps.Keys(r.hists)
	sort.Strings(names)
	for _, name := range names {
		snap.Hists = append(snap.Hists, r.hists[name].snapshot())
	}
	return snap
}

func (h *histogram) snapshot() HistSnapshot {
	snap := HistSnapshot{
		Name: h.name,
		Kind: h.kind,
		Axes: append([]Axis(nil), h.axes...),
	}
	switch h.kind {
	case TH1F:
		snap.Entries = h.h1.Entries()
		snap.SumW = h.h1.SumW()
		snap.Bins1D = bins1D(h.h1, h.axes[0])
	case TH2F:
		snap.Entries = h.h2.Entries()
		snap.SumW = h.h2.SumW()
		snap.Bins2D = bins2D(h.h2, h.axes[0], h.axes[1])
	default:
		snap.Entries = h.sparse.Entries()
		snap.SumW = h.sparse.SumW()
		snap.BinsN = h.sparse.Bins()
	}
	return snap
}

// bins1D exports every in-range bin plus non-empty under- and overflow.
func bins1D(h *hbook.H1D, axis Axis) []BinContent1D {
	bins := h.Binning.Bins
	out := make([]BinContent1D, 0, len(bins)+2)

	if under := h.Binning.Outflows[0]; under.Entries() > 0 {
		out = append(out, BinContent1D{
			Bin:     -1,
			XLow:    math.Inf(-1),
			XHigh:   axis.Min,
			SumW:    under.SumW(),
			SumW2:   under.SumW2(),
			Entries: under.Entries(),
		})
	}
	for i := range bins {
		b := &bins[i]
		out = append(out, BinContent1D{
			Bin:     i,
			XLow:    b.XMin(),
			XHigh:   b.XMax(),
			SumW:    b.SumW(),
			SumW2:   b.SumW2(),
			Entries: b.Entries(),
		})
	}
	if over := h.Binning.Outflows[1]; over.Entries() > 0 {
		out = append(out, BinContent1D{
			Bin:     axis.Bins,
			XLow:    axis.Max,
			XHigh:   math.Inf(1),
			SumW:    over.SumW(),
			SumW2:   over.SumW2(),
			Entries: over.Entries(),
		})
	}
	return out
}

// bins2D exports the filled in-range bins. Bin indices are recovered
// from the bin edges so the export does not depend on the storage order.
func bins2D(h *hbook.H2D, xAxis, yAxis Axis) []BinContent2D {
	xWidth := (xAxis.Max - xAxis.Min) / float64(xAxis.Bins)
	yWidth := (yAxis.Max - yAxis.Min) / float64(yAxis.Bins)

	bins := h.Binning.Bins
	out := make([]BinContent2D, 0)
	for i := range bins {
		b := &bins[i]
		if b.Entries() == 0 {
			continue
		}
		out = append(out, BinContent2D{
			BinX:    int(math.Round((b.XMin() - xAxis.Min) / xWidth)),
			BinY:    int(math.Round((b.YMin() - yAxis.Min) / yWidth)),
			XLow:    b.XMin(),
			XHigh:   b.XMax(),
			YLow:    b.YMin(),
			YHigh:   b.YMax(),
			SumW:    b.SumW(),
			SumW2:   b.SumW2(),
			Entries: b.Entries(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BinY != out[j].BinY {
			return out[i].BinY < out[j].BinY
		}
		return out[i].BinX < out[j].BinX
	})
	return out
}
