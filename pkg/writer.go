package k0sperf

import (
	"errors"
	"fmt"
	"reflect"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// Writer stores the run metadata and the histogram registries of one
// job in a single HDF5 file. The layout keeps one group per registry
// next to a Run group with the run info and the applied cuts.
type Writer struct {
	File         *hdf5.File
	Filename     string
	RunGroup     *hdf5.Group
	RunInfoTable *hdf5.Dataset
	ParamsTable  *hdf5.Dataset

	groups   []*hdf5.Group
	datasets []*hdf5.Dataset
}

func NewWriter(filename string) *Writer {
	// Set string size for HDF5
	hdf5.SetStringLength(STRLEN)

	writer := &Writer{}
	fmt.Println("hdf5writer: Creating file: ", filename)
	writer.File = openFile(filename)
	writer.Filename = filename
	writer.RunGroup = createGroup(writer.File, "Run")
	writer.RunInfoTable = createTable(writer.RunGroup, "runInfo", RunInfoHDF5{})
	writer.ParamsTable = createTable(writer.RunGroup, "configuration", SelectionParamsHDF5{})
	return writer
}

// WriteRunInfo stores the run number and the job identifier.
func (w *Writer) WriteRunInfo(runNumber int, jobID string) {
	writeEntryToTable(w.RunInfoTable, RunInfoHDF5{
		run_number: int32(runNumber),
		job_id:     convertToHdf5String(jobID),
	}, 0)
}

// WriteSelectionConfiguration stores one row per cut. Switches and the
// event selection flag are written as numbers next to the real cuts.
func (w *Writer) WriteSelectionConfiguration(cuts SelectionCuts) {
	t := reflect.TypeOf(cuts)
	n := t.NumField()
	entries := make([]SelectionParamsHDF5, n)

	fieldsToWrite := 0
	for i := 0; i < n; i++ {
		f := t.Field(i)
		paramName := f.Tag.Get("hdf5")
		value := reflect.ValueOf(cuts).Field(i)
		switch f.Type.Kind() {
		case reflect.Float64:
			entries[fieldsToWrite] = SelectionParamsHDF5{
				paramStr: convertToHdf5String(paramName),
				value:    value.Float(),
			}
			fieldsToWrite++
		case reflect.Int:
			entries[fieldsToWrite] = SelectionParamsHDF5{
				paramStr: convertToHdf5String(paramName),
				value:    float64(value.Int()),
			}
			fieldsToWrite++
		case reflect.Bool:
			boolValue := 0.
			if value.Bool() {
				boolValue = 1.
			}
			entries[fieldsToWrite] = SelectionParamsHDF5{
				paramStr: convertToHdf5String(paramName),
				value:    boolValue,
			}
			fieldsToWrite++
		}
	}
	toWrite := entries[:fieldsToWrite]
	writeArrayToTable(w.ParamsTable, &toWrite, 0)
}

// WriteRegistry stores one group per registry holding the histogram
// summary table, the axis definitions and one bin table per histogram.
// Fixed-rank histograms also get a dense values array.
func (w *Writer) WriteRegistry(snapshot RegistrySnapshot) {
	group := createGroup(w.File, snapshot.Name)
	w.groups = append(w.groups, group)

	histInfoTable := createTable(group, "histInfo", HistInfoHDF5{})
	w.datasets = append(w.datasets, histInfoTable)
	axesTable := createTable(group, "axes", AxisHDF5{})
	w.datasets = append(w.datasets, axesTable)

	histRows := make([]HistInfoHDF5, len(snapshot.Hists))
	var axisRows []AxisHDF5
	for i, hist := range snapshot.Hists {
		histRows[i] = HistInfoHDF5{
			name:    convertToHdf5String(hist.Name),
			kind:    convertToHdf5String(hist.Kind.String()),
			ndim:    int32(len(hist.Axes)),
			entries: hist.Entries,
			sumw:    hist.SumW,
		}
		for j, axis := range hist.Axes {
			axisRows = append(axisRows, AxisHDF5{
				histogram: convertToHdf5String(hist.Name),
				axis:      int32(j),
				name:      convertToHdf5String(axis.Name),
				bins:      int32(axis.Bins),
				min:       axis.Min,
				max:       axis.Max,
				label:     convertToHdf5String(axis.Label),
			})
		}
	}
	writeArrayToTable(histInfoTable, &histRows, 0)
	writeArrayToTable(axesTable, &axisRows, 0)

	for _, hist := range snapshot.Hists {
		w.writeHistogram(group, hist)
	}
}

func (w *Writer) writeHistogram(group *hdf5.Group, hist HistSnapshot) {
	switch hist.Kind {
	case TH1F:
		table := createTable(group, hist.Name, Bin1DHDF5{})
		w.datasets = append(w.datasets, table)
		rows := make([]Bin1DHDF5, len(hist.Bins1D))
		for i, bin := range hist.Bins1D {
			rows[i] = Bin1DHDF5{
				bin:     int32(bin.Bin),
				x_low:   bin.XLow,
				x_high:  bin.XHigh,
				sumw:    bin.SumW,
				sumw2:   bin.SumW2,
				entries: bin.Entries,
			}
		}
		writeArrayToTable(table, &rows, 0)
		w.writeDense1d(group, hist)
	case TH2F:
		table := createTable(group, hist.Name, Bin2DHDF5{})
		w.datasets = append(w.datasets, table)
		rows := make([]Bin2DHDF5, len(hist.Bins2D))
		for i, bin := range hist.Bins2D {
			rows[i] = Bin2DHDF5{
				bin_x:   int32(bin.BinX),
				bin_y:   int32(bin.BinY),
				x_low:   bin.XLow,
				x_high:  bin.XHigh,
				y_low:   bin.YLow,
				y_high:  bin.YHigh,
				sumw:    bin.SumW,
				sumw2:   bin.SumW2,
				entries: bin.Entries,
			}
		}
		writeArrayToTable(table, &rows, 0)
		w.writeDense2d(group, hist)
	case TH3F, THnSparseF:
		table := createTable(group, hist.Name, BinNHDF5{})
		w.datasets = append(w.datasets, table)
		rows := make([]BinNHDF5, len(hist.BinsN))
		for i, bin := range hist.BinsN {
			rows[i] = BinNHDF5{
				bin:     bin.Bin,
				sumw:    bin.SumW,
				sumw2:   bin.SumW2,
				entries: bin.Entries,
			}
		}
		writeArrayToTable(table, &rows, 0)
		if hist.Kind == TH3F {
			w.writeDense3d(group, hist)
		}
	}
}

func (w *Writer) writeDense1d(group *hdf5.Group, hist HistSnapshot) {
	axis := hist.Axes[0]
	dataset := create2dArray(group, hist.Name+"_values", axis.Bins)
	w.datasets = append(w.datasets, dataset)

	values := make([]float64, axis.Bins)
	for _, bin := range hist.Bins1D {
		// Under- and overflow stay in the bin table only.
		if bin.Bin < 0 || bin.Bin >= axis.Bins {
			continue
		}
		values[bin.Bin] = bin.SumW
	}
	write2dArray(dataset, &values, 0, axis.Bins)
}

func (w *Writer) writeDense2d(group *hdf5.Group, hist HistSnapshot) {
	xAxis := hist.Axes[0]
	yAxis := hist.Axes[1]
	dataset := create2dArray(group, hist.Name+"_values", yAxis.Bins)
	w.datasets = append(w.datasets, dataset)

	values := make([]float64, xAxis.Bins*yAxis.Bins)
	for _, bin := range hist.Bins2D {
		values[bin.BinX*yAxis.Bins+bin.BinY] = bin.SumW
	}
	for ix := 0; ix < xAxis.Bins; ix++ {
		row := values[ix*yAxis.Bins : (ix+1)*yAxis.Bins]
		write2dArray(dataset, &row, ix, yAxis.Bins)
	}
}

func (w *Writer) writeDense3d(group *hdf5.Group, hist HistSnapshot) {
	xAxis := hist.Axes[0]
	yAxis := hist.Axes[1]
	zAxis := hist.Axes[2]
	dataset := create3dArray(group, hist.Name+"_values", xAxis.Bins, yAxis.Bins)
	w.datasets = append(w.datasets, dataset)

	// One slab of x times y values per z bin.
	slabs := make([][]float64, zAxis.Bins)
	for iz := range slabs {
		slabs[iz] = make([]float64, xAxis.Bins*yAxis.Bins)
	}
	for _, bin := range hist.BinsN {
		ix, iy, iz := bin.Coords[0], bin.Coords[1], bin.Coords[2]
		if ix < 0 || ix >= xAxis.Bins || iy < 0 || iy >= yAxis.Bins || iz < 0 || iz >= zAxis.Bins {
			continue
		}
		slabs[iz][ix*yAxis.Bins+iy] = bin.SumW
	}
	for iz := 0; iz < zAxis.Bins; iz++ {
		write3dArray(dataset, &slabs[iz], iz, xAxis.Bins, yAxis.Bins)
	}
}

func (w *Writer) Close() error {
	fmt.Println("Closing file hdf writer ", w.Filename)
	var errs []error

	if err := w.RunInfoTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run info table: %w", err))
	}
	if err := w.ParamsTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing configuration table: %w", err))
	}
	for _, dataset := range w.datasets {
		if err := dataset.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing dataset: %w", err))
		}
	}
	for _, group := range w.groups {
		if err := group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing group: %w", err))
		}
	}
	if err := w.RunGroup.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing run group: %w", err))
	}
	if err := w.File.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing file: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
