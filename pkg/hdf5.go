package k0sperf

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type RunInfoHDF5 struct {
	run_number int32
	job_id     [STRLEN]byte
}

type SelectionParamsHDF5 struct {
	paramStr [STRLEN]byte
	value    float64
}

type HistInfoHDF5 struct {
	name    [STRLEN]byte
	kind    [STRLEN]byte
	ndim    int32
	entries int64
	sumw    float64
}

type AxisHDF5 struct {
	histogram [STRLEN]byte
	axis      int32
	name      [STRLEN]byte
	bins      int32
	min       float64
	max       float64
	label     [STRLEN]byte
}

type Bin1DHDF5 struct {
	bin     int32
	x_low   float64
	x_high  float64
	sumw    float64
	sumw2   float64
	entries int64
}

type Bin2DHDF5 struct {
	bin_x   int32
	bin_y   int32
	x_low   float64
	x_high  float64
	y_low   float64
	y_high  float64
	sumw    float64
	sumw2   float64
	entries int64
}

// BinNHDF5 rows carry the linear bin index of the sparse storage. The
// per-axis indices follow from the axes table, the stride of an axis is
// the product of bins+2 of the axes before it.
type BinNHDF5 struct {
	bin     int64
	sumw    float64
	sumw2   float64
	entries int64
}

const STRLEN = 64

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func openFile(fname string) *hdf5.File {
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		panic(err)
	}
	return f
}

func createGroup(file *hdf5.File, groupName string) *hdf5.Group {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		panic(err)
	}
	return g
}

func create3dArray(group *hdf5.Group, name string, nRows int, nCols int) *hdf5.Dataset {
	dimsArray := []uint{0, 0, 0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDimsArray := []uint{uint(unlimitedDims), uint(nRows), uint(nCols)}

	chunks := []uint{1, uint(nRows), uint(nCols)}
	dataset := createArray(group, name, dimsArray, maxDimsArray, chunks)
	return dataset
}

func create2dArray(group *hdf5.Group, name string, nCols int) *hdf5.Dataset {
	dimsArray := []uint{0, 0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDimsArray := []uint{uint(unlimitedDims), uint(nCols)}
	chunks := []uint{1, 32768}
	if nCols < 32768 {
		chunks[1] = uint(nCols)
	}
	dataset := createArray(group, name, dimsArray, maxDimsArray, chunks)
	return dataset
}

func createArray(group *hdf5.Group, name string, dims []uint, maxDims []uint, chunks []uint) *hdf5.Dataset {
	file_spaceArray, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}

	// create property list
	plistArray, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		fmt.Println("plist")
		panic(err)
	}

	plistArray.SetChunk(chunks)
	plistArray.SetDeflate(configuration.CompressionLevel)

	// create the dataset
	dsetArray, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, file_spaceArray, plistArray)
	if err != nil {
		panic(err)
	}
	return dsetArray
}

func createTable(group *hdf5.Group, name string, datatype interface{}) *hdf5.Dataset {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(err)
	}

	chunks := []uint{32768}
	plist.SetChunk(chunks)
	plist.SetDeflate(configuration.CompressionLevel)

	// create the memory data type
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		panic(err)
	}

	// create the dataset
	dset, err := group.CreateDatasetWith(name, dtype, file_space, plist)
	if err != nil {
		panic(err)
	}
	return dset
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T, offset int) {
	array := []T{data}
	writeArrayToTable(dataset, &array, offset)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T, offset int) {
	length := uint(len(*data))
	if length == 0 {
		return
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		fmt.Println("space")
		panic(err)
	}

	// extend
	rowsInTable := uint(offset)
	newsize := []uint{rowsInTable + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{rowsInTable}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		panic(err)
	}

	dataspace.Close()
	filespace.Close()
}

func write3dArray(dataset *hdf5.Dataset, data *[]float64, slab int, nRows int, nCols int) {
	// extend
	newsize := []uint{uint(slab) + 1, uint(nRows), uint(nCols)}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{uint(slab), 0, 0}
	count := []uint{1, uint(nRows), uint(nCols)}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		panic(err)
	}

	// write data to the dataset
	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		panic(err)
	}

	dataspace.Close()
	filespace.Close()
}

func write2dArray(dataset *hdf5.Dataset, data *[]float64, row int, nCols int) {
	// extend
	newsize := []uint{uint(row) + 1, uint(nCols)}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{uint(row), 0}
	count := []uint{1, uint(nCols)}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		panic(err)
	}

	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		panic(err)
	}

	dataspace.Close()
	filespace.Close()
}
