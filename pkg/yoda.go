package k0sperf

import (
	"fmt"
	"os"
)

// WriteYODA dumps the one- and two-dimensional histograms of the given
// registries in the YODA text format. Sparse histograms have no YODA
// counterpart and live in the HDF5 output only.
func WriteYODA(filename string, registries ...*Registry) error {
	file, err := os.Create(filename)
	if err != nil {
		return &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	for _, registry := range registries {
		for _, name := range registry.Names() {
			var raw []byte
			var err error
			switch {
			case registry.H1D(name) != nil:
				raw, err = registry.H1D(name).MarshalYODA()
			case registry.H2D(name) != nil:
				raw, err = registry.H2D(name).MarshalYODA()
			default:
				continue
			}
			if err != nil {
				return fmt.Errorf("error marshalling histogram %s: %w", name, err)
			}
			if _, err := file.Write(raw); err != nil {
				return fmt.Errorf("error writing histogram %s: %w", name, err)
			}
			fmt.Fprintln(file)
		}
	}
	return nil
}
