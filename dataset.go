/*
Copyright © 2025 the tmp2m authors.
This file is part of tmp2m.

tmp2m is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tmp2m is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tmp2m.  If not, see <http://www.gnu.org/licenses/>.
*/

package tmp2m

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/cdf"
)

// Dimension is a named axis of a Dataset.
type Dimension struct {
	Name string

	// Len is the realized length of the dimension. For the unlimited
	// dimension it is the number of records in the file.
	Len int

	Unlimited bool
}

// Dataset is a NetCDF file opened for reading.
type Dataset struct {
	*cdf.File

	// Format is the on-disk representation of the file.
	Format Format

	numRecs int64
	closer  io.Closer
}

// OpenDataset opens the NetCDF file at path for reading.
func OpenDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tmp2m: opening input file: %v", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tmp2m: opening input file: %v", err)
	}
	d, err := newDataset(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	d.closer = f
	return d, nil
}

// newDataset reads the header of the NetCDF file held in rw, which
// is size bytes long.
func newDataset(rw cdf.ReaderWriterAt, size int64) (*Dataset, error) {
	format, err := DetectFormat(rw)
	if err != nil {
		return nil, err
	}
	if format != FormatClassic && format != Format64BitOffset {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("tmp2m: reading header: %v", err)
	}
	if errs := f.Header.Check(); errs != nil {
		return nil, fmt.Errorf("tmp2m: invalid header: %v", errs[0])
	}
	nr, err := readNumRecs(rw)
	if err != nil {
		return nil, fmt.Errorf("tmp2m: reading record count: %v", err)
	}
	if nr == streaming {
		nr = f.Header.NumRecs(size)
	}
	return &Dataset{File: f, Format: format, numRecs: nr}, nil
}

// Close releases the underlying file.
func (d *Dataset) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// NumRecs returns the number of records along the unlimited dimension.
func (d *Dataset) NumRecs() int64 { return d.numRecs }

// Dimensions returns all of the dimensions in the file, in file order.
func (d *Dataset) Dimensions() []Dimension {
	names := d.Header.Dimensions("")
	lengths := d.Header.Lengths("")
	dims := make([]Dimension, len(names))
	for i, name := range names {
		dims[i] = Dimension{Name: name, Len: lengths[i]}
		if lengths[i] == 0 {
			dims[i].Unlimited = true
			dims[i].Len = int(d.numRecs)
		}
	}
	return dims
}

// HasVariable returns whether the file holds a variable named v.
func (d *Dataset) HasVariable(v string) bool {
	for _, name := range d.Header.Variables() {
		if name == v {
			return true
		}
	}
	return false
}

// Shape returns the realized lengths of the dimensions of variable v,
// or nil if there is no such variable.
func (d *Dataset) Shape(v string) []int {
	if !d.HasVariable(v) {
		return nil
	}
	shape := append([]int{}, d.Header.Lengths(v)...)
	if d.Header.IsRecordVariable(v) {
		shape[0] = int(d.numRecs)
	}
	return shape
}

// Read returns all of the data held by variable v as a slice of
// the variable's element type. CHAR data is returned as []byte.
func (d *Dataset) Read(v string) (interface{}, error) {
	shape := d.Shape(v)
	if shape == nil {
		return nil, &NotFoundError{Variable: v}
	}
	begin, end, n := extent(shape)
	if n == 0 {
		return d.File.Reader(v, nil, nil).Zero(0), nil
	}
	return readSlab(d.File, v, begin, end, n)
}
